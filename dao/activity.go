package dao

import (
	"bealive-agent-backend/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func GetActivity(ctx context.Context, activityID int64) (*model.Activity, error) {
	var activity model.Activity
	if err := DB.WithContext(ctx).
		Where("activity_id = ?", activityID).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// GetActivitiesByIDs returns the activities in the order of ids, skipping ids that no longer exist.
func GetActivitiesByIDs(ctx context.Context, ids []int64) ([]model.Activity, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var rows []model.Activity
	if err := DB.WithContext(ctx).
		Where("activity_id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Activity, len(rows))
	for _, a := range rows {
		byID[a.ActivityID] = a
	}
	activities := make([]model.Activity, 0, len(rows))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			activities = append(activities, a)
		}
	}
	return activities, nil
}

// SearchOpenActivityIDs returns open activities in city that begin no earlier than start
// and finish no later than end.
// An empty city matches every city.
func SearchOpenActivityIDs(ctx context.Context, city string, start, end time.Time) ([]int64, error) {
	query := DB.WithContext(ctx).
		Model(&model.Activity{}).
		Where("activity_state = ?", model.ActivityOpen).
		Where("date_begin >= ? AND date_finish <= ?", start, end)
	if city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	var ids []int64
	if err := query.Order("date_begin ASC").Pluck("activity_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func CreateActivity(ctx context.Context, activity *model.Activity) error {
	return DB.WithContext(ctx).Create(activity).Error
}

func SetActivityVectorID(ctx context.Context, activityID int64, vectorID *string) error {
	return DB.WithContext(ctx).
		Model(&model.Activity{}).
		Where("activity_id = ?", activityID).
		Update("vector_id", vectorID).Error
}

// ListUnindexedActivities returns open and full activities without an index reference.
func ListUnindexedActivities(ctx context.Context) ([]model.Activity, error) {
	var activities []model.Activity
	if err := DB.WithContext(ctx).
		Where("activity_state IN ? AND vector_id IS NULL",
			[]model.ActivityState{model.ActivityOpen, model.ActivityFull}).
		Order("activity_id ASC").
		Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// DeleteActivity removes an unfinished activity of hostID together with its reservations.
// The state is re-checked under a row lock; beforeDelete runs inside the same transaction
// so a failure there leaves the activity untouched.
func DeleteActivity(ctx context.Context, hostID, activityID int64, beforeDelete func(*model.Activity) error) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := lockHostActivity(tx, hostID, activityID)
		if err != nil {
			return err
		}
		if activity.ActivityState == model.ActivityFinished {
			return ErrActivityFinished
		}

		if beforeDelete != nil {
			if err := beforeDelete(activity); err != nil {
				return err
			}
		}

		if err := tx.Where("activity_id = ?", activityID).
			Delete(&model.Reservation{}).Error; err != nil {
			return err
		}
		return tx.Where("activity_id = ?", activityID).
			Delete(&model.Activity{}).Error
	})
}

// FinishExpiredActivities moves open and full activities whose end time has passed
// to finished and clears their index reference. The affected rows are returned as
// they were before the update.
func FinishExpiredActivities(ctx context.Context, now time.Time) ([]model.Activity, error) {
	var expired []model.Activity
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("activity_state IN ? AND date_finish < ?",
				[]model.ActivityState{model.ActivityOpen, model.ActivityFull}, now).
			Find(&expired).Error; err != nil {
			return err
		}
		if len(expired) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(expired))
		for _, a := range expired {
			ids = append(ids, a.ActivityID)
		}
		return tx.Model(&model.Activity{}).
			Where("activity_id IN ?", ids).
			Updates(map[string]any{
				"activity_state": model.ActivityFinished,
				"vector_id":      nil,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return expired, nil
}

func lockHostActivity(tx *gorm.DB, hostID, activityID int64) (*model.Activity, error) {
	var activity model.Activity
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("activity_id = ? AND host_id = ?", activityID, hostID).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}

func lockActivity(tx *gorm.DB, activityID int64) (*model.Activity, error) {
	var activity model.Activity
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("activity_id = ?", activityID).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return &activity, nil
}
