package dao

import (
	"bealive-agent-backend/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRatingUpdate derives the new activity and host cumulative ratings from their current values.
type ActivityRatingUpdate func(activityOld, hostOld float64) (activityNew, hostNew float64)

// UserRatingUpdate derives a reviewed user's new cumulative rating from the current one.
type UserRatingUpdate func(old float64) float64

// ReviewRow is a review joined with its author's username.
type ReviewRow struct {
	Username  string    `json:"username"`
	Review    string    `json:"review"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// PendingActivityReview is a finished activity the user attended but has not reviewed.
type PendingActivityReview struct {
	ActivityID   int64  `json:"activity_id"`
	ActivityName string `json:"activity_name"`
}

// PendingUserReview is a participant of one of the host's finished activities not yet reviewed.
type PendingUserReview struct {
	ActivityID   int64  `json:"activity_id"`
	ActivityName string `json:"activity_name"`
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
}

// CreateActivityReview stores the review and applies update to the activity's and host's
// cumulative ratings in one transaction. The reviewer must hold a confirmed reservation on
// the finished activity.
func CreateActivityReview(ctx context.Context, review *model.ActivityReview, update ActivityRatingUpdate) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := lockActivity(tx, review.ActivityID)
		if err != nil {
			return err
		}
		if activity.ActivityState != model.ActivityFinished {
			return ErrNotEligible
		}
		if err := requireConfirmed(tx, review.ActivityID, review.UserID); err != nil {
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReviewed
			}
			return err
		}

		host, err := lockUser(tx, activity.HostID)
		if err != nil {
			return err
		}

		activityNew, hostNew := update(activity.CumulativeRating, host.CumulativeRating)
		if err := tx.Model(&model.Activity{}).
			Where("activity_id = ?", activity.ActivityID).
			Update("cumulative_rating", activityNew).Error; err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("user_id = ?", host.UserID).
			Update("cumulative_rating", hostNew).Error
	})
}

// CreateUserReview stores a host's review of a participant and applies update to the
// participant's cumulative rating in one transaction.
func CreateUserReview(ctx context.Context, review *model.UserReview, update UserRatingUpdate) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := lockHostActivity(tx, review.HostID, review.ActivityID)
		if err != nil {
			return err
		}
		if activity.ActivityState != model.ActivityFinished {
			return ErrNotEligible
		}
		if err := requireConfirmed(tx, review.ActivityID, review.UserID); err != nil {
			return err
		}

		if err := tx.Create(review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReviewed
			}
			return err
		}

		user, err := lockUser(tx, review.UserID)
		if err != nil {
			return err
		}
		return tx.Model(&model.User{}).
			Where("user_id = ?", user.UserID).
			Update("cumulative_rating", update(user.CumulativeRating)).Error
	})
}

// ListActivityReviews returns the reviews left on activityID, newest first.
func ListActivityReviews(ctx context.Context, activityID int64) ([]ReviewRow, error) {
	var rows []ReviewRow
	if err := DB.WithContext(ctx).
		Table("review_activity AS ra").
		Select("u.username, ra.review, ra.rating, ra.created_at").
		Joins("JOIN users AS u ON u.user_id = ra.user_id").
		Where("ra.activity_id = ?", activityID).
		Order("ra.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingActivityReviews returns the finished activities userID attended without reviewing.
func ListPendingActivityReviews(ctx context.Context, userID int64) ([]PendingActivityReview, error) {
	var rows []PendingActivityReview
	if err := DB.WithContext(ctx).
		Table("reservations AS r").
		Select("a.activity_id, a.activity_name").
		Joins("JOIN activities AS a ON a.activity_id = r.activity_id").
		Joins("LEFT JOIN review_activity AS ra ON ra.activity_id = r.activity_id AND ra.user_id = r.user_id").
		Where("r.user_id = ? AND r.state = ? AND a.activity_state = ? AND ra.id IS NULL",
			userID, model.ReservationConfirmed, model.ActivityFinished).
		Order("a.date_finish DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingUserReviews returns participants of hostID's finished activities that the host has not reviewed.
func ListPendingUserReviews(ctx context.Context, hostID int64) ([]PendingUserReview, error) {
	var rows []PendingUserReview
	if err := DB.WithContext(ctx).
		Table("reservations AS r").
		Select("a.activity_id, a.activity_name, u.user_id, u.username").
		Joins("JOIN activities AS a ON a.activity_id = r.activity_id").
		Joins("JOIN users AS u ON u.user_id = r.user_id").
		Joins("LEFT JOIN review_user AS ru ON ru.activity_id = r.activity_id AND ru.user_id = r.user_id").
		Where("a.host_id = ? AND r.state = ? AND a.activity_state = ? AND ru.id IS NULL",
			hostID, model.ReservationConfirmed, model.ActivityFinished).
		Order("a.date_finish DESC, u.username ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func requireConfirmed(tx *gorm.DB, activityID, userID int64) error {
	var count int64
	if err := tx.Model(&model.Reservation{}).
		Where("activity_id = ? AND user_id = ? AND state = ?", activityID, userID, model.ReservationConfirmed).
		Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrNotEligible
	}
	return nil
}

func lockUser(tx *gorm.DB, userID int64) (*model.User, error) {
	var user model.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
