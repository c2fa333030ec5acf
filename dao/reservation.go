package dao

import (
	"bealive-agent-backend/model"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// ReservationRow is a reservation joined with its participant and activity name.
type ReservationRow struct {
	ActivityID       int64                  `json:"activity_id"`
	ActivityName     string                 `json:"activity_name"`
	UserID           int64                  `json:"user_id"`
	Username         string                 `json:"username"`
	CumulativeRating float64                `json:"cumulative_rating"`
	PhoneNumber      string                 `json:"phone_number"`
	Email            string                 `json:"email"`
	Message          string                 `json:"message"`
	State            model.ReservationState `json:"state"`
	CreatedAt        time.Time              `json:"created_at"`
}

// ReservationCount summarizes how full an activity is.
type ReservationCount struct {
	ActivityName       string `json:"activity_name"`
	MaxParticipants    int    `json:"max_participants"`
	NumberParticipants int    `json:"number_participants"`
	Pending            int64  `json:"pending_reservations"`
	Confirmed          int64  `json:"confirmed_reservations"`
	SpotsLeft          int    `json:"spots_left"`
}

// CreateReservation inserts a pending reservation for an open activity. The activity's host
// is taken from the activity row.
func CreateReservation(ctx context.Context, activityID, userID int64, message string) (*model.Reservation, error) {
	var reservation *model.Reservation
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activity, err := lockActivity(tx, activityID)
		if err != nil {
			return err
		}
		if activity.ActivityState != model.ActivityOpen {
			return ErrActivityNotOpen
		}
		if activity.HostID == userID {
			return ErrOwnActivity
		}

		reservation = &model.Reservation{
			ActivityID: activityID,
			UserID:     userID,
			HostID:     activity.HostID,
			Message:    message,
			State:      model.ReservationPending,
		}
		if err := tx.Create(reservation).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReservation
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reservation, nil
}

// AcceptReservation confirms a pending reservation, increments the participant count and
// marks the activity full once capacity is reached, as one atomic unit.
func AcceptReservation(ctx context.Context, hostID, activityID, userID int64) (*model.Activity, error) {
	var activity *model.Activity
	err := DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		activity, err = lockHostActivity(tx, hostID, activityID)
		if err != nil {
			return err
		}
		if activity.ActivityState != model.ActivityOpen ||
			activity.NumberParticipants >= activity.MaxParticipants {
			return ErrActivityNotOpen
		}

		result := tx.Model(&model.Reservation{}).
			Where("activity_id = ? AND user_id = ? AND state = ?", activityID, userID, model.ReservationPending).
			Update("state", model.ReservationConfirmed)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrReservationNotFound
		}

		activity.NumberParticipants++
		if activity.NumberParticipants >= activity.MaxParticipants {
			activity.ActivityState = model.ActivityFull
		}
		return tx.Model(&model.Activity{}).
			Where("activity_id = ?", activityID).
			Updates(map[string]any{
				"number_participants": activity.NumberParticipants,
				"activity_state":      activity.ActivityState,
			}).Error
	})
	if err != nil {
		return nil, err
	}
	return activity, nil
}

// RejectReservation deletes a pending reservation on one of hostID's activities.
func RejectReservation(ctx context.Context, hostID, activityID, userID int64) error {
	result := DB.WithContext(ctx).
		Where("host_id = ? AND activity_id = ? AND user_id = ? AND state = ?",
			hostID, activityID, userID, model.ReservationPending).
		Delete(&model.Reservation{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrReservationNotFound
	}
	return nil
}

func reservationRows(db *gorm.DB) *gorm.DB {
	return db.Table("reservations AS r").
		Select("r.activity_id, a.activity_name, r.user_id, u.username, u.cumulative_rating, " +
			"u.phone_number, u.email, r.message, r.state, r.created_at").
		Joins("JOIN activities AS a ON a.activity_id = r.activity_id").
		Joins("JOIN users AS u ON u.user_id = r.user_id")
}

// ListActivityReservations returns every reservation on activityID.
func ListActivityReservations(ctx context.Context, activityID int64) ([]ReservationRow, error) {
	var rows []ReservationRow
	if err := reservationRows(DB.WithContext(ctx)).
		Where("r.activity_id = ?", activityID).
		Order("r.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListPendingReservations returns pending reservations on the host's open activities.
func ListPendingReservations(ctx context.Context, hostID int64) ([]ReservationRow, error) {
	var rows []ReservationRow
	if err := reservationRows(DB.WithContext(ctx)).
		Where("r.host_id = ? AND r.state = ? AND a.activity_state = ?",
			hostID, model.ReservationPending, model.ActivityOpen).
		Order("r.activity_id ASC, r.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountActivityReservations reports capacity and reservation counts for activityID.
func CountActivityReservations(ctx context.Context, activityID int64) (*ReservationCount, error) {
	activity, err := GetActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}

	var counts []struct {
		State model.ReservationState
		Total int64
	}
	if err := DB.WithContext(ctx).
		Model(&model.Reservation{}).
		Select("state, COUNT(*) AS total").
		Where("activity_id = ?", activityID).
		Group("state").
		Scan(&counts).Error; err != nil {
		return nil, err
	}

	rc := &ReservationCount{
		ActivityName:       activity.ActivityName,
		MaxParticipants:    activity.MaxParticipants,
		NumberParticipants: activity.NumberParticipants,
		SpotsLeft:          max(activity.MaxParticipants-activity.NumberParticipants, 0),
	}
	for _, c := range counts {
		switch c.State {
		case model.ReservationPending:
			rc.Pending = c.Total
		case model.ReservationConfirmed:
			rc.Confirmed = c.Total
		}
	}
	return rc, nil
}
