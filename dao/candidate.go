package dao

import (
	"bealive-agent-backend/model"
	"context"
)

// Candidate lists are always narrowed to rows the acting user may touch before
// they are offered to entity resolution.

func activityCandidates(ctx context.Context, query string, args ...any) ([]model.Candidate, error) {
	var candidates []model.Candidate
	if err := DB.WithContext(ctx).
		Model(&model.Activity{}).
		Where(query, args...).
		Select("activity_id AS id, activity_name AS name").
		Order("activity_id ASC").
		Scan(&candidates).Error; err != nil {
		return nil, err
	}
	return candidates, nil
}

// OpenActivityCandidates returns every open activity, regardless of host.
func OpenActivityCandidates(ctx context.Context) ([]model.Candidate, error) {
	return activityCandidates(ctx, "activity_state = ?", model.ActivityOpen)
}

// HostActivityCandidates returns all activities hosted by hostID.
func HostActivityCandidates(ctx context.Context, hostID int64) ([]model.Candidate, error) {
	return activityCandidates(ctx, "host_id = ?", hostID)
}

// HostActiveActivityCandidates returns the host's activities that have not finished.
func HostActiveActivityCandidates(ctx context.Context, hostID int64) ([]model.Candidate, error) {
	return activityCandidates(ctx, "host_id = ? AND activity_state <> ?", hostID, model.ActivityFinished)
}

// HostFinishedActivityCandidates returns the host's finished activities.
func HostFinishedActivityCandidates(ctx context.Context, hostID int64) ([]model.Candidate, error) {
	return activityCandidates(ctx, "host_id = ? AND activity_state = ?", hostID, model.ActivityFinished)
}

// AttendedActivityCandidates returns finished activities in which userID held a confirmed reservation.
func AttendedActivityCandidates(ctx context.Context, userID int64) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := DB.WithContext(ctx).
		Table("activities AS a").
		Select("a.activity_id AS id, a.activity_name AS name").
		Joins("JOIN reservations AS r ON r.activity_id = a.activity_id").
		Where("r.user_id = ? AND r.state = ? AND a.activity_state = ?",
			userID, model.ReservationConfirmed, model.ActivityFinished).
		Order("a.activity_id ASC").
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}

// ReservationUserCandidates returns the users holding a reservation in state on activityID.
func ReservationUserCandidates(ctx context.Context, activityID int64, state model.ReservationState) ([]model.Candidate, error) {
	var candidates []model.Candidate
	err := DB.WithContext(ctx).
		Table("reservations AS r").
		Select("u.user_id AS id, u.username AS name").
		Joins("JOIN users AS u ON u.user_id = r.user_id").
		Where("r.activity_id = ? AND r.state = ?", activityID, state).
		Order("u.user_id ASC").
		Scan(&candidates).Error
	if err != nil {
		return nil, err
	}
	return candidates, nil
}
