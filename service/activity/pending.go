package activity

import (
	"bealive-agent-backend/dao"
	"context"
	"fmt"
)

const (
	MsgNoPendingReservations = "There are no pending reservations for your activities."
	MsgNoPendingReviews      = "You have no pending reviews."
)

// PendingReservations describes the pending reservations on the host's open activities.
func (s *Service) PendingReservations(ctx context.Context, hostID int64) (string, error) {
	rows, err := dao.ListPendingReservations(ctx, hostID)
	if err != nil {
		return "", fmt.Errorf("failed to list pending reservations: %w", err)
	}
	if len(rows) == 0 {
		return MsgNoPendingReservations, nil
	}
	return s.formatter.Format(ctx, rows, "pending reservations on the host's open activities, waiting to be accepted or rejected")
}

type pendingReviews struct {
	Activities   []dao.PendingActivityReview `json:"activities_to_review"`
	Participants []dao.PendingUserReview     `json:"participants_to_review"`
}

// PendingReviews describes the finished activities the user attended without reviewing and
// the participants of the user's own finished activities not reviewed yet.
func (s *Service) PendingReviews(ctx context.Context, userID int64) (string, error) {
	activities, err := dao.ListPendingActivityReviews(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list pending activity reviews: %w", err)
	}
	participants, err := dao.ListPendingUserReviews(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to list pending user reviews: %w", err)
	}
	if len(activities) == 0 && len(participants) == 0 {
		return MsgNoPendingReviews, nil
	}
	return s.formatter.Format(ctx, pendingReviews{Activities: activities, Participants: participants},
		"finished activities the user attended and can review, and participants of the user's finished activities the user can review")
}
