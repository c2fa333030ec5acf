package chatbot

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/service/resolve"
	"bealive-agent-backend/service/slots"
	"context"
	"fmt"
)

// hostActivity resolves a reference among all activities of the host. A non-empty reply
// ends the turn.
func (h *Handlers) hostActivity(ctx context.Context, hostID int64, ref string) (int64, string, error) {
	candidates, err := dao.HostActivityCandidates(ctx, hostID)
	if err != nil {
		return 0, "", storeFailed(MsgHostActivityFailed, err)
	}
	activity, err := h.resolve(ctx, resolve.KindActivity, ref, candidates)
	if err != nil {
		return 0, "", err
	}
	if !activity.Found {
		return 0, MsgNoHostActivity, nil
	}
	return activity.ID, "", nil
}

func (h *Handlers) checkReservations(ctx context.Context, req *Request, p *slots.CheckReservations) (string, error) {
	activityID, reply, err := h.hostActivity(ctx, req.UserID, reference(p.ActivityName, p))
	if err != nil || reply != "" {
		return reply, err
	}

	rows, err := dao.ListActivityReservations(ctx, activityID)
	if err != nil {
		return "", storeFailed(MsgListReservFailed, err)
	}
	if len(rows) == 0 {
		return MsgNoReservations, nil
	}
	return h.format(ctx, rows, "reservations made on one of the host's activities, with the participant's rating and contact details, state and message")
}

func (h *Handlers) checkReviews(ctx context.Context, req *Request, p *slots.CheckReviews) (string, error) {
	activityID, reply, err := h.hostActivity(ctx, req.UserID, reference(p.ActivityName, p))
	if err != nil || reply != "" {
		return reply, err
	}

	rows, err := dao.ListActivityReviews(ctx, activityID)
	if err != nil {
		return "", storeFailed(MsgListReviewsFailed, err)
	}
	if len(rows) == 0 {
		return MsgNoReviews, nil
	}
	return h.format(ctx, rows, "reviews left by participants on one of the host's activities, newest first")
}

func (h *Handlers) checkNumberReservations(ctx context.Context, req *Request, p *slots.CheckNumberReservations) (string, error) {
	activityID, reply, err := h.hostActivity(ctx, req.UserID, reference(p.ActivityName, p))
	if err != nil || reply != "" {
		return reply, err
	}

	count, err := dao.CountActivityReservations(ctx, activityID)
	if err != nil {
		return "", storeFailed(MsgCountFailed, err)
	}
	return h.format(ctx, count, fmt.Sprintf("participants, capacity and reservation counts of the activity %q", count.ActivityName))
}
