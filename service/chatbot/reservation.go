package chatbot

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/resolve"
	"bealive-agent-backend/service/slots"
	"context"
	"errors"
)

func (h *Handlers) makeReservation(ctx context.Context, req *Request, p *slots.MakeReservation) (string, error) {
	candidates, err := dao.OpenActivityCandidates(ctx)
	if err != nil {
		return "", storeFailed(MsgOpenActivityFailed, err)
	}
	activity, err := h.resolve(ctx, resolve.KindActivity, reference(p.ActivityName, p), candidates)
	if err != nil {
		return "", err
	}
	if !activity.Found {
		return MsgNoOpenActivity, nil
	}

	message, err := h.reservationMessage(ctx, p.Describe())
	if err != nil {
		return "", extractionFailed(err)
	}

	_, err = dao.CreateReservation(ctx, activity.ID, req.UserID, message)
	switch {
	case errors.Is(err, dao.ErrDuplicateReservation):
		return MsgDuplicate, nil
	case errors.Is(err, dao.ErrActivityNotOpen):
		return MsgNotOpen, nil
	case errors.Is(err, dao.ErrOwnActivity):
		return MsgOwnActivity, nil
	case err != nil:
		return "", storeFailed(MsgReserveFailed, err)
	}
	return MsgReserved, nil
}

func (h *Handlers) acceptReservation(ctx context.Context, req *Request, p *slots.AcceptReservation) (string, error) {
	activityID, userID, reply, err := h.pendingReservation(ctx, req, p, p.ReservationDecision)
	if err != nil || reply != "" {
		return reply, err
	}

	activity, err := dao.AcceptReservation(ctx, req.UserID, activityID, userID)
	switch {
	case errors.Is(err, dao.ErrActivityNotOpen), errors.Is(err, dao.ErrActivityNotFound):
		return MsgActivityFull, nil
	case errors.Is(err, dao.ErrReservationNotFound):
		return MsgNoReservationUser, nil
	case err != nil:
		return "", storeFailed(MsgAcceptFailed, err)
	}

	if activity.ActivityState == model.ActivityFull {
		return MsgAccepted + ". " + MsgNowFull, nil
	}
	return MsgAccepted, nil
}

func (h *Handlers) rejectReservation(ctx context.Context, req *Request, p *slots.RejectReservation) (string, error) {
	activityID, userID, reply, err := h.pendingReservation(ctx, req, p, p.ReservationDecision)
	if err != nil || reply != "" {
		return reply, err
	}

	err = dao.RejectReservation(ctx, req.UserID, activityID, userID)
	switch {
	case errors.Is(err, dao.ErrReservationNotFound):
		return MsgNoReservationUser, nil
	case err != nil:
		return "", storeFailed(MsgRejectFailed, err)
	}
	return MsgRejected, nil
}

// pendingReservation resolves the host's activity and then the user among its pending
// reservations. A non-empty reply ends the turn without an error.
func (h *Handlers) pendingReservation(ctx context.Context, req *Request, p slots.Payload, d slots.ReservationDecision) (activityID, userID int64, reply string, err error) {
	activities, err := dao.HostActiveActivityCandidates(ctx, req.UserID)
	if err != nil {
		return 0, 0, "", storeFailed(MsgHostActivityFailed, err)
	}
	activity, err := h.resolve(ctx, resolve.KindActivity, reference(d.ActivityName, p), activities)
	if err != nil {
		return 0, 0, "", err
	}
	if !activity.Found {
		return 0, 0, MsgNoHostActivity, nil
	}

	users, err := dao.ReservationUserCandidates(ctx, activity.ID, model.ReservationPending)
	if err != nil {
		return 0, 0, "", storeFailed(MsgReservationsFailed, err)
	}
	if len(users) == 0 {
		return 0, 0, MsgNoPending, nil
	}

	user, err := h.resolve(ctx, resolve.KindUser, reference(d.Username, p), users)
	if err != nil {
		return 0, 0, "", err
	}
	if !user.Found {
		return 0, 0, MsgNoReservationUser, nil
	}
	return activity.ID, user.ID, "", nil
}
