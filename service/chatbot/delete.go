package chatbot

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/resolve"
	"bealive-agent-backend/service/slots"
	"context"
	"errors"
	"log/slog"
)

// indexError marks a failure of the vector index inside the delete transaction.
type indexError struct {
	err error
}

func (e *indexError) Error() string { return e.err.Error() }
func (e *indexError) Unwrap() error { return e.err }

func (h *Handlers) deleteActivities(ctx context.Context, req *Request, p *slots.DeleteActivities) (string, error) {
	ref := reference(p.ActivityName, p)

	active, err := dao.HostActiveActivityCandidates(ctx, req.UserID)
	if err != nil {
		return "", storeFailed(MsgHostActivityFailed, err)
	}
	activity, err := h.resolve(ctx, resolve.KindActivity, ref, active)
	if err != nil {
		return "", err
	}
	if !activity.Found {
		return h.explainMissingActivity(ctx, req.UserID, ref)
	}

	unindexed := false
	err = dao.DeleteActivity(ctx, req.UserID, activity.ID, func(a *model.Activity) error {
		if err := h.activities.Delete(ctx, a.ActivityID); err != nil {
			return &indexError{err: err}
		}
		unindexed = true
		return nil
	})
	if err != nil && unindexed {
		h.forgetVector(ctx, activity.ID)
	}
	var ie *indexError
	switch {
	case errors.Is(err, dao.ErrActivityFinished):
		return MsgAlreadyFinished, nil
	case errors.Is(err, dao.ErrActivityNotFound):
		return MsgDeleteNoActivity, nil
	case errors.As(err, &ie):
		return "", fail(KindVectorIndex, MsgDeleteIndexFailed, ie.err)
	case err != nil:
		return "", storeFailed(MsgDeleteFailed, err)
	}
	return MsgActivityRemoved, nil
}

// explainMissingActivity tells a host whether the activity they named has already finished.
func (h *Handlers) explainMissingActivity(ctx context.Context, hostID int64, ref string) (string, error) {
	finished, err := dao.HostFinishedActivityCandidates(ctx, hostID)
	if err != nil {
		return "", storeFailed(MsgHostActivityFailed, err)
	}
	activity, err := h.resolve(ctx, resolve.KindActivity, ref, finished)
	if err != nil {
		return "", err
	}
	if activity.Found {
		return MsgAlreadyFinished, nil
	}
	return MsgDeleteNoActivity, nil
}

// forgetVector clears the index reference of an activity that survived a failed delete after
// its index entry was removed, so the sweep indexes it again.
func (h *Handlers) forgetVector(ctx context.Context, activityID int64) {
	if err := dao.SetActivityVectorID(context.WithoutCancel(ctx), activityID, nil); err != nil {
		slog.Error("failed to clear vector id after aborted delete",
			"activity_id", activityID,
			"err", err,
		)
	}
}
