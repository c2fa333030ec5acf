package chatbot

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/resolve"
	"bealive-agent-backend/service/slots"
	"context"
	"errors"
)

// assessment is the rating, text and positivity of one review.
type assessment struct {
	rating     int
	review     string
	positivity float64
}

func (h *Handlers) assess(ctx context.Context, p slots.Payload) (assessment, error) {
	description := p.Describe()

	rating, err := h.rating(ctx, description)
	if err != nil {
		return assessment{}, extractionFailed(err)
	}
	review, err := h.reviewText(ctx, description)
	if err != nil {
		return assessment{}, extractionFailed(err)
	}
	positivity, err := h.sentiment.Score(ctx, review)
	if err != nil {
		return assessment{}, fail(KindSentiment, MsgSentimentFailed, err)
	}
	return assessment{rating: rating, review: review, positivity: positivity}, nil
}

func reviewOutcome(err error) (string, error) {
	switch {
	case errors.Is(err, dao.ErrAlreadyReviewed):
		return MsgAlreadyReviewed, nil
	case errors.Is(err, dao.ErrNotEligible), errors.Is(err, dao.ErrActivityNotFound):
		return MsgNotEligible, nil
	case err != nil:
		return "", storeFailed(MsgReviewFailed, err)
	}
	return MsgReviewed, nil
}

func (h *Handlers) reviewActivity(ctx context.Context, req *Request, p *slots.ReviewActivity) (string, error) {
	candidates, err := dao.AttendedActivityCandidates(ctx, req.UserID)
	if err != nil {
		return "", storeFailed(MsgAttendedFailed, err)
	}
	activity, err := h.resolve(ctx, resolve.KindActivity, reference(p.ActivityName, p), candidates)
	if err != nil {
		return "", err
	}
	if !activity.Found {
		return MsgNotAttended, nil
	}

	a, err := h.assess(ctx, p)
	if err != nil {
		return "", err
	}

	review := &model.ActivityReview{
		ActivityID: activity.ID,
		UserID:     req.UserID,
		Review:     a.review,
		Rating:     StoredRating(a.rating, a.positivity),
	}
	return reviewOutcome(dao.CreateActivityReview(ctx, review, ActivityUpdate(Contribution(a.rating, a.positivity))))
}

func (h *Handlers) reviewUser(ctx context.Context, req *Request, p *slots.ReviewUser) (string, error) {
	activities, err := dao.HostFinishedActivityCandidates(ctx, req.UserID)
	if err != nil {
		return "", storeFailed(MsgHostActivityFailed, err)
	}
	activity, err := h.resolve(ctx, resolve.KindActivity, reference(p.ActivityName, p), activities)
	if err != nil {
		return "", err
	}
	if !activity.Found {
		return MsgNoFinishedActivity, nil
	}

	participants, err := dao.ReservationUserCandidates(ctx, activity.ID, model.ReservationConfirmed)
	if err != nil {
		return "", storeFailed(MsgParticipantsFailed, err)
	}
	user, err := h.resolve(ctx, resolve.KindUser, reference(p.Username, p), participants)
	if err != nil {
		return "", err
	}
	if !user.Found {
		return MsgNoParticipant, nil
	}

	a, err := h.assess(ctx, p)
	if err != nil {
		return "", err
	}

	review := &model.UserReview{
		HostID:     req.UserID,
		ActivityID: activity.ID,
		UserID:     user.ID,
		Review:     a.review,
		Rating:     StoredRating(a.rating, max(a.positivity, userPositivityFloor)),
	}
	return reviewOutcome(dao.CreateUserReview(ctx, review, UserUpdate(a.rating, a.positivity)))
}
