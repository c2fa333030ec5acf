package chatbot

import (
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/formatter"
	"bealive-agent-backend/service/resolve"
	"bealive-agent-backend/service/sentiment"
	"bealive-agent-backend/service/slots"
	"bealive-agent-backend/service/vector"
	"context"
	"fmt"
	"time"
)

// SearchOptions bounds the similarity searches of activity_search and company_information.
type SearchOptions struct {
	TopK           int
	ScoreThreshold float32
}

// Handlers holds the collaborators of the per-intent routines. Store access goes through dao.
type Handlers struct {
	extractor  *extract.Extractor
	resolver   *resolve.Resolver
	formatter  *formatter.Formatter
	activities vector.Index
	company    vector.Index
	sentiment  sentiment.Scorer
	search     SearchOptions
	now        func() time.Time
}

// Dispatch routes payload to the handler of its intent. It performs no business logic.
func (h *Handlers) Dispatch(ctx context.Context, req *Request, payload slots.Payload) (string, error) {
	switch p := payload.(type) {
	case *slots.CompanyInformation:
		return h.companyInformation(ctx, req, p)
	case *slots.DeleteActivities:
		return h.deleteActivities(ctx, req, p)
	case *slots.ActivitySearch:
		return h.activitySearch(ctx, req, p)
	case *slots.ReviewUser:
		return h.reviewUser(ctx, req, p)
	case *slots.ReviewActivity:
		return h.reviewActivity(ctx, req, p)
	case *slots.MakeReservation:
		return h.makeReservation(ctx, req, p)
	case *slots.AcceptReservation:
		return h.acceptReservation(ctx, req, p)
	case *slots.RejectReservation:
		return h.rejectReservation(ctx, req, p)
	case *slots.CheckReservations:
		return h.checkReservations(ctx, req, p)
	case *slots.CheckReviews:
		return h.checkReviews(ctx, req, p)
	case *slots.CheckNumberReservations:
		return h.checkNumberReservations(ctx, req, p)
	case *slots.Chitchat:
		return h.chitchat(ctx, req, p)
	}
	return "", fail(KindValidation, MsgError, fmt.Errorf("no handler for payload %T", payload))
}

// reference is the text handed to entity resolution: the slot when known, otherwise the
// whole payload description.
func reference(slot *string, p slots.Payload) string {
	if slots.Known(slot) {
		return slots.Value(slot)
	}
	return p.Describe()
}

func (h *Handlers) resolve(ctx context.Context, kind resolve.Kind, ref string, candidates []model.Candidate) (resolve.Resolution, error) {
	res, err := h.resolver.Resolve(ctx, kind, ref, candidates)
	if err != nil {
		return res, extractionFailed(err)
	}
	return res, nil
}
