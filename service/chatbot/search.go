package chatbot

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/slots"
	"bealive-agent-backend/service/vector"
	"context"
	"errors"
	"fmt"
	"time"
)

type searchRow struct {
	Name               string    `json:"activity_name"`
	Description        string    `json:"activity_description"`
	Location           string    `json:"location"`
	City               string    `json:"city"`
	NumberParticipants int       `json:"number_participants"`
	MaxParticipants    int       `json:"max_participants"`
	DateBegin          time.Time `json:"date_begin"`
	DateFinish         time.Time `json:"date_finish"`
}

func (h *Handlers) activitySearch(ctx context.Context, req *Request, p *slots.ActivitySearch) (string, error) {
	info, err := h.searchInfo(ctx, p.Describe())
	if err != nil {
		return "", extractionFailed(err)
	}

	now := h.now()
	start, end, err := NormalizeDateRange(info.DateRangeStart, info.DateRangeEnd, now)
	if err != nil {
		if errors.Is(err, ErrInvalidDateRange) {
			return "", fail(KindValidation, MsgInvalidDateRange, err)
		}
		return "", extractionFailed(err)
	}

	user, err := dao.GetUser(ctx, req.UserID)
	if err != nil {
		return "", storeFailed(MsgUserInfoFailed, err)
	}

	city := slots.Value(info.City)
	if city == "" {
		city = user.City
	}

	ids, err := dao.SearchOpenActivityIDs(ctx, city, start, end)
	if err != nil {
		return "", storeFailed(MsgActivitiesFailed, err)
	}
	if len(ids) == 0 {
		return MsgNoActivityFound, nil
	}

	request := slots.Value(p.Request)
	if request == "" {
		request = req.Utterance
	}
	hits, err := h.activities.Search(ctx, searchQuery(user, now, request), vector.SearchOptions{
		TopK:           h.search.TopK,
		ScoreThreshold: h.search.ScoreThreshold,
		IDs:            ids,
	})
	if err != nil {
		return "", fail(KindVectorIndex, MsgRecommendFailed, err)
	}
	if len(hits) == 0 {
		return MsgNoActivityFound, nil
	}

	hitIDs := make([]int64, len(hits))
	for i, hit := range hits {
		hitIDs[i] = hit.ID
	}
	activities, err := dao.GetActivitiesByIDs(ctx, hitIDs)
	if err != nil {
		return "", storeFailed(MsgRecommendFailed, err)
	}
	if len(activities) == 0 {
		return MsgNoActivityFound, nil
	}

	rows := make([]searchRow, len(activities))
	for i, a := range activities {
		rows[i] = searchRow{
			Name:               a.ActivityName,
			Description:        a.ActivityDescription,
			Location:           a.Location,
			City:               a.City,
			NumberParticipants: a.NumberParticipants,
			MaxParticipants:    a.MaxParticipants,
			DateBegin:          a.DateBegin,
			DateFinish:         a.DateFinish,
		}
	}
	return h.format(ctx, rows, "open activities recommended for the user's request, best match first")
}

// searchQuery combines the request with the user's profile for the similarity search.
func searchQuery(user *model.User, now time.Time, request string) string {
	return fmt.Sprintf("User age: %d\nUser interests: %s\nUser message: %s", user.Age(now), user.Interests, request)
}

func (h *Handlers) format(ctx context.Context, rows any, description string) (string, error) {
	text, err := h.formatter.Format(ctx, rows, description)
	if err != nil {
		return "", fail(KindCompletion, MsgFormatFailed, err)
	}
	return text, nil
}
