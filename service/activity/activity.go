// Package activity manages the lifecycle of activities outside of a conversation turn:
// publishing them from a host's form, keeping the similarity index in step and finishing
// them once they are over.
package activity

import (
	"bealive-agent-backend/dao"
	"bealive-agent-backend/model"
	"bealive-agent-backend/service/extract"
	"bealive-agent-backend/service/formatter"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"text/template"
	"time"
	"unicode/utf8"
)

const formDateLayout = "2006-01-02 15:04"

var (
	ErrInvalidCapacity    = errors.New("the maximum number of participants must be positive")
	ErrInvalidSchedule    = errors.New("the activity must finish after it begins")
	ErrInPast             = errors.New("the activity must take place in the future")
	ErrDescriptionTooLong = fmt.Errorf("the description must be at most %d characters", model.MaxDescriptionLength)
)

//go:embed prompts/form.txt
var formPrompt string

var formTemplate = template.Must(template.New("form").Parse(formPrompt))

type activityForm struct {
	Name            string `json:"activity_name" validate:"required"`
	Description     string `json:"activity_description" validate:"required"`
	Location        string `json:"location" validate:"required"`
	City            string `json:"city" validate:"required"`
	MaxParticipants int    `json:"max_participants"`
	DateBegin       string `json:"date_begin" validate:"required,datetime=2006-01-02 15:04"`
	DateFinish      string `json:"date_finish" validate:"required,datetime=2006-01-02 15:04"`
}

// Indexer keeps the activity similarity index in step with the activities table.
type Indexer interface {
	Index(ctx context.Context, activity *model.Activity) error
	Unindex(ctx context.Context, ids ...int64) error
}

type Service struct {
	extractor *extract.Extractor
	formatter *formatter.Formatter
	indexer   Indexer
	now       func() time.Time
}

func NewService(extractor *extract.Extractor, indexer Indexer, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		extractor: extractor,
		formatter: formatter.New(extractor.Model()),
		indexer:   indexer,
		now:       now,
	}
}

// CreateActivity publishes the activity described by formText. The activity is stored even
// when indexing fails; the next sweep indexes it.
func (s *Service) CreateActivity(ctx context.Context, hostID int64, formText string) (*model.Activity, error) {
	now := s.now()

	var buf bytes.Buffer
	if err := formTemplate.Execute(&buf, struct{ Now string }{Now: now.Format(formDateLayout)}); err != nil {
		return nil, fmt.Errorf("failed to execute template: %w", err)
	}
	form, err := extract.Extract[activityForm](ctx, s.extractor, extract.Task{
		Name:         "activity_form",
		Instructions: buf.String(),
		Input:        formText,
	})
	if err != nil {
		return nil, err
	}

	activity, err := form.activity(hostID, now)
	if err != nil {
		return nil, err
	}
	if err := dao.CreateActivity(ctx, activity); err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	if err := s.indexer.Index(ctx, activity); err != nil {
		slog.Warn("failed to index activity",
			"activity_id", activity.ActivityID,
			"err", err,
		)
	}
	return activity, nil
}

func (f activityForm) activity(hostID int64, now time.Time) (*model.Activity, error) {
	if f.MaxParticipants <= 0 {
		return nil, ErrInvalidCapacity
	}
	description := strings.TrimSpace(f.Description)
	if utf8.RuneCountInString(description) > model.MaxDescriptionLength {
		return nil, ErrDescriptionTooLong
	}

	begin, err := time.ParseInLocation(formDateLayout, f.DateBegin, now.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid date_begin %q: %w", f.DateBegin, err)
	}
	finish, err := time.ParseInLocation(formDateLayout, f.DateFinish, now.Location())
	if err != nil {
		return nil, fmt.Errorf("invalid date_finish %q: %w", f.DateFinish, err)
	}
	if finish.Before(begin) {
		return nil, ErrInvalidSchedule
	}
	if !begin.After(now) {
		return nil, ErrInPast
	}

	return &model.Activity{
		HostID:              hostID,
		ActivityName:        strings.TrimSpace(f.Name),
		ActivityDescription: description,
		Location:            strings.TrimSpace(f.Location),
		City:                strings.TrimSpace(f.City),
		MaxParticipants:     f.MaxParticipants,
		DateBegin:           begin,
		DateFinish:          finish,
		ActivityState:       model.ActivityOpen,
	}, nil
}
