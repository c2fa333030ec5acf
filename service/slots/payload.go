package slots

import (
	"bealive-agent-backend/service/intent"
	"fmt"
	"strings"
)

// Payload is the intent-tagged result of slot extraction. Fields are nil when unknown.
type Payload interface {
	Intent() intent.Intent

	// Describe restates the known fields as text for the narrow per-field extractions.
	Describe() string

	isPayload()
}

type CompanyInformation struct {
	Question *string `json:"question" jsonschema:"nullable"`
}

type DeleteActivities struct {
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
}

type ActivitySearch struct {
	Request        *string `json:"request" jsonschema:"nullable"`
	City           *string `json:"city" jsonschema:"nullable"`
	DateRangeStart *string `json:"date_range_start" jsonschema:"nullable"`
	DateRangeEnd   *string `json:"date_range_end" jsonschema:"nullable"`
}

type ReviewUser struct {
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
	Username     *string `json:"username" jsonschema:"nullable"`
	Review       *string `json:"review" jsonschema:"nullable"`
	Rating       *string `json:"rating" jsonschema:"nullable"`
}

type ReviewActivity struct {
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
	Review       *string `json:"review" jsonschema:"nullable"`
	Rating       *string `json:"rating" jsonschema:"nullable"`
}

type MakeReservation struct {
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
	Message      *string `json:"message" jsonschema:"nullable"`
}

// ReservationDecision carries the slots shared by accept and reject.
type ReservationDecision struct {
	Username     *string `json:"username" jsonschema:"nullable"`
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
}

type AcceptReservation struct {
	ReservationDecision
}

type RejectReservation struct {
	ReservationDecision
}

type CheckReservations struct {
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
}

type CheckReviews struct {
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
}

type CheckNumberReservations struct {
	ActivityName *string `json:"activity_name" jsonschema:"nullable"`
}

type Chitchat struct {
	Statement *string `json:"statement" jsonschema:"nullable"`
}

func (*CompanyInformation) Intent() intent.Intent      { return intent.CompanyInformation }
func (*DeleteActivities) Intent() intent.Intent        { return intent.DeleteActivities }
func (*ActivitySearch) Intent() intent.Intent          { return intent.ActivitySearch }
func (*ReviewUser) Intent() intent.Intent              { return intent.ReviewUser }
func (*ReviewActivity) Intent() intent.Intent          { return intent.ReviewActivity }
func (*MakeReservation) Intent() intent.Intent         { return intent.MakeReservation }
func (*AcceptReservation) Intent() intent.Intent       { return intent.AcceptReservation }
func (*RejectReservation) Intent() intent.Intent       { return intent.RejectReservation }
func (*CheckReservations) Intent() intent.Intent       { return intent.CheckReservations }
func (*CheckReviews) Intent() intent.Intent            { return intent.CheckReviews }
func (*CheckNumberReservations) Intent() intent.Intent { return intent.CheckNumberReservations }
func (*Chitchat) Intent() intent.Intent                { return intent.Chitchat }

func (*CompanyInformation) isPayload()      {}
func (*DeleteActivities) isPayload()        {}
func (*ActivitySearch) isPayload()          {}
func (*ReviewUser) isPayload()              {}
func (*ReviewActivity) isPayload()          {}
func (*MakeReservation) isPayload()         {}
func (*AcceptReservation) isPayload()       {}
func (*RejectReservation) isPayload()       {}
func (*CheckReservations) isPayload()       {}
func (*CheckReviews) isPayload()            {}
func (*CheckNumberReservations) isPayload() {}
func (*Chitchat) isPayload()                {}

func (p *CompanyInformation) Describe() string {
	return describe(p.Intent(), field{"Question", p.Question})
}

func (p *DeleteActivities) Describe() string {
	return describe(p.Intent(), field{"Activity name", p.ActivityName})
}

func (p *ActivitySearch) Describe() string {
	return describe(p.Intent(),
		field{"Request", p.Request},
		field{"City", p.City},
		field{"Date range start", p.DateRangeStart},
		field{"Date range end", p.DateRangeEnd},
	)
}

func (p *ReviewUser) Describe() string {
	return describe(p.Intent(),
		field{"Review", p.Review},
		field{"Username", p.Username},
		field{"Rating", p.Rating},
		field{"Activity name", p.ActivityName},
	)
}

func (p *ReviewActivity) Describe() string {
	return describe(p.Intent(),
		field{"Review", p.Review},
		field{"Activity name", p.ActivityName},
		field{"Rating", p.Rating},
	)
}

func (p *MakeReservation) Describe() string {
	return describe(p.Intent(), field{"Activity name", p.ActivityName}, field{"Message", p.Message})
}

func (p *AcceptReservation) Describe() string {
	return describe(p.Intent(), field{"Username", p.Username}, field{"Activity name", p.ActivityName})
}

func (p *RejectReservation) Describe() string {
	return describe(p.Intent(), field{"Username", p.Username}, field{"Activity name", p.ActivityName})
}

func (p *CheckReservations) Describe() string {
	return describe(p.Intent(), field{"Activity name", p.ActivityName})
}

func (p *CheckReviews) Describe() string {
	return describe(p.Intent(), field{"Activity name", p.ActivityName})
}

func (p *CheckNumberReservations) Describe() string {
	return describe(p.Intent(), field{"Activity name", p.ActivityName})
}

func (p *Chitchat) Describe() string {
	return describe(p.Intent(), field{"Statement", p.Statement})
}

const unknown = "unknown"

type field struct {
	label string
	value *string
}

func describe(in intent.Intent, fields ...field) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Intention: %s", in)
	for _, f := range fields {
		v := unknown
		if Known(f.value) {
			v = Value(f.value)
		}
		fmt.Fprintf(&sb, "\n%s: %s", f.label, v)
	}
	return sb.String()
}

// Known reports whether a slot holds a non-blank value.
func Known(v *string) bool {
	return v != nil && strings.TrimSpace(*v) != "" && !strings.EqualFold(strings.TrimSpace(*v), "none")
}

// Value returns the slot's trimmed value, or "" when unknown.
func Value(v *string) string {
	if !Known(v) {
		return ""
	}
	return strings.TrimSpace(*v)
}
