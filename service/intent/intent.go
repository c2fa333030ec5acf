package intent

import "fmt"

// Intent is the category of a user turn. The set is closed; Chitchat is the fallback.
type Intent int

const (
	CompanyInformation Intent = iota
	DeleteActivities
	ActivitySearch
	ReviewUser
	ReviewActivity
	MakeReservation
	AcceptReservation
	RejectReservation
	CheckReservations
	CheckReviews
	CheckNumberReservations
	Chitchat
)

var names = [...]string{
	CompanyInformation:      "company_information",
	DeleteActivities:        "delete_activities",
	ActivitySearch:          "activity_search",
	ReviewUser:              "review_user",
	ReviewActivity:          "review_activity",
	MakeReservation:         "make_reservation",
	AcceptReservation:       "accept_reservation",
	RejectReservation:       "reject_reservation",
	CheckReservations:       "check_reservations",
	CheckReviews:            "check_reviews",
	CheckNumberReservations: "check_number_reservations",
	Chitchat:                "chitchat",
}

// All lists every intent in declaration order.
func All() []Intent {
	all := make([]Intent, len(names))
	for i := range names {
		all[i] = Intent(i)
	}
	return all
}

func (i Intent) String() string {
	if i < 0 || int(i) >= len(names) {
		return fmt.Sprintf("Intent(%d)", int(i))
	}
	return names[i]
}

func (i Intent) Valid() bool {
	return i >= 0 && int(i) < len(names)
}

// Parse maps a label to its Intent.
func Parse(label string) (Intent, bool) {
	for i, name := range names {
		if name == label {
			return Intent(i), true
		}
	}
	return Chitchat, false
}

func (i Intent) MarshalText() ([]byte, error) {
	if !i.Valid() {
		return nil, fmt.Errorf("invalid intent %d", int(i))
	}
	return []byte(i.String()), nil
}

func (i *Intent) UnmarshalText(text []byte) error {
	parsed, ok := Parse(string(text))
	if !ok {
		return fmt.Errorf("unknown intent %q", text)
	}
	*i = parsed
	return nil
}
