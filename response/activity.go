package response

import "time"

type ActivityResponse struct {
	ActivityID      int64     `json:"activity_id"`
	Name            string    `json:"activity_name"`
	Description     string    `json:"activity_description"`
	Location        string    `json:"location"`
	City            string    `json:"city"`
	MaxParticipants int       `json:"max_participants"`
	DateBegin       time.Time `json:"date_begin"`
	DateFinish      time.Time `json:"date_finish"`
	State           string    `json:"activity_state"`
}

// PendingResponse carries the formatted list shown to the user.
type PendingResponse struct {
	Text string `json:"text"`
}
