package model

import (
	"fmt"
	"time"
)

type ActivityState string

const (
	ActivityOpen     ActivityState = "open"
	ActivityFull     ActivityState = "full"
	ActivityFinished ActivityState = "finished"

	MaxDescriptionLength = 400
)

// Activity has a composite index on (city, activity_state)
type Activity struct {
	ActivityID          int64         `gorm:"primaryKey;column:activity_id" json:"activity_id"`
	HostID              int64         `gorm:"not null;index" json:"host_id"`
	ActivityName        string        `gorm:"not null;size:255" json:"activity_name"`
	ActivityDescription string        `gorm:"size:400" json:"activity_description"`
	Location            string        `gorm:"size:255" json:"location"`
	City                string        `gorm:"size:128;index:idx_city_state" json:"city"`
	MaxParticipants     int           `gorm:"not null" json:"max_participants"`
	NumberParticipants  int           `gorm:"not null;default:0" json:"number_participants"`
	DateBegin           time.Time     `gorm:"not null" json:"date_begin"`
	DateFinish          time.Time     `gorm:"not null" json:"date_finish"`
	ActivityState       ActivityState `gorm:"not null;size:16;default:open;index:idx_city_state" json:"activity_state"`
	CumulativeRating    float64       `gorm:"not null;default:0" json:"cumulative_rating"`

	// reference into the similarity index, cleared once finished
	VectorID *string `gorm:"size:64" json:"vector_id,omitempty"`
}

func (Activity) TableName() string {
	return "activities"
}

// IndexText is the document embedded into the activity similarity index.
func (a Activity) IndexText() string {
	return fmt.Sprintf("%s. %s Location: %s, %s. From %s to %s.",
		a.ActivityName,
		a.ActivityDescription,
		a.Location,
		a.City,
		a.DateBegin.Format(time.DateTime),
		a.DateFinish.Format(time.DateTime),
	)
}

// VectorKey is the key under which the activity is stored in the similarity index.
func (a Activity) VectorKey() string {
	return fmt.Sprintf("%d", a.ActivityID)
}
