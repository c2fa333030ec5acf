package model

import "time"

type ReservationState string

const (
	ReservationPending   ReservationState = "pending"
	ReservationConfirmed ReservationState = "confirmed"
)

// Reservation is keyed by (activity_id, user_id): one reservation per user per activity.
type Reservation struct {
	ActivityID int64            `gorm:"primaryKey;autoIncrement:false" json:"activity_id"`
	UserID     int64            `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	HostID     int64            `gorm:"not null;index" json:"host_id"`
	Message    string           `gorm:"type:text" json:"message"`
	State      ReservationState `gorm:"not null;size:16;default:pending" json:"state"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}
