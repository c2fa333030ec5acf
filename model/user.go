package model

import "time"

type User struct {
	UserID           int64     `gorm:"primaryKey;column:user_id" json:"user_id"`
	Username         string    `gorm:"not null;uniqueIndex;size:64" json:"username"`
	Email            string    `gorm:"not null;uniqueIndex;size:255" json:"email"`
	PhoneNumber      string    `gorm:"size:32" json:"phone_number"`
	Birthday         time.Time `json:"birthday"`
	Interests        string    `gorm:"type:text" json:"interests"`
	City             string    `gorm:"size:128" json:"city"`
	CumulativeRating float64   `gorm:"not null;default:0" json:"cumulative_rating"`
}

func (User) TableName() string {
	return "users"
}

// Age returns the user's age in whole years at now.
func (u User) Age(now time.Time) int {
	if u.Birthday.IsZero() {
		return 0
	}
	age := now.Year() - u.Birthday.Year()
	if now.YearDay() < u.Birthday.YearDay() {
		age--
	}
	return age
}
