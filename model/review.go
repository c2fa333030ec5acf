package model

import "time"

type ActivityReview struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	ActivityID int64     `gorm:"not null;uniqueIndex:idx_review_activity_user" json:"activity_id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_review_activity_user" json:"user_id"`
	Review     string    `gorm:"type:text" json:"review"`
	Rating     int       `gorm:"not null" json:"rating"`
}

func (ActivityReview) TableName() string {
	return "review_activity"
}

type UserReview struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	HostID     int64     `gorm:"not null;index" json:"host_id"`
	ActivityID int64     `gorm:"not null;uniqueIndex:idx_review_user_activity" json:"activity_id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_review_user_activity" json:"user_id"`
	Review     string    `gorm:"type:text" json:"review"`
	Rating     int       `gorm:"not null" json:"rating"`
}

func (UserReview) TableName() string {
	return "review_user"
}
