package dao

import (
	"bealive-agent-backend/model"
	"context"

	"gorm.io/gorm"
)

func CreateSession(ctx context.Context, session *model.Session) error {
	return DB.WithContext(ctx).Create(session).Error
}

func GetSessionsByUserID(ctx context.Context, userID int64) ([]model.Session, error) {
	var sessions []model.Session
	if err := DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

// SessionExists reports whether sessionID belongs to userID.
func SessionExists(ctx context.Context, userID int64, sessionID string) (bool, error) {
	var count int64
	if err := DB.WithContext(ctx).
		Model(&model.Session{}).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// DeleteSession removes the session and its logged messages.
func DeleteSession(ctx context.Context, userID int64, sessionID string) error {
	return DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("user_id = ? AND session_id = ?", userID, sessionID).
			Delete(&model.Session{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		return tx.Where("session_id = ?", sessionID).
			Delete(&model.Message{}).Error
	})
}

func GetMessagesBySessionID(ctx context.Context, userID int64, sessionID string) ([]model.Message, error) {
	var messages []model.Message
	if err := DB.WithContext(ctx).
		Where("session_id = ? AND user_id = ?", sessionID, userID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func UpdateSessionTitle(ctx context.Context, userID int64, sessionID, title string) error {
	return DB.WithContext(ctx).
		Model(&model.Session{}).
		Where("user_id = ? AND session_id = ?", userID, sessionID).
		Update("title", title).Error
}
