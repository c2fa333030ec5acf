package dao

import (
	"bealive-agent-backend/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

func GetUser(ctx context.Context, userID int64) (*model.User, error) {
	var user model.User
	if err := DB.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
