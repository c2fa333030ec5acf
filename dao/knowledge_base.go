package dao

import (
	"bealive-agent-backend/model"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveCompanyDocument registers objectName, resetting its status when it is ingested again.
func SaveCompanyDocument(ctx context.Context, objectName string, fileType model.FileType) error {
	doc := model.CompanyDocument{
		ObjectName: objectName,
		FileType:   fileType,
		Status:     model.StatusUploaded,
	}
	return DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "object_name"}},
			DoUpdates: clause.AssignmentColumns([]string{"file_type", "status", "updated_at"}),
		}).
		Create(&doc).Error
}

// GetCompanyDocument returns the document registered under objectName, or nil.
func GetCompanyDocument(ctx context.Context, objectName string) (*model.CompanyDocument, error) {
	var doc model.CompanyDocument
	if err := DB.WithContext(ctx).
		Where("object_name = ?", objectName).
		First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &doc, nil
}

func UpdateCompanyDocumentStatus(ctx context.Context, objectName string, status model.Status, chunks int) error {
	return DB.WithContext(ctx).
		Model(&model.CompanyDocument{}).
		Where("object_name = ?", objectName).
		Updates(map[string]any{
			"status": status,
			"chunks": chunks,
		}).Error
}

func GetCompanyDocuments(ctx context.Context) ([]model.CompanyDocument, error) {
	var docs []model.CompanyDocument
	if err := DB.WithContext(ctx).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}
