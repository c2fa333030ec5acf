package model

import (
	"path"
	"strings"
	"time"
)

type FileType string

const (
	FileTypePDF      FileType = "pdf"
	FileTypeMarkdown FileType = "md"
	FileTypeText     FileType = "txt"
)

type Status string

const (
	StatusUploaded        Status = "UPLOADED"
	StatusProcessed       Status = "PROCESSED"
	StatusProcessedFailed Status = "PROCESSED_FAILED"
)

// CompanyDocument tracks a company-information source indexed for retrieval.
type CompanyDocument struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
	FileType  FileType  `gorm:"not null;size:8" json:"file_type"`

	// OSS key without the bucket, or a local path for CLI ingestion
	ObjectName string `gorm:"not null;uniqueIndex;size:512" json:"object_name"`

	Chunks int    `gorm:"not null;default:0" json:"chunks"`
	Status Status `gorm:"not null;size:32;default:UPLOADED" json:"status"`
}

func (CompanyDocument) TableName() string {
	return "company_document"
}

// FileTypeOf infers the file type from an object name extension.
func FileTypeOf(objectName string) (FileType, bool) {
	switch ft := FileType(strings.ToLower(strings.TrimPrefix(path.Ext(objectName), "."))); ft {
	case FileTypePDF, FileTypeMarkdown, FileTypeText:
		return ft, true
	}
	return "", false
}
