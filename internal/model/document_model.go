package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	DocumentStatusPending    = "pending"
	DocumentStatusProcessing = "processing"
	DocumentStatusCompleted  = "completed"
	DocumentStatusFailed     = "failed"
)

type Document struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename         string    `gorm:"type:varchar(255);not null"` // stored name on disk
	OriginalFilename string    `gorm:"type:varchar(255);not null"`
	ContentType      string    `gorm:"type:varchar(100)"`
	FileSize         int64
	PageCount        *int
	Status           string `gorm:"type:varchar(50);default:'pending';index"`
	ErrorMessage     string `gorm:"type:text"`
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`

	Chunks []DocumentChunk `gorm:"foreignKey:DocumentId;constraint:OnDelete:CASCADE"`
}

func (Document) TableName() string {
	return "documents"
}
