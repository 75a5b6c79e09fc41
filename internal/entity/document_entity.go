package entity

import (
	"time"

	"github.com/google/uuid"
)

type Document struct {
	Id               uuid.UUID
	Filename         string
	OriginalFilename string
	ContentType      string
	FileSize         int64
	PageCount        *int
	Status           string
	ErrorMessage     string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
