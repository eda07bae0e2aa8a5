package models

import "time"

type AttachmentKind string

const (
	PHOTO AttachmentKind = "photo"
	VIDEO AttachmentKind = "video"
)

// Attachment references a media file kept by the front-end. Only the
// reference is stored here.
type Attachment struct {
	ID        uint           `json:"id"         gorm:"primaryKey"`
	UnitID    uint           `json:"unit_id"    gorm:"index;not null"`
	Kind      AttachmentKind `json:"kind"       gorm:"not null"`
	FileID    string         `json:"file_id"    gorm:"not null"`
	CreatedAt time.Time      `json:"created_at"`
}
