package entity

import (
	"time"
)

// Image is a shared picture plus its social state. Likes is an ordered
// list of user IDs with at most one occurrence per user; Comments are
// loaded only when a single image is fetched.
type Image struct {
	ID           string
	Filename     string // stored name on disk / object storage
	OriginalName string
	MimeType     string
	SizeBytes    int64
	UploaderID   string // empty when the uploader account is gone
	UploaderName string // resolved on reads, not persisted on the image
	Description  string
	Tags         []string
	Likes        []string
	Comments     []Comment
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Comment lives under its parent image and is immutable once created.
type Comment struct {
	ID        int64
	ImageID   string
	UserID    string
	UserName  string // resolved on reads
	Text      string
	CreatedAt time.Time
}
