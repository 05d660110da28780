package repository

import (
	"context"

	"imageshare/internal/domain/entity"
)

// ImageFilter narrows a listing to one of the three query variants.
// Zero value means "all images".
type ImageFilter struct {
	UploaderID string // images owned by this user
	LikedByID  string // images whose likes contain this user
}

// ImageRepository defines image persistence. ToggleLike and AddComment
// must be atomic at the store so concurrent mutations of one image
// cannot lose updates or duplicate a user in the like list. List returns
// the page and the total count observed from the same query.
type ImageRepository interface {
	Create(ctx context.Context, img *entity.Image) error
	// GetByID resolves the uploader name and comment author names.
	GetByID(ctx context.Context, id string) (*entity.Image, error)
	List(ctx context.Context, f ImageFilter, offset, limit int) ([]entity.Image, int, error)
	// ToggleLike flips the caller's membership in the like list and
	// reports the new state and resulting like count.
	ToggleLike(ctx context.Context, imageID, userID string) (liked bool, total int, err error)
	// AddComment appends a comment and fills in its ID, author name and
	// creation time.
	AddComment(ctx context.Context, cm *entity.Comment) error
}
