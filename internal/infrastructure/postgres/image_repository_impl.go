package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"imageshare/internal/domain/entity"
	"imageshare/internal/domain/repository"
)

const foreignKeyViolation = "23503"

type ImageRepository struct {
	pool *pgxpool.Pool
}

func NewImageRepository(pool *pgxpool.Pool) *ImageRepository {
	return &ImageRepository{pool: pool}
}

func (r *ImageRepository) Create(ctx context.Context, img *entity.Image) error {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO images (filename, original_name, mime_type, size_bytes, uploader, description, tags)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6, $7)
		RETURNING id, created_at, updated_at
	`, img.Filename, img.OriginalName, img.MimeType, img.SizeBytes, img.UploaderID, img.Description, img.Tags)

	return row.Scan(&img.ID, &img.CreatedAt, &img.UpdatedAt)
}

const imageColumns = `
	i.id, i.filename, i.original_name, i.mime_type, i.size_bytes,
	COALESCE(i.uploader::text, ''), COALESCE(u.name, ''),
	i.description, i.tags, i.likes::text[], i.created_at, i.updated_at`

func scanImage(row pgx.Row, img *entity.Image, extra ...any) error {
	dest := []any{
		&img.ID, &img.Filename, &img.OriginalName, &img.MimeType, &img.SizeBytes,
		&img.UploaderID, &img.UploaderName,
		&img.Description, &img.Tags, &img.Likes, &img.CreatedAt, &img.UpdatedAt,
	}
	dest = append(dest, extra...)
	return row.Scan(dest...)
}

func (r *ImageRepository) GetByID(ctx context.Context, id string) (*entity.Image, error) {
	img := &entity.Image{}
	row := r.pool.QueryRow(ctx, `
		SELECT `+imageColumns+`
		FROM images i
		LEFT JOIN users u ON u.id = i.uploader
		WHERE i.id = $1::uuid
	`, id)
	if err := scanImage(row, img); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.image_id, c.user_id::text, COALESCE(cu.name, ''), c.body, c.created_at
		FROM image_comments c
		LEFT JOIN users cu ON cu.id = c.user_id
		WHERE c.image_id = $1::uuid
		ORDER BY c.id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	img.Comments = []entity.Comment{}
	for rows.Next() {
		var cm entity.Comment
		if err := rows.Scan(&cm.ID, &cm.ImageID, &cm.UserID, &cm.UserName, &cm.Text, &cm.CreatedAt); err != nil {
			return nil, err
		}
		img.Comments = append(img.Comments, cm)
	}
	return img, rows.Err()
}

// List returns one page plus the total matching count. The count comes
// from a window function over the same query, so page and total observe
// the same snapshot of the filter; when the requested page is past the
// end the count falls back to a dedicated query.
func (r *ImageRepository) List(ctx context.Context, f repository.ImageFilter, offset, limit int) ([]entity.Image, int, error) {
	where, limitClause, args := filterClause(f)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, `
		SELECT `+imageColumns+`, COUNT(*) OVER ()
		FROM images i
		LEFT JOIN users u ON u.id = i.uploader
		`+where+`
		ORDER BY i.created_at DESC, i.id DESC
		`+limitClause, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	images := []entity.Image{}
	total := 0
	for rows.Next() {
		var img entity.Image
		if err := scanImage(rows, &img, &total); err != nil {
			return nil, 0, err
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	if len(images) == 0 {
		countArgs := args[:len(args)-2]
		row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM images i `+where, countArgs...)
		if err := row.Scan(&total); err != nil {
			return nil, 0, err
		}
	}
	return images, total, nil
}

func filterClause(f repository.ImageFilter) (where, limitClause string, args []any) {
	switch {
	case f.UploaderID != "":
		return `WHERE i.uploader = $1::uuid`, `LIMIT $2 OFFSET $3`, []any{f.UploaderID}
	case f.LikedByID != "":
		return `WHERE $1::uuid = ANY(i.likes)`, `LIMIT $2 OFFSET $3`, []any{f.LikedByID}
	default:
		return ``, `LIMIT $1 OFFSET $2`, nil
	}
}

// ToggleLike flips membership in a single conditional UPDATE so two
// racing toggles serialize on the row lock instead of losing one update.
func (r *ImageRepository) ToggleLike(ctx context.Context, imageID, userID string) (bool, int, error) {
	var liked bool
	var total int
	row := r.pool.QueryRow(ctx, `
		UPDATE images
		SET likes = CASE
				WHEN $2::uuid = ANY(likes) THEN array_remove(likes, $2::uuid)
				ELSE array_append(likes, $2::uuid)
			END,
			updated_at = now()
		WHERE id = $1::uuid
		RETURNING $2::uuid = ANY(likes), cardinality(likes)
	`, imageID, userID)
	if err := row.Scan(&liked, &total); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, 0, repository.ErrNotFound
		}
		return false, 0, err
	}
	return liked, total, nil
}

func (r *ImageRepository) AddComment(ctx context.Context, cm *entity.Comment) error {
	row := r.pool.QueryRow(ctx, `
		WITH ins AS (
			INSERT INTO image_comments (image_id, user_id, body)
			VALUES ($1::uuid, $2::uuid, $3)
			RETURNING id, user_id, body, created_at
		)
		SELECT ins.id, COALESCE(u.name, ''), ins.created_at
		FROM ins
		LEFT JOIN users u ON u.id = ins.user_id
	`, cm.ImageID, cm.UserID, cm.Text)
	if err := row.Scan(&cm.ID, &cm.UserName, &cm.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return repository.ErrNotFound
		}
		return err
	}
	return nil
}

var _ repository.ImageRepository = (*ImageRepository)(nil)
