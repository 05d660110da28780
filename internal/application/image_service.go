package application

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"imageshare/internal/domain/entity"
	"imageshare/internal/domain/repository"
	"imageshare/internal/storage"
)

var (
	ErrInvalidImageID    = errors.New("invalid image id")
	ErrImageNotFound     = errors.New("image not found")
	ErrEmptyComment      = errors.New("comment text cannot be empty")
	ErrCommentTooLong    = errors.New("comment exceeds the 500 character limit")
	ErrInvalidPagination = errors.New("invalid pagination parameters")
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxCommentLength applies to the raw text before trimming; the
	// emptiness check applies after. The asymmetry is deliberate and
	// pinned by tests.
	MaxCommentLength = 500
)

// ImageService implements upload, listing, like toggle and comments on
// top of the image store. Search indexing is best effort: a down
// Elasticsearch never fails a request.
type ImageService struct {
	Repo    repository.ImageRepository
	Store   storage.Storage
	Logger  *logrus.Logger
	ES      *elasticsearch.Client
	ESIndex string
}

func NewImageService(repo repository.ImageRepository, store storage.Storage, logger *logrus.Logger, es *elasticsearch.Client, esIndex string) *ImageService {
	return &ImageService{Repo: repo, Store: store, Logger: logger, ES: es, ESIndex: esIndex}
}

// UploadInput carries an already MIME-validated file from the multipart
// layer.
type UploadInput struct {
	File         io.Reader
	OriginalName string
	MimeType     string
	SizeBytes    int64
	Description  string
	Tags         string
	UploaderID   string
}

func (s *ImageService) Upload(ctx context.Context, in UploadInput) (*entity.Image, error) {
	filename, err := s.Store.Save(ctx, in.File, filepath.Ext(in.OriginalName), in.MimeType)
	if err != nil {
		return nil, err
	}

	img := &entity.Image{
		Filename:     filename,
		OriginalName: in.OriginalName,
		MimeType:     in.MimeType,
		SizeBytes:    in.SizeBytes,
		UploaderID:   in.UploaderID,
		Description:  strings.TrimSpace(in.Description),
		Tags:         ParseTags(in.Tags),
		Likes:        []string{},
		Comments:     []entity.Comment{},
	}
	if err := s.Repo.Create(ctx, img); err != nil {
		return nil, err
	}

	_ = s.indexImage(ctx, img)
	return img, nil
}

// ParseTags splits a comma-separated tag string, trimming each segment
// and dropping empties. Order is preserved and duplicates are allowed.
func ParseTags(raw string) []string {
	tags := []string{}
	if raw == "" {
		return tags
	}
	for _, t := range strings.Split(raw, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ListResult is the shared pagination envelope.
type ListResult struct {
	Page       int
	Limit      int
	TotalItems int
	TotalPages int
	Data       []entity.Image
}

func (s *ImageService) List(ctx context.Context, f repository.ImageFilter, page, limit int) (*ListResult, error) {
	if page <= 0 || limit <= 0 || limit > MaxLimit {
		return nil, ErrInvalidPagination
	}
	offset := (page - 1) * limit

	images, total, err := s.Repo.List(ctx, f, offset, limit)
	if err != nil {
		return nil, err
	}
	return &ListResult{
		Page:       page,
		Limit:      limit,
		TotalItems: total,
		TotalPages: (total + limit - 1) / limit,
		Data:       images,
	}, nil
}

func (s *ImageService) Get(ctx context.Context, id string) (*entity.Image, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrInvalidImageID
	}
	img, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return img, nil
}

// ToggleLikeResult reports the caller's like state after the toggle.
type ToggleLikeResult struct {
	Liked      bool
	TotalLikes int
}

func (s *ImageService) ToggleLike(ctx context.Context, imageID, userID string) (*ToggleLikeResult, error) {
	if _, err := uuid.Parse(imageID); err != nil {
		return nil, ErrInvalidImageID
	}
	liked, total, err := s.Repo.ToggleLike(ctx, imageID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return &ToggleLikeResult{Liked: liked, TotalLikes: total}, nil
}

func (s *ImageService) AddComment(ctx context.Context, imageID, userID, text string) (*entity.Comment, error) {
	if _, err := uuid.Parse(imageID); err != nil {
		return nil, ErrInvalidImageID
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyComment
	}
	if utf8.RuneCountInString(text) > MaxCommentLength {
		return nil, ErrCommentTooLong
	}

	cm := &entity.Comment{ImageID: imageID, UserID: userID, Text: trimmed}
	if err := s.Repo.AddComment(ctx, cm); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return cm, nil
}

func (s *ImageService) indexImage(ctx context.Context, img *entity.Image) error {
	if s.ES == nil || s.ESIndex == "" {
		return nil
	}
	doc := map[string]any{
		"id":            img.ID,
		"filename":      img.Filename,
		"original_name": img.OriginalName,
		"description":   img.Description,
		"tags":          img.Tags,
		"uploader":      img.UploaderID,
		"created_at":    img.CreatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.ESIndex, DocumentID: img.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("image_id", img.ID).Warn("es index failed")
		}
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("image_id", img.ID).Warn("es index response error")
	}
	return nil
}

// Search performs a multi_match query over description, tags and the
// original file name. Returns empty results when search is not
// configured.
func (s *ImageService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"description^2", "tags", "original_name"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
