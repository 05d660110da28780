package application

import (
	"context"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"imageshare/internal/domain/entity"
	"imageshare/internal/domain/repository"
)

type fakeImageRepo struct {
	images []entity.Image
	nextID int64
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{}
}

func (r *fakeImageRepo) Create(_ context.Context, img *entity.Image) error {
	img.ID = uuid.NewString()
	img.CreatedAt = time.Now()
	img.UpdatedAt = img.CreatedAt
	// prepend: listings are newest first
	r.images = append([]entity.Image{*img}, r.images...)
	return nil
}

func (r *fakeImageRepo) find(id string) *entity.Image {
	for i := range r.images {
		if r.images[i].ID == id {
			return &r.images[i]
		}
	}
	return nil
}

func (r *fakeImageRepo) GetByID(_ context.Context, id string) (*entity.Image, error) {
	img := r.find(id)
	if img == nil {
		return nil, repository.ErrNotFound
	}
	cp := *img
	return &cp, nil
}

func (r *fakeImageRepo) List(_ context.Context, f repository.ImageFilter, offset, limit int) ([]entity.Image, int, error) {
	matched := []entity.Image{}
	for _, img := range r.images {
		if f.UploaderID != "" && img.UploaderID != f.UploaderID {
			continue
		}
		if f.LikedByID != "" {
			liked := false
			for _, id := range img.Likes {
				if id == f.LikedByID {
					liked = true
					break
				}
			}
			if !liked {
				continue
			}
		}
		matched = append(matched, img)
	}
	total := len(matched)
	if offset >= total {
		return []entity.Image{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (r *fakeImageRepo) ToggleLike(_ context.Context, imageID, userID string) (bool, int, error) {
	img := r.find(imageID)
	if img == nil {
		return false, 0, repository.ErrNotFound
	}
	for i, id := range img.Likes {
		if id == userID {
			img.Likes = append(img.Likes[:i], img.Likes[i+1:]...)
			return false, len(img.Likes), nil
		}
	}
	img.Likes = append(img.Likes, userID)
	return true, len(img.Likes), nil
}

func (r *fakeImageRepo) AddComment(_ context.Context, cm *entity.Comment) error {
	img := r.find(cm.ImageID)
	if img == nil {
		return repository.ErrNotFound
	}
	r.nextID++
	cm.ID = r.nextID
	cm.CreatedAt = time.Now()
	img.Comments = append(img.Comments, *cm)
	return nil
}

type fakeStore struct {
	saved int
}

func (s *fakeStore) Save(_ context.Context, r io.Reader, ext, _ string) (string, error) {
	if _, err := io.Copy(io.Discard, r); err != nil {
		return "", err
	}
	s.saved++
	return uuid.NewString() + ext, nil
}

func newImageService(repo repository.ImageRepository) *ImageService {
	return NewImageService(repo, &fakeStore{}, nil, nil, "")
}

func seedImages(t *testing.T, svc *ImageService, n int, uploaderID string) []string {
	t.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		img, err := svc.Upload(context.Background(), UploadInput{
			File:         strings.NewReader("not really a png"),
			OriginalName: "photo.png",
			MimeType:     "image/png",
			SizeBytes:    16,
			UploaderID:   uploaderID,
		})
		require.NoError(t, err)
		ids = append(ids, img.ID)
	}
	return ids
}

func TestUpload_PopulatesImage(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())

	img, err := svc.Upload(context.Background(), UploadInput{
		File:         strings.NewReader("data"),
		OriginalName: "holiday photo.jpeg",
		MimeType:     "image/jpeg",
		SizeBytes:    4,
		Description:  "  beach day  ",
		Tags:         "beach, summer",
		UploaderID:   uuid.NewString(),
	})
	require.NoError(t, err)
	require.NotEmpty(t, img.ID)
	require.True(t, strings.HasSuffix(img.Filename, ".jpeg"), "filename %q keeps the extension", img.Filename)
	require.Equal(t, "beach day", img.Description)
	require.Equal(t, []string{"beach", "summer"}, img.Tags)
	require.Empty(t, img.Likes)
	require.Empty(t, img.Comments)
}

func TestParseTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"a,b,c", []string{"a", "b", "c"}},
		{" a , b ", []string{"a", "b"}},
		{"a,,b,", []string{"a", "b"}},
		{"b,a,b", []string{"b", "a", "b"}}, // order kept, duplicates allowed
		{" , ,", []string{}},
	}
	for _, tc := range cases {
		if got := ParseTags(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestList_Pagination(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())
	seedImages(t, svc, 5, "")

	page1, err := svc.List(context.Background(), repository.ImageFilter{}, 1, 3)
	require.NoError(t, err)
	require.Len(t, page1.Data, 3)
	require.Equal(t, 5, page1.TotalItems)
	require.Equal(t, 2, page1.TotalPages)

	page2, err := svc.List(context.Background(), repository.ImageFilter{}, 2, 3)
	require.NoError(t, err)
	require.Len(t, page2.Data, 2)

	// Past-the-end pages are empty but keep the real totals.
	page3, err := svc.List(context.Background(), repository.ImageFilter{}, 3, 3)
	require.NoError(t, err)
	require.Empty(t, page3.Data)
	require.Equal(t, 5, page3.TotalItems)
	require.Equal(t, 2, page3.TotalPages)
}

func TestList_NewestFirst(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())
	ids := seedImages(t, svc, 3, "")

	res, err := svc.List(context.Background(), repository.ImageFilter{}, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Data, 3)
	require.Equal(t, ids[2], res.Data[0].ID)
	require.Equal(t, ids[0], res.Data[2].ID)
}

func TestList_InvalidPagination(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())

	for _, tc := range []struct{ page, limit int }{
		{0, 10}, {-1, 10}, {1, 0}, {1, -5}, {1, 101},
	} {
		_, err := svc.List(context.Background(), repository.ImageFilter{}, tc.page, tc.limit)
		if !errors.Is(err, ErrInvalidPagination) {
			t.Errorf("page=%d limit=%d: got %v, want ErrInvalidPagination", tc.page, tc.limit, err)
		}
	}

	// The cap itself is fine.
	_, err := svc.List(context.Background(), repository.ImageFilter{}, 1, 100)
	require.NoError(t, err)
}

func TestList_Filters(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())
	alice := uuid.NewString()
	bob := uuid.NewString()
	aliceImgs := seedImages(t, svc, 2, alice)
	seedImages(t, svc, 3, bob)

	mine, err := svc.List(context.Background(), repository.ImageFilter{UploaderID: alice}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 2, mine.TotalItems)

	_, err = svc.ToggleLike(context.Background(), aliceImgs[0], bob)
	require.NoError(t, err)

	liked, err := svc.List(context.Background(), repository.ImageFilter{LikedByID: bob}, 1, 10)
	require.NoError(t, err)
	require.Equal(t, 1, liked.TotalItems)
	require.Equal(t, aliceImgs[0], liked.Data[0].ID)
}

func TestToggleLike_Parity(t *testing.T) {
	t.Parallel()

	repo := newFakeImageRepo()
	svc := newImageService(repo)
	id := seedImages(t, svc, 1, "")[0]
	user := uuid.NewString()

	for i := 1; i <= 5; i++ {
		res, err := svc.ToggleLike(context.Background(), id, user)
		require.NoError(t, err)
		wantLiked := i%2 == 1
		if res.Liked != wantLiked {
			t.Fatalf("toggle %d: liked=%v want %v", i, res.Liked, wantLiked)
		}
		img, err := svc.Get(context.Background(), id)
		require.NoError(t, err)
		// The user appears at most once regardless of toggle count.
		count := 0
		for _, l := range img.Likes {
			if l == user {
				count++
			}
		}
		if wantLiked && count != 1 || !wantLiked && count != 0 {
			t.Fatalf("toggle %d: user appears %d times in likes", i, count)
		}
		require.Equal(t, len(img.Likes), res.TotalLikes)
	}
}

func TestToggleLike_Errors(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())

	_, err := svc.ToggleLike(context.Background(), "not-a-uuid", uuid.NewString())
	require.ErrorIs(t, err, ErrInvalidImageID)

	_, err = svc.ToggleLike(context.Background(), uuid.NewString(), uuid.NewString())
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestAddComment(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())
	id := seedImages(t, svc, 1, "")[0]
	user := uuid.NewString()
	ctx := context.Background()

	cm, err := svc.AddComment(ctx, id, user, "  nice shot  ")
	require.NoError(t, err)
	require.Equal(t, "nice shot", cm.Text)
	require.NotZero(t, cm.ID)

	img, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, img.Comments, 1)
}

func TestAddComment_LengthLimit(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())
	id := seedImages(t, svc, 1, "")[0]
	ctx := context.Background()

	_, err := svc.AddComment(ctx, id, "u", strings.Repeat("x", 500))
	require.NoError(t, err)

	_, err = svc.AddComment(ctx, id, "u", strings.Repeat("x", 501))
	require.ErrorIs(t, err, ErrCommentTooLong)

	// The limit counts the raw text, including whitespace that trimming
	// would remove.
	padded := " " + strings.Repeat("x", 500)
	_, err = svc.AddComment(ctx, id, "u", padded)
	require.ErrorIs(t, err, ErrCommentTooLong)

	// Runes, not bytes.
	_, err = svc.AddComment(ctx, id, "u", strings.Repeat("ü", 500))
	require.NoError(t, err)
}

func TestAddComment_Errors(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())
	id := seedImages(t, svc, 1, "")[0]
	ctx := context.Background()

	_, err := svc.AddComment(ctx, id, "u", "   ")
	require.ErrorIs(t, err, ErrEmptyComment)

	_, err = svc.AddComment(ctx, "nope", "u", "hello")
	require.ErrorIs(t, err, ErrInvalidImageID)

	_, err = svc.AddComment(ctx, uuid.NewString(), "u", "hello")
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestGet_Errors(t *testing.T) {
	t.Parallel()

	svc := newImageService(newFakeImageRepo())

	_, err := svc.Get(context.Background(), "123")
	require.ErrorIs(t, err, ErrInvalidImageID)

	_, err = svc.Get(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrImageNotFound)
}
