package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"imageshare/internal/application"
	"imageshare/internal/domain/entity"
	"imageshare/internal/domain/repository"
	"imageshare/internal/interface/middleware"
	"imageshare/pkg/response"
	"imageshare/pkg/validation"
)

// MaxUploadBytes caps uploaded files at 5 MiB.
const MaxUploadBytes = 5 << 20

// StaticURLPrefix is where locally stored uploads are served from.
const StaticURLPrefix = "/uploads/"

type ImageHandler struct {
	Svc    *application.ImageService
	Logger *logrus.Logger
}

func NewImageHandler(svc *application.ImageService, logger *logrus.Logger) *ImageHandler {
	return &ImageHandler{Svc: svc, Logger: logger}
}

type userRef struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
}

type commentJSON struct {
	ID        int64     `json:"id"`
	User      *userRef  `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

type imageJSON struct {
	ID           string        `json:"id"`
	Filename     string        `json:"filename"`
	OriginalName string        `json:"originalname"`
	MimeType     string        `json:"mimetype"`
	Size         int64         `json:"size"`
	URL          string        `json:"url"`
	Uploader     *userRef      `json:"uploader"`
	Description  string        `json:"description"`
	Tags         []string      `json:"tags"`
	Likes        []string      `json:"likes"`
	TotalLikes   int           `json:"totalLikes"`
	Comments     []commentJSON `json:"comments,omitempty"`
	CreatedAt    time.Time     `json:"createdAt"`
}

func toCommentJSON(cm entity.Comment) commentJSON {
	return commentJSON{
		ID:        cm.ID,
		User:      &userRef{ID: cm.UserID, Name: cm.UserName},
		Text:      cm.Text,
		CreatedAt: cm.CreatedAt,
	}
}

func toImageJSON(img *entity.Image, withComments bool) imageJSON {
	out := imageJSON{
		ID:           img.ID,
		Filename:     img.Filename,
		OriginalName: img.OriginalName,
		MimeType:     img.MimeType,
		Size:         img.SizeBytes,
		URL:          StaticURLPrefix + img.Filename,
		Description:  img.Description,
		Tags:         img.Tags,
		Likes:        img.Likes,
		TotalLikes:   len(img.Likes),
		CreatedAt:    img.CreatedAt,
	}
	if img.UploaderID != "" {
		out.Uploader = &userRef{ID: img.UploaderID, Name: img.UploaderName}
	}
	if withComments {
		out.Comments = make([]commentJSON, 0, len(img.Comments))
		for _, cm := range img.Comments {
			out.Comments = append(out.Comments, toCommentJSON(cm))
		}
	}
	return out
}

// Upload POST /api/upload (multipart: image, description?, tags?)
func (h *ImageHandler) Upload(c *gin.Context) {
	uploaderID := c.GetString(middleware.CtxUserIDKey)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "no valid image file was provided")
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > MaxUploadBytes {
		response.Error(c, http.StatusBadRequest, "image exceeds the 5 MiB size limit")
		return
	}

	// Sniff the real content type from the first bytes rather than
	// trusting the client's header.
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		h.Logger.WithError(err).Error("reading upload failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}
	head = head[:n]
	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		response.Error(c, http.StatusBadRequest, "only image files are allowed")
		return
	}

	img, err := h.Svc.Upload(c.Request.Context(), application.UploadInput{
		File:         io.MultiReader(strings.NewReader(string(head)), file),
		OriginalName: header.Filename,
		MimeType:     contentType,
		SizeBytes:    header.Size,
		Description:  c.PostForm("description"),
		Tags:         c.PostForm("tags"),
		UploaderID:   uploaderID,
	})
	if err != nil {
		h.Logger.WithError(err).Error("upload failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "upload successful", "image": toImageJSON(img, false)})
}

// List GET /api/images
func (h *ImageHandler) List(c *gin.Context) {
	h.listWithFilter(c, repository.ImageFilter{})
}

// MyImages GET /api/user/my-images
func (h *ImageHandler) MyImages(c *gin.Context) {
	h.listWithFilter(c, repository.ImageFilter{UploaderID: c.GetString(middleware.CtxUserIDKey)})
}

// LikedImages GET /api/user/liked-images
func (h *ImageHandler) LikedImages(c *gin.Context) {
	h.listWithFilter(c, repository.ImageFilter{LikedByID: c.GetString(middleware.CtxUserIDKey)})
}

func (h *ImageHandler) listWithFilter(c *gin.Context, f repository.ImageFilter) {
	page := intQuery(c, "page", application.DefaultPage)
	limit := intQuery(c, "limit", application.DefaultLimit)

	res, err := h.Svc.List(c.Request.Context(), f, page, limit)
	if err != nil {
		if errors.Is(err, application.ErrInvalidPagination) {
			response.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.WithError(err).Error("listing images failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}

	data := make([]imageJSON, 0, len(res.Data))
	for i := range res.Data {
		data = append(data, toImageJSON(&res.Data[i], false))
	}
	c.JSON(http.StatusOK, response.Paginated[imageJSON]{
		Page:       res.Page,
		Limit:      res.Limit,
		TotalItems: res.TotalItems,
		TotalPages: res.TotalPages,
		Data:       data,
	})
}

// GetByID GET /api/images/:id
func (h *ImageHandler) GetByID(c *gin.Context) {
	img, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.imageError(c, err, "fetching image failed")
		return
	}
	c.JSON(http.StatusOK, toImageJSON(img, true))
}

// ToggleLike POST /api/images/:id/like
func (h *ImageHandler) ToggleLike(c *gin.Context) {
	res, err := h.Svc.ToggleLike(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey))
	if err != nil {
		h.imageError(c, err, "toggling like failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"liked": res.Liked, "totalLikes": res.TotalLikes})
}

type commentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment POST /api/images/:id/comment
func (h *ImageHandler) AddComment(c *gin.Context) {
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		if h.Logger != nil {
			h.Logger.WithField("details", validation.ToDetails(err)).Debug("comment payload rejected")
		}
		response.Error(c, http.StatusBadRequest, "comment text cannot be empty")
		return
	}

	cm, err := h.Svc.AddComment(c.Request.Context(), c.Param("id"), c.GetString(middleware.CtxUserIDKey), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrEmptyComment), errors.Is(err, application.ErrCommentTooLong):
			response.Error(c, http.StatusBadRequest, err.Error())
		default:
			h.imageError(c, err, "adding comment failed")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "comment added", "comment": toCommentJSON(*cm)})
}

// Search GET /api/images/search?q=&size=
func (h *ImageHandler) Search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		response.Error(c, http.StatusBadRequest, "query parameter q is required")
		return
	}
	size := intQuery(c, "size", 10)

	results, err := h.Svc.Search(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Error("image search failed")
		response.Error(c, http.StatusInternalServerError, "internal server error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": results})
}

func (h *ImageHandler) imageError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, application.ErrInvalidImageID):
		response.Error(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, application.ErrImageNotFound):
		response.Error(c, http.StatusNotFound, err.Error())
	default:
		h.Logger.WithError(err).Error(logMsg)
		response.Error(c, http.StatusInternalServerError, "internal server error")
	}
}

func intQuery(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
