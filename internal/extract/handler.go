package extract

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"resumatch-backend/internal/shared/server/respond"
)

const maxUploadBytes = 10 << 20

// Handler exposes the resume-file-to-text endpoint.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches extract routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/extract", h.extractText)
}

func (h *Handler) extractText(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	if fileHeader.Size > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds 10 MB", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "failed to read file", nil)
		return
	}
	if len(data) > maxUploadBytes {
		respond.Error(c, http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds 10 MB", nil)
		return
	}

	text, err := Text(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), fileHeader.Filename)
	if err != nil {
		if errors.Is(err, ErrUnsupportedType) {
			respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only PDF, DOCX and plain text files are supported", nil)
			return
		}
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "failed to extract text from file", nil)
		return
	}

	respond.JSON(c, http.StatusOK, gin.H{"text": text})
}
