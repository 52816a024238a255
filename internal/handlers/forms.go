package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/services"
)

// imageField is the multipart field carrying an uploaded image
const imageField = "image"

// pageQuery reads ?page= and ?limit=. Bad values fall back to defaults.
func pageQuery(c *gin.Context) repositories.Page {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return repositories.Page{Page: page, Limit: limit}.Normalize()
}

// formUpload opens the image part of a multipart form.
// It returns nil when no file was sent. The closer must be called once the upload is consumed.
func formUpload(c *gin.Context, field string) (*services.Upload, io.Closer, error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("%w: %v", services.ErrValidation, err)
	}

	return openUpload(header)
}

// openImage opens a bound image part. A nil header means no file was sent.
func openImage(header *multipart.FileHeader) (*services.Upload, io.Closer, error) {
	if header == nil {
		return nil, nil, nil
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*services.Upload, io.Closer, error) {
	file, err := header.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	return &services.Upload{Filename: header.Filename, Size: header.Size, Body: file}, file, nil
}

// nonEmpty maps a blank optional value onto nil
func nonEmpty(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	return &trimmed
}

// parseIDList parses a comma separated list of ids such as "1,2,3"
func parseIDList(raw string) ([]uint, error) {
	ids := []uint{}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("%w: categoryIds: %q is not a valid id", services.ErrValidation, part)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}

// parseStatus accepts "published", "true" and "1" as published and "draft", "false", "0" or "" as draft
func parseStatus(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "published", "true", "1":
		return true, nil
	case "draft", "false", "0", "":
		return false, nil
	default:
		return false, fmt.Errorf("%w: status must be published or draft", services.ErrValidation)
	}
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
