package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quillpress/api-backend/internal/repositories"
)

// DefaultMaxUploadBytes caps image uploads when no limit is configured
const DefaultMaxUploadBytes = 5 << 20

// ObjectStore persists uploaded objects under a key
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// MediaConfig holds media upload parameters
type MediaConfig struct {
	// PublicBaseURL prefixes bucket and key to form the public URL
	PublicBaseURL  string
	Folder         string
	MaxUploadBytes int64
}

// Upload is an image received from a client
type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

// MediaLibraryPage is one page of blog images
type MediaLibraryPage struct {
	Blogs       []repositories.BlogImage `json:"blogs"`
	TotalPages  int                      `json:"totalPages"`
	CurrentPage int                      `json:"currentPage"`
}

// MediaService uploads images to the object store and lists the media library
type MediaService struct {
	store  ObjectStore
	blogs  *repositories.BlogRepository
	config MediaConfig
	log    *zap.Logger
}

// NewMediaService creates a new media service instance
func NewMediaService(store ObjectStore, blogs *repositories.BlogRepository, config MediaConfig, log *zap.Logger) (*MediaService, error) {
	if store == nil {
		return nil, fmt.Errorf("object store is required")
	}
	if blogs == nil {
		return nil, fmt.Errorf("blog repository is required")
	}
	if config.PublicBaseURL == "" {
		return nil, fmt.Errorf("public base URL is required")
	}
	if config.Folder == "" {
		config.Folder = "blog-images"
	}
	if config.MaxUploadBytes <= 0 {
		config.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if log == nil {
		log = zap.NewNop()
	}

	config.PublicBaseURL = strings.TrimRight(config.PublicBaseURL, "/")
	config.Folder = strings.Trim(config.Folder, "/")

	return &MediaService{store: store, blogs: blogs, config: config, log: log}, nil
}

// UploadImage validates an image and stores it under a fresh key. Returns the public URL.
func (s *MediaService) UploadImage(ctx context.Context, upload Upload) (string, error) {
	if upload.Body == nil || upload.Size <= 0 {
		return "", validationFailed(fmt.Errorf("image: file is empty"))
	}
	if upload.Size > s.config.MaxUploadBytes {
		return "", validationFailed(fmt.Errorf("image: file exceeds %d bytes", s.config.MaxUploadBytes))
	}

	// Sniff the head of the file instead of trusting the client header alone
	head := make([]byte, 512)
	n, err := io.ReadFull(upload.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if !strings.HasPrefix(contentType, "image/") {
		return "", validationFailed(fmt.Errorf("image: unsupported content type %q", contentType))
	}

	key := s.objectKey(upload.Filename, contentType)
	body := io.MultiReader(bytes.NewReader(head), upload.Body)
	if err := s.store.Upload(ctx, key, body, upload.Size, contentType); err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	url := s.PublicURL(key)
	s.log.Info("image uploaded", zap.String("key", key), zap.Int64("size", upload.Size))
	return url, nil
}

// DeleteByURL removes the object behind a public URL. URLs outside the bucket are ignored.
func (s *MediaService) DeleteByURL(ctx context.Context, url string) error {
	key, ok := s.keyFromURL(url)
	if !ok {
		s.log.Debug("skipping delete of foreign image url", zap.String("url", url))
		return nil
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}

	s.log.Info("image deleted", zap.String("key", key))
	return nil
}

// PublicURL returns the public URL of key
func (s *MediaService) PublicURL(key string) string {
	return s.config.PublicBaseURL + "/" + s.store.Bucket() + "/" + key
}

// Library returns one page of blogs that carry an image
func (s *MediaService) Library(ctx context.Context, page repositories.Page) (*MediaLibraryPage, error) {
	page = page.Normalize()

	var (
		images []repositories.BlogImage
		total  int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		images, err = s.blogs.ImagePage(gctx, page)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.blogs.CountWithImages(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &MediaLibraryPage{
		Blogs:       images,
		TotalPages:  totalPages(total, page.Limit),
		CurrentPage: page.Page,
	}, nil
}

func (s *MediaService) objectKey(filename, contentType string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
			ext = exts[0]
		}
	}
	return path.Join(s.config.Folder, uuid.NewString()+ext)
}

func (s *MediaService) keyFromURL(url string) (string, bool) {
	prefix := s.config.PublicBaseURL + "/" + s.store.Bucket() + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(url, prefix)
	if key == "" || strings.Contains(key, "..") {
		return "", false
	}
	return key, true
}

func totalPages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
