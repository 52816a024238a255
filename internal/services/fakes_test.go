package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/testutil"
)

const (
	testMobile = "9999999999"
	testSecret = "0123456789abcdef0123456789abcdef"
)

type sentSMS struct {
	Mobile  string
	Message string
}

type fakeSMS struct {
	mu   sync.Mutex
	sent []sentSMS
	err  error
}

func (f *fakeSMS) SendSMS(_ context.Context, mobile, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{Mobile: mobile, Message: message})
	return nil
}

func (f *fakeSMS) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

func (f *fakeSMS) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// codeSequence hands out the given codes in order
func codeSequence(codes ...string) func(int) (string, error) {
	var mu sync.Mutex
	return func(int) (string, error) {
		mu.Lock()
		defer mu.Unlock()
		if len(codes) == 0 {
			return "", fmt.Errorf("no codes left")
		}
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []*models.AdminUser
	err      error
}

func (f *fakeNotifier) NotifyStatusChange(_ context.Context, admin *models.AdminUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, admin)
	return f.err
}

type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	deleted []string
	err     error
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeObjectStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) error {
	if f.err != nil {
		return f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

func (f *fakeObjectStore) Bucket() string { return "blog-media" }

// pngBytes is the smallest prefix http.DetectContentType reports as image/png
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01")

func pngUpload(name string) *Upload {
	return &Upload{Filename: name, Size: int64(len(pngBytes)), Body: bytes.NewReader(pngBytes)}
}

// authFixture wires the sign-in services over an in-memory database
type authFixture struct {
	db       *gorm.DB
	admins   *repositories.AdminRepository
	otps     *repositories.OTPRepository
	sms      *fakeSMS
	otp      *OTPService
	sessions *SessionService
}

func newAuthFixture(t *testing.T, cooldown time.Duration, codes ...string) *authFixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	admins := repositories.NewAdminRepository(db)
	otps := repositories.NewOTPRepository(db)
	sms := &fakeSMS{}

	otp, err := NewOTPService(otps, admins, sms, OTPConfig{Length: 6, TTL: 5 * time.Minute, ResendCooldown: cooldown}, log)
	require.NoError(t, err)
	otp.generateCode = codeSequence(codes...)

	creds, err := NewCredentialStore(admins, log)
	require.NoError(t, err)

	sessions, err := NewSessionService(creds, otp, SessionConfig{Secret: testSecret}, log)
	require.NoError(t, err)

	return &authFixture{db: db, admins: admins, otps: otps, sms: sms, otp: otp, sessions: sessions}
}

// contentFixture wires the content services over an in-memory database
type contentFixture struct {
	db         *gorm.DB
	store      *fakeObjectStore
	media      *MediaService
	blogs      *BlogService
	categories *CategoryService
	author     *models.AdminUser
}

func newContentFixture(t *testing.T) *contentFixture {
	t.Helper()

	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)
	blogRepo := repositories.NewBlogRepository(db)
	store := newFakeObjectStore()

	media, err := NewMediaService(store, blogRepo, MediaConfig{PublicBaseURL: "http://cdn.test/", Folder: "blog-images", MaxUploadBytes: 1024}, log)
	require.NoError(t, err)

	blogs, err := NewBlogService(blogRepo, media, log)
	require.NoError(t, err)

	categories, err := NewCategoryService(repositories.NewCategoryRepository(db), blogs, media, log)
	require.NoError(t, err)

	author := testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "author"})

	return &contentFixture{db: db, store: store, media: media, blogs: blogs, categories: categories, author: author}
}

func strPtr(s string) *string { return &s }
