package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/quillpress/api-backend/internal/crypto"
	"github.com/quillpress/api-backend/internal/middleware"
	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/repositories"
	"github.com/quillpress/api-backend/internal/services"
	"github.com/quillpress/api-backend/internal/templates"
	"github.com/quillpress/api-backend/internal/testutil"
	"github.com/quillpress/api-backend/internal/validators"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var pngBytes = []byte{
	0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n',
	0x00, 0x00, 0x00, 0x0d, 'I', 'H', 'D', 'R',
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89,
}

var codePattern = regexp.MustCompile(`code is (\d+)`)

type capturingSMS struct {
	mu       sync.Mutex
	messages map[string]string
}

func (s *capturingSMS) SendSMS(_ context.Context, mobile, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages[mobile] = message
	return nil
}

func (s *capturingSMS) code(t *testing.T, mobile string) string {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	match := codePattern.FindStringSubmatch(s.messages[mobile])
	require.Len(t, match, 2, "no code sent to %s", mobile)
	return match[1]
}

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (m *memoryStore) Upload(_ context.Context, key string, reader io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	return nil
}

func (m *memoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memoryStore) Bucket() string { return "blog-media" }

func (m *memoryStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

// testServer is the full router over an in-memory database
type testServer struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
	sms    *capturingSMS
	store  *memoryStore
	author *models.AdminUser
	super  *models.AdminUser
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, validators.RegisterBindingTags())

	db := testutil.NewDB(t)
	log := testutil.NewLogger(t)

	adminRepo := repositories.NewAdminRepository(db)
	blogRepo := repositories.NewBlogRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	otpRepo := repositories.NewOTPRepository(db)

	sms := &capturingSMS{messages: map[string]string{}}
	store := &memoryStore{objects: map[string][]byte{}}

	otp, err := services.NewOTPService(otpRepo, adminRepo, sms, services.OTPConfig{Length: 6, TTL: 5 * time.Minute}, log)
	require.NoError(t, err)
	creds, err := services.NewCredentialStore(adminRepo, log)
	require.NoError(t, err)
	sessions, err := services.NewSessionService(creds, otp, services.SessionConfig{Secret: testSecret}, log)
	require.NoError(t, err)

	media, err := services.NewMediaService(store, blogRepo, services.MediaConfig{PublicBaseURL: "http://cdn.test"}, log)
	require.NoError(t, err)
	blogs, err := services.NewBlogService(blogRepo, media, log)
	require.NoError(t, err)
	categories, err := services.NewCategoryService(categoryRepo, blogs, media, log)
	require.NoError(t, err)
	faqs, err := services.NewFAQService(repositories.NewFAQRepository(db), log)
	require.NoError(t, err)
	comments, err := services.NewCommentService(commentRepo, blogRepo, log)
	require.NoError(t, err)
	admins, err := services.NewAdminUserService(adminRepo, nil, log)
	require.NoError(t, err)
	dashboard, err := services.NewDashboardService(blogRepo, categoryRepo, commentRepo, adminRepo)
	require.NoError(t, err)
	information, err := services.NewInformationService(repositories.NewInformationRepository(db), log)
	require.NoError(t, err)

	tmpl, err := templates.LoadPages()
	require.NoError(t, err)

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(middleware.NewRouteAuthorizer(sessions, middleware.DefaultCookieName, log).Middleware())

	RegisterRoutes(router, Handlers{
		Auth:       NewAuthHandler(sessions, otp, CookieConfig{Name: middleware.DefaultCookieName}, log),
		Blogs:      NewBlogHandler(blogs, log),
		Categories: NewCategoryHandler(categories, log),
		Media:      NewMediaHandler(media, log),
		Moderation: NewModerationHandler(faqs, comments, log),
		Admins:     NewAdminUserHandler(admins, log),
		Pages:      NewPageHandler(blogs, categories, dashboard, admins, information, log),
		Health:     NewHealthHandler(db, log),
		Cleanup:    NewCleanupHandler(services.NewCleanupService(otp, time.Hour, log)),
		Info:       NewInformationHandler(information, log),
	})

	return &testServer{
		t:      t,
		db:     db,
		router: router,
		sms:    sms,
		store:  store,
		author: testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "author", Email: "author@example.com", Mobile: "9999999999"}),
		super:  testutil.CreateAdmin(t, db, testutil.AdminFixture{Username: "root", Role: models.RoleSuperAdmin}),
	}
}

// tokenFor signs a session for admin with its effective role
func (s *testServer) tokenFor(admin *models.AdminUser) string {
	s.t.Helper()
	token, _, err := crypto.GenerateSessionJWT(admin.ID, admin.Username, string(admin.EffectiveRole()), testSecret, time.Minute)
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.AddCookie(&http.Cookie{Name: middleware.DefaultCookieName, Value: token})
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) get(path, token string) *httptest.ResponseRecorder {
	return s.do(httptest.NewRequest(http.MethodGet, path, nil), token)
}

func (s *testServer) sendJSON(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	payload, err := json.Marshal(body)
	require.NoError(s.t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return s.do(req, token)
}

func (s *testServer) sendForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return s.do(req, "")
}

// sendMultipart posts fields and, when image is not nil, an image part
func (s *testServer) sendMultipart(method, path, token string, fields map[string]string, image []byte) *httptest.ResponseRecorder {
	s.t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for name, value := range fields {
		require.NoError(s.t, writer.WriteField(name, value))
	}
	if image != nil {
		part, err := writer.CreateFormFile(imageField, "cover.png")
		require.NoError(s.t, err)
		_, err = part.Write(image)
		require.NoError(s.t, err)
	}
	require.NoError(s.t, writer.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return s.do(req, token)
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func sessionCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.DefaultCookieName {
			return cookie
		}
	}
	return nil
}
