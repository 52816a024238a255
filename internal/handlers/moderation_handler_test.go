package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/models"
	"github.com/quillpress/api-backend/internal/services"
	"github.com/quillpress/api-backend/internal/testutil"
)

func TestModerationHandler_FAQs(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(s.author)
	blog := testutil.CreateBlog(t, s.db, s.author, "Post", "post", true)
	faqsPath := fmt.Sprintf("/api/admin/blogs/%d/faqs", blog.ID)

	w := s.sendJSON(http.MethodPost, faqsPath, token, FAQRequest{Question: "Why?", Answer: "Because."})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created FAQResponse
	decode(t, w, &created)
	assert.Equal(t, "Why?", created.FAQ.Question)

	w = s.sendJSON(http.MethodPost, faqsPath, token, map[string]string{"question": "No answer"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.sendJSON(http.MethodPost, "/api/admin/blogs/9999/faqs", token, FAQRequest{Question: "Q", Answer: "A"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	faqPath := fmt.Sprintf("/api/admin/faqs/%d", created.FAQ.ID)
	w = s.sendJSON(http.MethodPut, faqPath, token, FAQRequest{Question: "Why not?", Answer: "No reason."})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.get(faqsPath, token)
	require.Equal(t, http.StatusOK, w.Code)
	var list FAQListResponse
	decode(t, w, &list)
	require.Len(t, list.FAQs, 1)
	assert.Equal(t, "Why not?", list.FAQs[0].Question)

	assert.Equal(t, http.StatusOK, s.do(newRequest(http.MethodDelete, faqPath), token).Code)
	assert.Equal(t, http.StatusNotFound, s.do(newRequest(http.MethodDelete, faqPath), token).Code)
}

func TestModerationHandler_Comments(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(s.author)
	blog := testutil.CreateBlog(t, s.db, s.author, "Post", "post", true)
	reader := &models.User{Name: "Reader", Email: "reader@example.com"}
	require.NoError(t, s.db.Create(reader).Error)
	comment := &models.Comment{BlogID: blog.ID, UserID: reader.ID, Content: "Great read"}
	require.NoError(t, s.db.Create(comment).Error)

	w := s.get("/api/admin/comments", token)
	require.Equal(t, http.StatusOK, w.Code)
	var page services.CommentPage
	decode(t, w, &page)
	require.Len(t, page.Comments, 1)
	assert.Equal(t, "Post", page.Comments[0].BlogTitle)
	assert.Equal(t, "Reader", page.Comments[0].User.Name)

	path := fmt.Sprintf("/api/admin/comments/%d", comment.ID)
	assert.Equal(t, http.StatusOK, s.do(newRequest(http.MethodDelete, path), token).Code)
	assert.Equal(t, http.StatusNotFound, s.do(newRequest(http.MethodDelete, path), token).Code)
}

func TestMediaHandler(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(s.author)

	w := s.sendMultipart(http.MethodPost, "/api/admin/media", token, nil, pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var upload UploadResponse
	decode(t, w, &upload)
	assert.Contains(t, upload.URL, "http://cdn.test/blog-media/blog-images/")
	assert.Equal(t, 1, s.store.count())

	w = s.sendMultipart(http.MethodPost, "/api/admin/media", token, map[string]string{"title": "no file"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	image := upload.URL
	blog := testutil.CreateBlog(t, s.db, s.author, "With image", "with-image", true)
	require.NoError(t, s.db.Model(blog).Update("image", image).Error)
	testutil.CreateBlog(t, s.db, s.author, "Without image", "without-image", true)

	w = s.get("/api/admin/media?page=1&limit=10", token)
	require.Equal(t, http.StatusOK, w.Code)
	var library services.MediaLibraryPage
	decode(t, w, &library)
	require.Len(t, library.Blogs, 1)
	assert.Equal(t, image, library.Blogs[0].Image)
	assert.Equal(t, 1, library.TotalPages)
	assert.Equal(t, 1, library.CurrentPage)
}

func TestCleanupHandler(t *testing.T) {
	s := newTestServer(t)

	w := s.do(newRequest(http.MethodPost, "/api/admin/maintenance/otp-cleanup"), s.tokenFor(s.author))
	require.Equal(t, http.StatusOK, w.Code)
	var resp CleanupResponse
	decode(t, w, &resp)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(0), resp.Removed)

	assert.Equal(t, http.StatusUnauthorized, s.do(newRequest(http.MethodPost, "/api/admin/maintenance/otp-cleanup"), "").Code)
}
