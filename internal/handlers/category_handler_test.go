package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillpress/api-backend/internal/testutil"
)

func TestCategoryHandler_CRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.tokenFor(s.author)

	w := s.sendMultipart(http.MethodPost, "/api/admin/categories", token, map[string]string{
		"name":        "Cloud Native",
		"description": "Containers and friends",
	}, pngBytes)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created CategoryResponse
	decode(t, w, &created)
	assert.Equal(t, "cloud-native", created.Category.Slug)
	require.NotNil(t, created.Category.Image)
	assert.Equal(t, 1, s.store.count())

	w = s.sendMultipart(http.MethodPost, "/api/admin/categories", token, map[string]string{"name": "Cloud Native"}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var conflict ErrorResponse
	decode(t, w, &conflict)
	assert.Equal(t, "Category name or slug already exists", conflict.Message)

	w = s.sendMultipart(http.MethodPost, "/api/admin/categories", token, map[string]string{"name": strings.Repeat("n", 151)}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	path := fmt.Sprintf("/api/admin/categories/%d", created.Category.ID)
	w = s.sendMultipart(http.MethodPut, path, token, map[string]string{"name": "Cloud"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated CategoryResponse
	decode(t, w, &updated)
	assert.Equal(t, "Cloud", updated.Category.Name)
	assert.Equal(t, "cloud-native", updated.Category.Slug)

	w = s.get(path, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(newRequest(http.MethodDelete, path), token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, s.store.count(), "the category image is removed")
	assert.Equal(t, http.StatusNotFound, s.get(path, token).Code)
}

func TestCategoryHandler_Public(t *testing.T) {
	s := newTestServer(t)
	golang := testutil.CreateCategory(t, s.db, "Go", "go")
	testutil.CreateCategory(t, s.db, "Art", "art")
	testutil.CreateBlog(t, s.db, s.author, "Published", "published", true, golang)
	testutil.CreateBlog(t, s.db, s.author, "Draft", "draft", false, golang)

	w := s.get("/api/blogs/categories", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list CategoryListResponse
	decode(t, w, &list)
	require.Len(t, list.Categories, 2)
	assert.Equal(t, "Art", list.Categories[0].Name)
	assert.Equal(t, "Go", list.Categories[1].Name)
	assert.Equal(t, int64(1), list.Categories[1].Posts)

	w = s.get("/api/blogs/categories/go", "")
	require.Equal(t, http.StatusOK, w.Code)
	var page CategoryPageResponse
	decode(t, w, &page)
	assert.Equal(t, "go", page.Category.Slug)
	require.Len(t, page.Blogs, 1)
	assert.Equal(t, "published", page.Blogs[0].Slug)

	assert.Equal(t, http.StatusNotFound, s.get("/api/blogs/categories/missing", "").Code)

	var check SlugCheckResponse
	decode(t, s.get("/api/blogs/categories/check-slug?slug=go", ""), &check)
	assert.False(t, check.IsUnique)
	decode(t, s.get("/api/blogs/categories/check-slug?slug=rust", ""), &check)
	assert.True(t, check.IsUnique)
}
