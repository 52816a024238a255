package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBlogKeywords(t *testing.T) {
	tests := []struct {
		name     string
		keywords *string
		want     []string
	}{
		{"nil", nil, nil},
		{"empty", strPtr(""), nil},
		{"single", strPtr("go"), []string{"go"}},
		{"trims and skips blanks", strPtr(" go , web,, blog "), []string{"go", "web", "blog"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &Blog{MetaKeywords: tt.keywords}
			assert.Equal(t, tt.want, b.Keywords())
		})
	}
}

func TestBlogExcerpt(t *testing.T) {
	b := &Blog{Content: "héllo world"}
	assert.Equal(t, "héllo world", b.Excerpt(50))
	assert.Equal(t, "héllo…", b.Excerpt(6))
}
