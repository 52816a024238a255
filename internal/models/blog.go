package models

import (
	"strings"
	"time"
)

// Blog is an article. Status true means published.
type Blog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Title           string    `gorm:"type:varchar(255);not null" json:"title"`
	Slug            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug"`
	Content         string    `gorm:"type:text;not null" json:"content"`
	Image           *string   `gorm:"type:varchar(500)" json:"image"`
	ImageAlt        *string   `gorm:"type:varchar(255)" json:"imageAlt"`
	MetaTitle       *string   `gorm:"type:varchar(255)" json:"metaTitle"`
	MetaDescription *string   `gorm:"type:text" json:"metaDescription"`
	MetaKeywords    *string   `gorm:"type:text" json:"metaKeywords"`
	Status          bool      `gorm:"not null;default:false;index" json:"status"`
	AuthorID        uint      `gorm:"not null;index" json:"authorId"`
	Author          AdminUser `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT" json:"-"`
	CreatedAt       time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	Categories []Category     `gorm:"many2many:blog_categories;constraint:OnDelete:CASCADE" json:"-"`
	FAQs       []FAQ          `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
	Comments   []Comment      `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
	Likes      []Like         `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
	Favorites  []Favorite     `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
	Relations  []BlogRelation `gorm:"foreignKey:BlogID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (Blog) TableName() string {
	return "blogs"
}

// IsPublished returns true if the blog is visible on the public site
func (b *Blog) IsPublished() bool {
	return b.Status
}

// Keywords splits the comma separated meta keywords
func (b *Blog) Keywords() []string {
	if b.MetaKeywords == nil || *b.MetaKeywords == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(*b.MetaKeywords, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}

// Excerpt returns the first n runes of the content
func (b *Blog) Excerpt(n int) string {
	r := []rune(b.Content)
	if len(r) <= n {
		return b.Content
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// BlogRelation links a blog to a related article
type BlogRelation struct {
	ID            uint `gorm:"primaryKey" json:"id"`
	BlogID        uint `gorm:"not null;uniqueIndex:idx_blog_relation,priority:1" json:"blogId"`
	RelatedBlogID uint `gorm:"not null;uniqueIndex:idx_blog_relation,priority:2" json:"relatedBlogId"`
	RelatedBlog   Blog `gorm:"foreignKey:RelatedBlogID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for GORM
func (BlogRelation) TableName() string {
	return "blog_relations"
}
