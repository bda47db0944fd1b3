package models

import (
	"strings"
	"time"
)

// Post is a blog post. Tags are persisted as a JSON array in a single text column.
type Post struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:text;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Category  string    `gorm:"size:255;not null" json:"category"`
	Tags      TagList   `gorm:"type:text;not null" json:"tags"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false" json:"updatedAt"`
}

// TableName keeps the table name stable regardless of naming strategy.
func (Post) TableName() string {
	return "posts"
}

// PostFields holds the validated, mutable part of a post.
type PostFields struct {
	Title    string
	Content  string
	Category string
	Tags     []string
}

// Apply overwrites every mutable field of p.
func (f PostFields) Apply(p *Post) {
	p.Title = f.Title
	p.Content = f.Content
	p.Category = f.Category
	p.Tags = TagList(append([]string(nil), f.Tags...))
}

// Matches reports whether term is a substring of the title, content or category.
// An empty term matches every post. Matching is case-sensitive.
func (p *Post) Matches(term string) bool {
	if term == "" {
		return true
	}
	return strings.Contains(p.Title, term) ||
		strings.Contains(p.Content, term) ||
		strings.Contains(p.Category, term)
}
