package models

import "time"

// Publication status values for Post.IsPublished.
const (
	StatusDraft     = 0
	StatusPublished = 1
)

type Post struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Title       string    `json:"title" gorm:"size:255;uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"size:255;uniqueIndex;not null"`
	Content     string    `json:"content" gorm:"type:text"`
	Photo       *string   `json:"photo,omitempty" gorm:"size:255"`
	IsPublished int       `json:"is_published" gorm:"not null;default:1"`
	CategoryID  int64     `json:"category_id" gorm:"not null;index"`
	AuthorID    *string   `json:"author_id,omitempty" gorm:"type:uuid;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime;index:idx_posts_created,sort:desc"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	Category Category `json:"category,omitempty" gorm:"foreignKey:CategoryID;constraint:OnDelete:RESTRICT;"`
	Tags     []Tag    `json:"tags,omitempty" gorm:"many2many:post_tags;constraint:OnDelete:CASCADE;"`
	Author   *User    `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:SET NULL;"`
}

func (Post) TableName() string {
	return "posts"
}

func (p *Post) Published() bool {
	return p.IsPublished == StatusPublished
}
