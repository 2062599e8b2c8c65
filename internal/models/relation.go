package models

import "time"

// Relation records one user's engagement with one post. At most one row
// exists per (user, post) pair; lookups go through get-or-create.
type Relation struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    string    `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_relations_user_post"`
	PostID    int64     `json:"post_id" gorm:"not null;uniqueIndex:idx_relations_user_post;index"`
	Liked     bool      `json:"liked" gorm:"not null;default:false"`
	Rating    *int      `json:"rating,omitempty" gorm:"check:rating >= 1 AND rating <= 5"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Associations
	User User `json:"user,omitempty" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE;"`
	Post Post `json:"post,omitempty" gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE;"`
}

func (Relation) TableName() string {
	return "user_post_relations"
}
