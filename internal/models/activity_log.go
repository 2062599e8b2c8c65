package models

import "time"

// ActivityLog is an audit row written in the same transaction as the
// post mutation it describes.
type ActivityLog struct {
	ID        int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	Action    string    `json:"action" gorm:"size:50;not null"`
	PostID    int64     `json:"post_id" gorm:"not null;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
