package models

type Tag struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Tag  string `json:"tag" gorm:"size:100;not null;index"`
	Slug string `json:"slug" gorm:"size:255;uniqueIndex;not null"`
}

func (Tag) TableName() string {
	return "tags"
}
