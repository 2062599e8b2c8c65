package models

type Category struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"size:100;not null;index"`
	Slug string `json:"slug" gorm:"size:255;uniqueIndex;not null"`
}

func (Category) TableName() string {
	return "categories"
}
