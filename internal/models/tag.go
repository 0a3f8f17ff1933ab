package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag categorizes recipes. Name, slug and color are each globally unique.
type Tag struct {
	ID    uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	Name  string    `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Slug  string    `gorm:"size:100;not null;uniqueIndex" json:"slug"`
	Color string    `gorm:"size:7;not null;uniqueIndex" json:"color"`
}

func (t *Tag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
