package models

import "gorm.io/gorm"

// Category is a node in the catalog tree. ParentID is nil for roots. The
// parent graph is assumed acyclic but descendant resolution guards against
// cycles anyway (see services.CatalogService).
type Category struct {
	ID          string  `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Name        string  `json:"name" gorm:"uniqueIndex;type:varchar(255)" validate:"required,min=2,max=255"`
	Slug        string  `json:"slug" gorm:"uniqueIndex;type:varchar(255)"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	ParentID    *string `json:"parent_id" gorm:"type:varchar(36);index" validate:"omitempty,uuid"`
	gorm.Model
}
