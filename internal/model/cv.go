package model

import "time"

// CV uploaded résumé, versioned per user (cvs)
// At most one row per user has IsLatest set.
type CV struct {
	ID         string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	UserID     string    `gorm:"type:uuid;not null;index"                       json:"userId"`
	FileName   string    `gorm:"type:varchar(255);not null"                     json:"fileName"`
	StorageKey string    `gorm:"type:varchar(512);not null"                     json:"-"`
	FileType   string    `gorm:"type:varchar(255);not null"                     json:"fileType"`
	FileSize   int64     `gorm:"not null"                                       json:"fileSize"`
	PageCount  *int      `                                                      json:"pageCount,omitempty"`
	Version    int       `gorm:"not null;default:1"                             json:"version"`
	IsLatest   bool      `gorm:"not null;default:true"                          json:"isLatest"`
	UploadedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"uploadedAt"`
}

// TableName table name
func (CV) TableName() string { return "cvs" }
