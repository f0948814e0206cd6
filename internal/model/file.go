package model

import (
	"time"
)

type File struct {
	ID           string    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"userId"`
	Filename     string    `db:"filename" json:"filename"`
	OriginalName string    `db:"original_name" json:"originalName"`
	MimeType     string    `db:"mime_type" json:"mimeType"`
	Size         int64     `db:"size" json:"size"`
	StoragePath  string    `db:"storage_path" json:"publicId"` // object key, returned to clients as publicId
	Public       bool      `db:"public" json:"public"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
}
