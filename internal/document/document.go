package document

import (
	"time"

	"github.com/justicelink/case-management/internal"
)

// Document is an uploaded file's metadata bound to a case. Rows are
// immutable once written.
type Document struct {
	ID         string    `json:"doc_id" gorm:"column:doc_id;primaryKey"`
	CaseID     string    `json:"case_id" gorm:"column:case_id;not null"`
	FileName   string    `json:"file_name" gorm:"column:file_name;not null"`
	UploadedBy string    `json:"uploaded_by" gorm:"column:uploader_id;not null"`
	UploadedAt time.Time `json:"uploaded_at" gorm:"column:uploaded_at"`
	StorageRef string    `json:"storage_reference" gorm:"column:storage_path;uniqueIndex;not null"`
}

func (Document) TableName() string {
	return "documents"
}

var (
	ErrDocumentNotFound = internal.NewNotFoundError("document not found", internal.ErrCodeDocumentNotFound)
	ErrNoFile           = internal.NewValidationError("no file supplied", internal.ErrCodeMissingFile)
)
