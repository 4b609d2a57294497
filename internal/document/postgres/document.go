package postgres

import (
	"context"

	"github.com/justicelink/case-management/internal/document"
	"gorm.io/gorm"
)

// DocumentRepository implements the document.Repository interface using GORM
type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, docID string) (*document.Document, error) {
	var d document.Document
	err := r.db.WithContext(ctx).Where("doc_id = ?", docID).First(&d).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, document.ErrDocumentNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *DocumentRepository) ListByCase(ctx context.Context, caseID string) ([]*document.Document, error) {
	var list []*document.Document
	err := r.db.WithContext(ctx).
		Where("case_id = ?", caseID).
		Order("uploaded_at ASC").
		Find(&list).Error
	return list, err
}

func (r *DocumentRepository) FileNames(ctx context.Context, caseID string) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&document.Document{}).
		Where("case_id = ?", caseID).
		Order("uploaded_at ASC").
		Pluck("file_name", &names).Error
	return names, err
}
