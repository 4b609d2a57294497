package postgres

import (
	"context"

	"github.com/justicelink/case-management/internal/cases"
	"gorm.io/gorm"
)

// CaseRepository implements the cases.Repository interface using GORM
type CaseRepository struct {
	db *gorm.DB
}

func NewCaseRepository(db *gorm.DB) *CaseRepository {
	return &CaseRepository{db: db}
}

func (r *CaseRepository) Create(ctx context.Context, c *cases.Case) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CaseRepository) GetByID(ctx context.Context, caseID string) (*cases.Case, error) {
	var c cases.Case
	err := r.db.WithContext(ctx).Where("case_id = ?", caseID).First(&c).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, cases.ErrCaseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *CaseRepository) UpdateStatus(ctx context.Context, caseID, status string) error {
	result := r.db.WithContext(ctx).Model(&cases.Case{}).
		Where("case_id = ?", caseID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return cases.ErrCaseNotFound
	}
	return nil
}

func (r *CaseRepository) ListAll(ctx context.Context) ([]*cases.Case, error) {
	var list []*cases.Case
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// ListAccessible returns cases the user was granted into plus cases they
// created, newest first.
func (r *CaseRepository) ListAccessible(ctx context.Context, userID string) ([]*cases.Case, error) {
	var list []*cases.Case
	err := r.db.WithContext(ctx).
		Where("creator_id = ? OR case_id IN (?)",
			userID,
			r.db.Table("case_access_permissions").Select("case_id").Where("user_id = ?", userID),
		).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// CaseExists is used by the document workflow to validate uploads without
// pulling the whole record.
func (r *CaseRepository) CaseExists(ctx context.Context, caseID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&cases.Case{}).
		Where("case_id = ?", caseID).
		Count(&count).Error
	return count > 0, err
}
