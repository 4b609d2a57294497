package postgres

import (
	"context"

	"github.com/justicelink/case-management/internal/permission"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GrantRepository implements the permission.Repository interface using GORM
type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) permission.Repository {
	return &GrantRepository{db: db}
}

func (r *GrantRepository) Get(ctx context.Context, caseID, userID string) (*permission.AccessGrant, error) {
	var grant permission.AccessGrant
	err := r.db.WithContext(ctx).
		Where("case_id = ? AND user_id = ?", caseID, userID).
		First(&grant).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, permission.ErrGrantNotFound
		}
		return nil, err
	}
	return &grant, nil
}

// Upsert inserts the grant or, when the (case_id, user_id) key already
// exists, overwrites its access level. The conflict clause makes the
// operation atomic under concurrent writers.
func (r *GrantRepository) Upsert(ctx context.Context, grant *permission.AccessGrant) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "case_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"access_level"}),
		}).
		Create(grant).Error
}

func (r *GrantRepository) ListByCase(ctx context.Context, caseID string) ([]*permission.Collaborator, error) {
	var collaborators []*permission.Collaborator
	err := r.db.WithContext(ctx).
		Table("case_access_permissions").
		Select("case_access_permissions.user_id, users.full_name, users.email, case_access_permissions.access_level").
		Joins("JOIN users ON users.user_id = case_access_permissions.user_id").
		Where("case_access_permissions.case_id = ?", caseID).
		Order("users.full_name ASC").
		Scan(&collaborators).Error
	return collaborators, err
}

func (r *GrantRepository) AccessLevel(ctx context.Context, caseID, userID string) (string, bool, error) {
	grant, err := r.Get(ctx, caseID, userID)
	if err != nil {
		if err == permission.ErrGrantNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return grant.AccessLevel, true, nil
}
