package cases

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/justicelink/case-management/internal"
	"github.com/justicelink/case-management/internal/authz"
	"github.com/justicelink/case-management/internal/core/events"
	"github.com/justicelink/case-management/internal/permission"
	"github.com/justicelink/case-management/internal/user"
	"github.com/justicelink/case-management/pkg/locker"
)

// Repository defines the data access methods for the case registry
type Repository interface {
	Create(ctx context.Context, c *Case) error
	GetByID(ctx context.Context, caseID string) (*Case, error)
	UpdateStatus(ctx context.Context, caseID, status string) error
	ListAll(ctx context.Context) ([]*Case, error)
	ListAccessible(ctx context.Context, userID string) ([]*Case, error)
}

// UserDirectory resolves grant targets against the identity directory.
type UserDirectory interface {
	GetByID(ctx context.Context, userID string) (*user.User, error)
}

// Summarizer is the external summarization collaborator. It may fail
// independently; the workflow degrades such failures to displayable text.
type Summarizer interface {
	Summarize(ctx context.Context, caseName string, fileNames []string) (string, error)
}

// DocumentLister exposes the file names attached to a case, for summaries.
type DocumentLister interface {
	FileNames(ctx context.Context, caseID string) ([]string, error)
}

const summaryFailureText = "Failed to generate summary."

// Service is the case workflow controller. Every state-changing operation
// authorizes first and mutates second; per-case locks close the gap
// between the two against concurrent writers on the same case.
type Service struct {
	repo       Repository
	grants     permission.Repository
	users      UserDirectory
	engine     *authz.Engine
	documents  DocumentLister
	summarizer Summarizer
	bus        *events.EventBus
	locks      *locker.KeyedMutex
	logger     *slog.Logger
}

func NewService(
	repo Repository,
	grants permission.Repository,
	users UserDirectory,
	engine *authz.Engine,
	documents DocumentLister,
	summarizer Summarizer,
	bus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:       repo,
		grants:     grants,
		users:      users,
		engine:     engine,
		documents:  documents,
		summarizer: summarizer,
		bus:        bus,
		locks:      locker.New(),
		logger:     logger,
	}
}

// CreateCase opens a new case with status Open. Only judges and advocates
// may create cases. The creator does NOT receive an access grant on their
// own case: a non-judge creator who grants no one (including themselves)
// cannot later manage the case. Intentional; see DESIGN.md.
func (s *Service) CreateCase(ctx context.Context, actor *user.User, dto CreateCaseDTO) (*Case, error) {
	if !actor.CanCreateCases() {
		s.logger.Warn("create case denied: role cannot create cases", "user_id", actor.ID, "role", actor.Role)
		return nil, ErrCannotCreateCase
	}

	if err := dto.Validate(); err != nil {
		s.logger.Error("case validation failed", "error", err, "user_id", actor.ID)
		return nil, err
	}

	c := &Case{
		ID:        uuid.NewString(),
		Name:      dto.CaseName,
		Status:    StatusOpen,
		CreatedBy: actor.ID,
		CreatedAt: time.Now(),
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.logger.Error("failed to create case", "error", err, "user_id", actor.ID)
		return nil, err
	}

	s.bus.Publish(ctx, events.NewCaseCreatedEvent(c.ID, c.Name, actor.ID))

	s.logger.Info("case created",
		"case_id", c.ID,
		"case_name", c.Name,
		"created_by", actor.ID)

	return c, nil
}

// ListCases returns every case for judges and, for everyone else, the
// cases the actor was granted into or created. Ordering is creation time
// descending in both branches.
func (s *Service) ListCases(ctx context.Context, actor *user.User) ([]*Case, error) {
	if actor.IsJudge() {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListAccessible(ctx, actor.ID)
}

// GetCase returns the case when the actor may view it. A missing case is
// reported before authorization so callers can distinguish 404 from 403.
func (s *Service) GetCase(ctx context.Context, actor *user.User, caseID string) (*Case, error) {
	c, err := s.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.Authorize(ctx, actor, caseID, authz.ActionViewCase)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.Warn("case access denied", "case_id", caseID, "user_id", actor.ID)
		return nil, ErrAccessDenied
	}

	return c, nil
}

// UpdateStatus transitions the case to new_status. The target must be one
// of the three valid statuses; the actor needs manage capability. The
// authorize-then-write sequence runs under the case lock so a concurrent
// revocation cannot land between check and mutation.
func (s *Service) UpdateStatus(ctx context.Context, actor *user.User, caseID string, dto UpdateStatusDTO) (*Case, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	s.locks.Lock(caseID)
	defer s.locks.Unlock(caseID)

	c, err := s.repo.GetByID(ctx, caseID)
	if err != nil {
		return nil, err
	}

	allowed, err := s.engine.Authorize(ctx, actor, caseID, authz.ActionManageCase)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.Warn("status update denied", "case_id", caseID, "user_id", actor.ID, "role", actor.Role)
		return nil, ErrCannotManageCase
	}

	oldStatus := c.Status
	if err := s.repo.UpdateStatus(ctx, caseID, dto.Status); err != nil {
		s.logger.Error("failed to update case status", "error", err, "case_id", caseID)
		return nil, err
	}
	c.Status = dto.Status

	s.bus.Publish(ctx, events.NewCaseStatusUpdatedEvent(caseID, oldStatus, dto.Status, actor.ID))

	s.logger.Info("case status updated",
		"case_id", caseID,
		"old_status", oldStatus,
		"new_status", dto.Status,
		"updated_by", actor.ID)

	return c, nil
}

// GrantAccess upserts an access grant for the target user on the case.
// Repeating the call with the same arguments is a no-op, not an error.
func (s *Service) GrantAccess(ctx context.Context, actor *user.User, caseID string, dto GrantAccessDTO) (*permission.AccessGrant, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	s.locks.Lock(caseID)
	defer s.locks.Unlock(caseID)

	if _, err := s.repo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}

	allowed, err := s.engine.Authorize(ctx, actor, caseID, authz.ActionManageCase)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.Warn("grant access denied", "case_id", caseID, "user_id", actor.ID)
		return nil, ErrCannotManageCase
	}

	// the target must resolve to a known user; an unknown id is a caller
	// mistake, not a missing resource
	if _, err := s.users.GetByID(ctx, dto.UserID); err != nil {
		if appErr, ok := internal.IsAppError(err); ok && appErr.Type == internal.ErrorTypeNotFound {
			return nil, internal.NewValidationError("target user does not exist", internal.ErrCodeValidationFailed)
		}
		return nil, err
	}

	grant := &permission.AccessGrant{
		CaseID:      caseID,
		UserID:      dto.UserID,
		AccessLevel: dto.AccessLevel,
	}

	if err := s.grants.Upsert(ctx, grant); err != nil {
		s.logger.Error("failed to upsert access grant", "error", err, "case_id", caseID, "target_user", dto.UserID)
		return nil, err
	}

	s.bus.Publish(ctx, events.NewAccessGrantedEvent(caseID, dto.UserID, dto.AccessLevel, actor.ID))

	s.logger.Info("access granted",
		"case_id", caseID,
		"target_user", dto.UserID,
		"access_level", dto.AccessLevel,
		"granted_by", actor.ID)

	return grant, nil
}

// ListCollaborators returns the case's grants joined with user identity.
func (s *Service) ListCollaborators(ctx context.Context, actor *user.User, caseID string) ([]*permission.Collaborator, error) {
	if _, err := s.repo.GetByID(ctx, caseID); err != nil {
		return nil, err
	}

	allowed, err := s.engine.Authorize(ctx, actor, caseID, authz.ActionViewCollaborators)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrAccessDenied
	}

	return s.grants.ListByCase(ctx, caseID)
}

// Summarize asks the external summarization service for a digest of the
// case's document set. Collaborator failures degrade to displayable text;
// they never surface as errors to the caller.
func (s *Service) Summarize(ctx context.Context, actor *user.User, caseID string) (string, error) {
	c, err := s.GetCase(ctx, actor, caseID)
	if err != nil {
		return "", err
	}

	fileNames, err := s.documents.FileNames(ctx, caseID)
	if err != nil {
		s.logger.Error("failed to list case documents for summary", "error", err, "case_id", caseID)
		return summaryFailureText, nil
	}
	if len(fileNames) == 0 {
		return "No documents found for this case.", nil
	}

	summary, err := s.summarizer.Summarize(ctx, c.Name, fileNames)
	if err != nil {
		s.logger.Error("summarization failed", "error", err, "case_id", caseID)
		return summaryFailureText, nil
	}

	return summary, nil
}
