package document

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/justicelink/case-management/internal/authz"
	"github.com/justicelink/case-management/internal/cases"
	"github.com/justicelink/case-management/internal/core/events"
	"github.com/justicelink/case-management/internal/storage"
	"github.com/justicelink/case-management/internal/user"
)

// Repository defines the data access methods for the document store
type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, docID string) (*Document, error)
	ListByCase(ctx context.Context, caseID string) ([]*Document, error)
	FileNames(ctx context.Context, caseID string) ([]string, error)
}

// CaseChecker validates that an upload targets an existing case.
type CaseChecker interface {
	CaseExists(ctx context.Context, caseID string) (bool, error)
}

// Service handles document uploads, listings and downloads. Uploads
// authorize before streaming and never hold a case lock while bytes move:
// the byte transfer is the only slow path in the system.
type Service struct {
	repo   Repository
	caseDB CaseChecker
	engine *authz.Engine
	store  storage.ByteStore
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(
	repo Repository,
	caseDB CaseChecker,
	engine *authz.Engine,
	store storage.ByteStore,
	bus *events.EventBus,
	logger *slog.Logger,
) *Service {
	return &Service{
		repo:   repo,
		caseDB: caseDB,
		engine: engine,
		store:  store,
		bus:    bus,
		logger: logger,
	}
}

// Upload persists the file bytes through the byte store and records the
// document against the case. The sequence is authorize, stream, commit.
func (s *Service) Upload(ctx context.Context, actor *user.User, caseID, fileName string, r io.Reader) (*Document, error) {
	if fileName == "" || r == nil {
		return nil, ErrNoFile
	}

	exists, err := s.caseDB.CaseExists(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, cases.ErrCaseNotFound
	}

	allowed, err := s.engine.Authorize(ctx, actor, caseID, authz.ActionUploadDocument)
	if err != nil {
		return nil, err
	}
	if !allowed {
		s.logger.Warn("upload denied", "case_id", caseID, "user_id", actor.ID)
		return nil, cases.ErrCannotUpload
	}

	key := storage.BuildKey(caseID, actor.ID, fileName)
	ref, err := s.store.Save(ctx, key, r)
	if err != nil {
		s.logger.Error("failed to store file bytes", "error", err, "case_id", caseID, "file_name", fileName)
		return nil, err
	}

	doc := &Document{
		ID:         uuid.NewString(),
		CaseID:     caseID,
		FileName:   fileName,
		UploadedBy: actor.ID,
		UploadedAt: time.Now(),
		StorageRef: ref,
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		s.logger.Error("failed to record document", "error", err, "case_id", caseID, "file_name", fileName)
		// the record is the source of truth; orphaned bytes get cleaned up
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			s.logger.Error("failed to clean up stored bytes", "error", delErr, "storage_ref", ref)
		}
		return nil, err
	}

	s.bus.Publish(ctx, events.NewDocumentUploadedEvent(caseID, doc.ID, fileName, actor.ID))

	s.logger.Info("document uploaded",
		"doc_id", doc.ID,
		"case_id", caseID,
		"file_name", fileName,
		"uploaded_by", actor.ID)

	return doc, nil
}

// ListByCase returns the case's documents in upload order.
func (s *Service) ListByCase(ctx context.Context, actor *user.User, caseID string) ([]*Document, error) {
	exists, err := s.caseDB.CaseExists(ctx, caseID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, cases.ErrCaseNotFound
	}

	allowed, err := s.engine.Authorize(ctx, actor, caseID, authz.ActionViewCase)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, cases.ErrAccessDenied
	}

	return s.repo.ListByCase(ctx, caseID)
}

// Download resolves the document, authorizes view access on its case and
// opens the stored bytes. The caller owns the returned ReadCloser.
func (s *Service) Download(ctx context.Context, actor *user.User, docID string) (*Document, io.ReadCloser, error) {
	doc, err := s.repo.GetByID(ctx, docID)
	if err != nil {
		return nil, nil, err
	}

	allowed, err := s.engine.Authorize(ctx, actor, doc.CaseID, authz.ActionViewCase)
	if err != nil {
		return nil, nil, err
	}
	if !allowed {
		s.logger.Warn("download denied", "doc_id", docID, "case_id", doc.CaseID, "user_id", actor.ID)
		return nil, nil, cases.ErrAccessDenied
	}

	rc, err := s.store.Open(ctx, doc.StorageRef)
	if err != nil {
		s.logger.Error("failed to open stored bytes", "error", err, "storage_ref", doc.StorageRef)
		return nil, nil, err
	}

	return doc, rc, nil
}

// FileNames feeds the summarization workflow; it performs no
// authorization of its own and must stay behind an authorized caller.
func (s *Service) FileNames(ctx context.Context, caseID string) ([]string, error) {
	return s.repo.FileNames(ctx, caseID)
}
