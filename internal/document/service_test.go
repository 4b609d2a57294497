package document

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/justicelink/case-management/internal/authz"
	"github.com/justicelink/case-management/internal/cases"
	"github.com/justicelink/case-management/internal/core/events"
	"github.com/justicelink/case-management/internal/user"
)

func TestDocumentService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "DocumentService Suite")
}

type memDocRepo struct {
	docs map[string]*Document
}

func (m *memDocRepo) Create(ctx context.Context, d *Document) error {
	stored := *d
	m.docs[d.ID] = &stored
	return nil
}

func (m *memDocRepo) GetByID(ctx context.Context, docID string) (*Document, error) {
	d, ok := m.docs[docID]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return d, nil
}

func (m *memDocRepo) ListByCase(ctx context.Context, caseID string) ([]*Document, error) {
	var list []*Document
	for _, d := range m.docs {
		if d.CaseID == caseID {
			list = append(list, d)
		}
	}
	return list, nil
}

func (m *memDocRepo) FileNames(ctx context.Context, caseID string) ([]string, error) {
	var names []string
	for _, d := range m.docs {
		if d.CaseID == caseID {
			names = append(names, d.FileName)
		}
	}
	return names, nil
}

type memByteStore struct {
	blobs map[string][]byte
}

func (m *memByteStore) Save(ctx context.Context, key string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.blobs[key] = data
	return key, nil
}

func (m *memByteStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	data, ok := m.blobs[ref]
	if !ok {
		return nil, ErrDocumentNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memByteStore) Delete(ctx context.Context, ref string) error {
	delete(m.blobs, ref)
	return nil
}

type stubCases struct {
	existing map[string]bool
}

func (s *stubCases) CaseExists(ctx context.Context, caseID string) (bool, error) {
	return s.existing[caseID], nil
}

type stubGrants struct {
	levels map[string]string
}

func (s *stubGrants) AccessLevel(ctx context.Context, caseID, userID string) (string, bool, error) {
	level, ok := s.levels[caseID+"/"+userID]
	return level, ok, nil
}

var _ = Describe("DocumentService", func() {
	var (
		ctx    context.Context
		repo   *memDocRepo
		store  *memByteStore
		grants *stubGrants
		svc    *Service

		judge  *user.User
		agency *user.User
		intel  *user.User
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &memDocRepo{docs: map[string]*Document{}}
		store = &memByteStore{blobs: map[string][]byte{}}
		grants = &stubGrants{levels: map[string]string{}}

		judge = &user.User{ID: "judge-1", Role: user.RoleJudge}
		agency = &user.User{ID: "agency-1", Role: user.RoleGovernmentAgency}
		intel = &user.User{ID: "intel-1", Role: user.RolePrivateIntel}

		logger := slog.Default()
		engine := authz.NewEngine(grants, logger)
		caseDB := &stubCases{existing: map[string]bool{"case-1": true}}
		svc = NewService(repo, caseDB, engine, store, events.NewEventBus(logger), logger)
	})

	Describe("Upload", func() {
		It("stores bytes and records the document for an upload_only holder", func() {
			grants.levels["case-1/"+agency.ID] = authz.LevelUploadOnly

			doc, err := svc.Upload(ctx, agency, "case-1", "evidence.pdf", strings.NewReader("contents"))
			Expect(err).NotTo(HaveOccurred())
			Expect(doc.CaseID).To(Equal("case-1"))
			Expect(doc.UploadedBy).To(Equal(agency.ID))
			Expect(doc.StorageRef).NotTo(BeEmpty())
			Expect(store.blobs).To(HaveKey(doc.StorageRef))
			Expect(string(store.blobs[doc.StorageRef])).To(Equal("contents"))
		})

		It("denies a view_only holder", func() {
			grants.levels["case-1/"+intel.ID] = authz.LevelViewOnly

			_, err := svc.Upload(ctx, intel, "case-1", "evidence.pdf", strings.NewReader("x"))
			Expect(err).To(MatchError(cases.ErrCannotUpload))
			Expect(store.blobs).To(BeEmpty())
		})

		It("allows a judge with no grant", func() {
			_, err := svc.Upload(ctx, judge, "case-1", "order.pdf", strings.NewReader("x"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects a missing file before any check", func() {
			_, err := svc.Upload(ctx, judge, "case-1", "", nil)
			Expect(err).To(MatchError(ErrNoFile))
		})

		It("reports an unknown case as not found", func() {
			_, err := svc.Upload(ctx, judge, "no-such-case", "a.pdf", strings.NewReader("x"))
			Expect(err).To(MatchError(cases.ErrCaseNotFound))
		})
	})

	Describe("ListByCase", func() {
		It("requires view access", func() {
			_, err := svc.ListByCase(ctx, intel, "case-1")
			Expect(err).To(MatchError(cases.ErrAccessDenied))
		})

		It("returns the case's documents to a grant holder", func() {
			grants.levels["case-1/"+intel.ID] = authz.LevelViewOnly
			_, err := svc.Upload(ctx, judge, "case-1", "a.pdf", strings.NewReader("x"))
			Expect(err).NotTo(HaveOccurred())

			docs, err := svc.ListByCase(ctx, intel, "case-1")
			Expect(err).NotTo(HaveOccurred())
			Expect(docs).To(HaveLen(1))
		})
	})

	Describe("Download", func() {
		It("streams the stored bytes back to a viewer", func() {
			doc, err := svc.Upload(ctx, judge, "case-1", "a.pdf", strings.NewReader("payload"))
			Expect(err).NotTo(HaveOccurred())

			grants.levels["case-1/"+intel.ID] = authz.LevelViewOnly
			got, rc, err := svc.Download(ctx, intel, doc.ID)
			Expect(err).NotTo(HaveOccurred())
			defer rc.Close()

			data, err := io.ReadAll(rc)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("payload"))
			Expect(got.FileName).To(Equal("a.pdf"))
		})

		It("denies users without view access on the owning case", func() {
			doc, err := svc.Upload(ctx, judge, "case-1", "a.pdf", strings.NewReader("x"))
			Expect(err).NotTo(HaveOccurred())

			_, _, err = svc.Download(ctx, intel, doc.ID)
			Expect(err).To(MatchError(cases.ErrAccessDenied))
		})

		It("reports unknown documents as not found", func() {
			_, _, err := svc.Download(ctx, judge, "ghost")
			Expect(err).To(MatchError(ErrDocumentNotFound))
		})
	})
})
