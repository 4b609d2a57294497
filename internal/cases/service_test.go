package cases

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/justicelink/case-management/internal"
	"github.com/justicelink/case-management/internal/authz"
	"github.com/justicelink/case-management/internal/core/events"
	"github.com/justicelink/case-management/internal/permission"
	"github.com/justicelink/case-management/internal/user"
)

func TestCaseService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CaseService Suite")
}

type memCaseRepo struct {
	cases map[string]*Case
}

func newMemCaseRepo() *memCaseRepo {
	return &memCaseRepo{cases: map[string]*Case{}}
}

func (m *memCaseRepo) Create(ctx context.Context, c *Case) error {
	stored := *c
	m.cases[c.ID] = &stored
	return nil
}

func (m *memCaseRepo) GetByID(ctx context.Context, caseID string) (*Case, error) {
	c, ok := m.cases[caseID]
	if !ok {
		return nil, ErrCaseNotFound
	}
	copied := *c
	return &copied, nil
}

func (m *memCaseRepo) UpdateStatus(ctx context.Context, caseID, status string) error {
	c, ok := m.cases[caseID]
	if !ok {
		return ErrCaseNotFound
	}
	c.Status = status
	return nil
}

func (m *memCaseRepo) ListAll(ctx context.Context) ([]*Case, error) {
	var list []*Case
	for _, c := range m.cases {
		copied := *c
		list = append(list, &copied)
	}
	return list, nil
}

func (m *memCaseRepo) ListAccessible(ctx context.Context, userID string) ([]*Case, error) {
	var list []*Case
	for _, c := range m.cases {
		if c.CreatedBy == userID {
			copied := *c
			list = append(list, &copied)
		}
	}
	return list, nil
}

type memGrantRepo struct {
	grants map[string]*permission.AccessGrant
	users  map[string]*user.User
}

func newMemGrantRepo(users map[string]*user.User) *memGrantRepo {
	return &memGrantRepo{grants: map[string]*permission.AccessGrant{}, users: users}
}

func (m *memGrantRepo) key(caseID, userID string) string {
	return caseID + "/" + userID
}

func (m *memGrantRepo) Get(ctx context.Context, caseID, userID string) (*permission.AccessGrant, error) {
	g, ok := m.grants[m.key(caseID, userID)]
	if !ok {
		return nil, permission.ErrGrantNotFound
	}
	return g, nil
}

func (m *memGrantRepo) Upsert(ctx context.Context, grant *permission.AccessGrant) error {
	stored := *grant
	m.grants[m.key(grant.CaseID, grant.UserID)] = &stored
	return nil
}

func (m *memGrantRepo) ListByCase(ctx context.Context, caseID string) ([]*permission.Collaborator, error) {
	var list []*permission.Collaborator
	for _, g := range m.grants {
		if g.CaseID != caseID {
			continue
		}
		c := &permission.Collaborator{UserID: g.UserID, AccessLevel: g.AccessLevel}
		if u, ok := m.users[g.UserID]; ok {
			c.FullName = u.FullName
			c.Email = u.Email
		}
		list = append(list, c)
	}
	return list, nil
}

func (m *memGrantRepo) AccessLevel(ctx context.Context, caseID, userID string) (string, bool, error) {
	g, ok := m.grants[m.key(caseID, userID)]
	if !ok {
		return "", false, nil
	}
	return g.AccessLevel, true, nil
}

type memUserDirectory struct {
	users map[string]*user.User
}

func (m *memUserDirectory) GetByID(ctx context.Context, userID string) (*user.User, error) {
	u, ok := m.users[userID]
	if !ok {
		return nil, user.ErrNotFound
	}
	return u, nil
}

type stubDocuments struct {
	fileNames []string
	err       error
}

func (s *stubDocuments) FileNames(ctx context.Context, caseID string) ([]string, error) {
	return s.fileNames, s.err
}

type stubSummarizer struct {
	summary string
	err     error
	calls   int
}

func (s *stubSummarizer) Summarize(ctx context.Context, caseName string, fileNames []string) (string, error) {
	s.calls++
	return s.summary, s.err
}

var _ = Describe("CaseService", func() {
	var (
		ctx       context.Context
		repo      *memCaseRepo
		grants    *memGrantRepo
		documents *stubDocuments
		summary   *stubSummarizer
		svc       *Service

		judge     *user.User
		advocateA *user.User
		advocateB *user.User
		agency    *user.User
		intel     *user.User
	)

	BeforeEach(func() {
		ctx = context.Background()

		judge = &user.User{ID: "judge-1", Email: "judge@court.example", FullName: "Judge One", Role: user.RoleJudge}
		advocateA = &user.User{ID: "adv-a", Email: "a@firm.example", FullName: "Advocate A", Role: user.RoleAdvocate}
		advocateB = &user.User{ID: "adv-b", Email: "b@firm.example", FullName: "Advocate B", Role: user.RoleAdvocate}
		agency = &user.User{ID: "agency-1", Email: "records@gov.example", FullName: "Records Bureau", Role: user.RoleGovernmentAgency}
		intel = &user.User{ID: "intel-1", Email: "intel@firm.example", FullName: "Intel Shop", Role: user.RolePrivateIntel}

		userIndex := map[string]*user.User{
			judge.ID:     judge,
			advocateA.ID: advocateA,
			advocateB.ID: advocateB,
			agency.ID:    agency,
			intel.ID:     intel,
		}

		repo = newMemCaseRepo()
		grants = newMemGrantRepo(userIndex)
		documents = &stubDocuments{}
		summary = &stubSummarizer{summary: "a concise digest"}

		logger := slog.Default()
		engine := authz.NewEngine(grants, logger)
		svc = NewService(repo, grants, &memUserDirectory{users: userIndex}, engine, documents, summary, events.NewEventBus(logger), logger)
	})

	seedCase := func(creator *user.User) *Case {
		c := &Case{
			ID:        "case-" + creator.ID,
			Name:      "State v. Example",
			Status:    StatusOpen,
			CreatedBy: creator.ID,
			CreatedAt: time.Now(),
		}
		Expect(repo.Create(ctx, c)).To(Succeed())
		return c
	}

	Describe("CreateCase", func() {
		It("creates an Open case for an advocate", func() {
			c, err := svc.CreateCase(ctx, advocateA, CreateCaseDTO{CaseName: "Marsh v. Meridian"})
			Expect(err).NotTo(HaveOccurred())
			Expect(c.Status).To(Equal(StatusOpen))
			Expect(c.CreatedBy).To(Equal(advocateA.ID))
			Expect(c.ID).NotTo(BeEmpty())
		})

		It("does not record a grant for the creator", func() {
			c, err := svc.CreateCase(ctx, advocateA, CreateCaseDTO{CaseName: "Marsh v. Meridian"})
			Expect(err).NotTo(HaveOccurred())

			_, found, err := grants.AccessLevel(ctx, c.ID, advocateA.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeFalse())
		})

		It("rejects roles that cannot create cases", func() {
			for _, actor := range []*user.User{agency, intel} {
				_, err := svc.CreateCase(ctx, actor, CreateCaseDTO{CaseName: "Unauthorized"})
				Expect(err).To(MatchError(ErrCannotCreateCase))
			}
		})

		It("rejects a blank case name", func() {
			_, err := svc.CreateCase(ctx, advocateA, CreateCaseDTO{CaseName: "   "})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("GetCase", func() {
		It("reports an unknown case as not found, even to strangers", func() {
			_, err := svc.GetCase(ctx, advocateB, "no-such-case")
			Expect(err).To(MatchError(ErrCaseNotFound))
		})

		It("denies an ungranted advocate on someone else's case", func() {
			c := seedCase(advocateA)
			_, err := svc.GetCase(ctx, advocateB, c.ID)
			Expect(err).To(MatchError(ErrAccessDenied))
		})

		It("allows a judge with no grant", func() {
			c := seedCase(advocateA)
			got, err := svc.GetCase(ctx, judge, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(c.ID))
		})

		It("allows a view_only grant holder", func() {
			c := seedCase(advocateA)
			Expect(grants.Upsert(ctx, &permission.AccessGrant{CaseID: c.ID, UserID: intel.ID, AccessLevel: authz.LevelViewOnly})).To(Succeed())

			got, err := svc.GetCase(ctx, intel, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal(c.Name))
		})
	})

	Describe("UpdateStatus", func() {
		It("rejects an unknown status without touching the case", func() {
			c := seedCase(advocateA)
			_, err := svc.UpdateStatus(ctx, judge, c.ID, UpdateStatusDTO{Status: "Deleted"})

			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))

			stored, err := repo.GetByID(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(StatusOpen))
		})

		It("lets a judge transition between any statuses", func() {
			c := seedCase(advocateA)
			for _, status := range []string{StatusClosed, StatusInProgress, StatusOpen} {
				updated, err := svc.UpdateStatus(ctx, judge, c.ID, UpdateStatusDTO{Status: status})
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Status).To(Equal(status))
			}
		})

		It("denies the creator when they hold no grant", func() {
			c := seedCase(advocateA)
			_, err := svc.UpdateStatus(ctx, advocateA, c.ID, UpdateStatusDTO{Status: StatusClosed})
			Expect(err).To(MatchError(ErrCannotManageCase))
		})

		It("denies an upload_only grant holder", func() {
			c := seedCase(advocateA)
			Expect(grants.Upsert(ctx, &permission.AccessGrant{CaseID: c.ID, UserID: agency.ID, AccessLevel: authz.LevelUploadOnly})).To(Succeed())

			_, err := svc.UpdateStatus(ctx, agency, c.ID, UpdateStatusDTO{Status: StatusClosed})
			Expect(err).To(MatchError(ErrCannotManageCase))
		})

		It("allows a sudo grant holder", func() {
			c := seedCase(advocateA)
			Expect(grants.Upsert(ctx, &permission.AccessGrant{CaseID: c.ID, UserID: advocateB.ID, AccessLevel: authz.LevelSudo})).To(Succeed())

			updated, err := svc.UpdateStatus(ctx, advocateB, c.ID, UpdateStatusDTO{Status: StatusInProgress})
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Status).To(Equal(StatusInProgress))
		})
	})

	Describe("GrantAccess", func() {
		It("is idempotent for repeated identical grants", func() {
			c := seedCase(advocateA)

			for i := 0; i < 2; i++ {
				_, err := svc.GrantAccess(ctx, judge, c.ID, GrantAccessDTO{UserID: intel.ID, AccessLevel: authz.LevelViewOnly})
				Expect(err).NotTo(HaveOccurred())
			}

			collaborators, err := grants.ListByCase(ctx, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(collaborators).To(HaveLen(1))
			Expect(collaborators[0].AccessLevel).To(Equal(authz.LevelViewOnly))
		})

		It("overwrites the level on re-grant", func() {
			c := seedCase(advocateA)

			_, err := svc.GrantAccess(ctx, judge, c.ID, GrantAccessDTO{UserID: intel.ID, AccessLevel: authz.LevelViewOnly})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.GrantAccess(ctx, judge, c.ID, GrantAccessDTO{UserID: intel.ID, AccessLevel: authz.LevelSudo})
			Expect(err).NotTo(HaveOccurred())

			level, found, err := grants.AccessLevel(ctx, c.ID, intel.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(found).To(BeTrue())
			Expect(level).To(Equal(authz.LevelSudo))
		})

		It("defaults an omitted level to view_only", func() {
			c := seedCase(advocateA)

			grant, err := svc.GrantAccess(ctx, judge, c.ID, GrantAccessDTO{UserID: intel.ID})
			Expect(err).NotTo(HaveOccurred())
			Expect(grant.AccessLevel).To(Equal(authz.LevelViewOnly))
		})

		It("denies an upload_only grant holder from granting", func() {
			c := seedCase(advocateA)
			Expect(grants.Upsert(ctx, &permission.AccessGrant{CaseID: c.ID, UserID: agency.ID, AccessLevel: authz.LevelUploadOnly})).To(Succeed())

			_, err := svc.GrantAccess(ctx, agency, c.ID, GrantAccessDTO{UserID: intel.ID, AccessLevel: authz.LevelViewOnly})
			Expect(err).To(MatchError(ErrCannotManageCase))
		})

		It("rejects an unknown target user as a validation failure", func() {
			c := seedCase(advocateA)

			_, err := svc.GrantAccess(ctx, judge, c.ID, GrantAccessDTO{UserID: "ghost", AccessLevel: authz.LevelViewOnly})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("rejects an invalid access level", func() {
			c := seedCase(advocateA)

			_, err := svc.GrantAccess(ctx, judge, c.ID, GrantAccessDTO{UserID: intel.ID, AccessLevel: "owner"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})
	})

	Describe("ListCases", func() {
		It("gives judges the full registry", func() {
			seedCase(advocateA)
			seedCase(advocateB)

			list, err := svc.ListCases(ctx, judge)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(2))
		})

		It("restricts everyone else to their accessible set", func() {
			seedCase(advocateA)
			seedCase(advocateB)

			list, err := svc.ListCases(ctx, advocateA)
			Expect(err).NotTo(HaveOccurred())
			Expect(list).To(HaveLen(1))
			Expect(list[0].CreatedBy).To(Equal(advocateA.ID))
		})
	})

	Describe("Summarize", func() {
		It("returns the summarizer's text", func() {
			c := seedCase(advocateA)
			documents.fileNames = []string{"brief.pdf", "exhibit-a.pdf"}

			got, err := svc.Summarize(ctx, judge, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("a concise digest"))
		})

		It("reports an empty document set without calling the summarizer", func() {
			c := seedCase(advocateA)

			got, err := svc.Summarize(ctx, judge, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("No documents found for this case."))
			Expect(summary.calls).To(BeZero())
		})

		It("degrades summarizer failures to displayable text", func() {
			c := seedCase(advocateA)
			documents.fileNames = []string{"brief.pdf"}
			summary.err = errors.New("upstream 503")

			got, err := svc.Summarize(ctx, judge, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal("Failed to generate summary."))
		})

		It("still enforces view access", func() {
			c := seedCase(advocateA)
			_, err := svc.Summarize(ctx, advocateB, c.ID)
			Expect(err).To(MatchError(ErrAccessDenied))
		})
	})

	Describe("ListCollaborators", func() {
		It("requires view access", func() {
			c := seedCase(advocateA)
			_, err := svc.ListCollaborators(ctx, advocateB, c.ID)
			Expect(err).To(MatchError(ErrAccessDenied))
		})

		It("returns the grants joined with identity", func() {
			c := seedCase(advocateA)
			_, err := svc.GrantAccess(ctx, judge, c.ID, GrantAccessDTO{UserID: intel.ID, AccessLevel: authz.LevelViewOnly})
			Expect(err).NotTo(HaveOccurred())

			collaborators, err := svc.ListCollaborators(ctx, judge, c.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(collaborators).To(HaveLen(1))
			Expect(collaborators[0].Email).To(Equal(intel.Email))
		})
	})
})
