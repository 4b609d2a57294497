package user

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestUserService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "UserService Suite")
}

type stubRepo struct {
	users         map[string]*User
	searchCalled  bool
	searchResults []*User
}

func (s *stubRepo) GetByID(ctx context.Context, userID string) (*User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *stubRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *stubRepo) SearchByEmail(ctx context.Context, fragment string) ([]*User, error) {
	s.searchCalled = true
	var out []*User
	for _, u := range s.searchResults {
		if strings.Contains(strings.ToLower(u.Email), strings.ToLower(fragment)) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubRepo) Create(ctx context.Context, u *User) error {
	s.users[u.ID] = u
	return nil
}

var _ = Describe("UserService", func() {
	var (
		repo *stubRepo
		svc  *Service
		ctx  context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &stubRepo{
			users: map[string]*User{
				"u1": {ID: "u1", Email: "lena.marsh@firm.example", FullName: "Lena Marsh", Role: RoleAdvocate},
			},
			searchResults: []*User{
				{ID: "u1", Email: "lena.marsh@firm.example"},
				{ID: "u2", Email: "records@gov.example"},
			},
		}
		svc = NewService(repo, slog.Default())
	})

	Describe("SearchByEmail", func() {
		It("returns an empty list for fragments under three characters", func() {
			users, err := svc.SearchByEmail(ctx, "ab")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(BeEmpty())
			Expect(repo.searchCalled).To(BeFalse())
		})

		It("treats surrounding whitespace as absent", func() {
			users, err := svc.SearchByEmail(ctx, "  ab  ")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(BeEmpty())
			Expect(repo.searchCalled).To(BeFalse())
		})

		It("searches once the fragment reaches three characters", func() {
			users, err := svc.SearchByEmail(ctx, "MARSH")
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].Email).To(Equal("lena.marsh@firm.example"))
		})
	})

	Describe("GetByID", func() {
		It("resolves a known user", func() {
			u, err := svc.GetByID(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(u.FullName).To(Equal("Lena Marsh"))
		})

		It("propagates not found", func() {
			_, err := svc.GetByID(ctx, "ghost")
			Expect(err).To(MatchError(ErrNotFound))
		})
	})
})
