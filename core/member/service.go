package member

import (
	"context"
	"errors"
	"time"

	"github.com/ttuacm/sdc-backend/core"
)

var (
	// errors
	ErrNotFound    = errors.New("member not found")
	ErrEmailExists = errors.New("a member with this email already exists")
)

type (
	Repository interface {
		CreateMember(ctx context.Context, m Member) (Member, error)
		QueryAllMembers(ctx context.Context) ([]Member, error)
		GetMemberByEmail(ctx context.Context, email string) (Member, error)
		// UpdateMember replaces all mutable fields of the stored record.
		UpdateMember(ctx context.Context, m Member) (Member, error)
		// ResetMembers drops the whole roster. Administrative.
		ResetMembers(ctx context.Context) error
	}

	Service interface {
		Create(ctx context.Context, email string) (Member, error)
		QueryAll(ctx context.Context) ([]Member, error)
		GetByEmail(ctx context.Context, email string) (Member, error)
		Subscribe(ctx context.Context, email string, groups []string) (Member, error)
		Unsubscribe(ctx context.Context, email string, groups []string) (Member, error)
		PayDues(ctx context.Context, email string) (Member, error)
		Reset(ctx context.Context) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, email string) (Member, error) {
	now := time.Now().UTC()
	m := Member{
		Email:     core.CleanString(email, true /* lower */),
		Groups:    []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateMember(ctx, m)
}

func (svc *service) QueryAll(ctx context.Context) ([]Member, error) {
	return svc.repo.QueryAllMembers(ctx)
}

func (svc *service) GetByEmail(ctx context.Context, email string) (Member, error) {
	return svc.repo.GetMemberByEmail(ctx, core.CleanString(email, true /* lower */))
}

// Subscribe appends groups to the member's subscriptions. Groups are kept
// in the order given and are not deduplicated here.
func (svc *service) Subscribe(ctx context.Context, email string, groups []string) (Member, error) {
	m, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return Member{}, err
	}
	m.Groups = append(m.Groups, groups...)
	m.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, m)
}

func (svc *service) Unsubscribe(ctx context.Context, email string, groups []string) (Member, error) {
	m, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return Member{}, err
	}

	drop := make(map[string]bool, len(groups))
	for _, g := range groups {
		drop[g] = true
	}
	kept := make([]string, 0, len(m.Groups))
	for _, g := range m.Groups {
		if !drop[g] {
			kept = append(kept, g)
		}
	}
	m.Groups = kept
	m.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, m)
}

func (svc *service) PayDues(ctx context.Context, email string) (Member, error) {
	m, err := svc.GetByEmail(ctx, email)
	if err != nil {
		return Member{}, err
	}
	m.HasPaidDues = true
	m.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, m)
}

func (svc *service) Reset(ctx context.Context) error {
	return svc.repo.ResetMembers(ctx)
}
