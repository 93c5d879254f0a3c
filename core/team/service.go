package team

import (
	"context"
	"errors"
	"time"

	"github.com/ttuacm/sdc-backend/core"
)

var (
	// errors
	ErrNotFound   = errors.New("team not found")
	ErrNameExists = errors.New("a team with this name already exists")

	errAlreadyOnRoster = "already on the roster"
)

type (
	Repository interface {
		CreateTeam(ctx context.Context, t Team) (Team, error)
		QueryAllTeams(ctx context.Context) ([]Team, error)
		GetTeamByName(ctx context.Context, name string) (Team, error)
		// UpdateTeam replaces all mutable fields of the stored record.
		UpdateTeam(ctx context.Context, t Team) (Team, error)
		DeleteTeamsByName(ctx context.Context, names ...string) error
	}

	Service interface {
		// Create stores a new empty team under the formatted group name.
		Create(ctx context.Context, groupName string) (Team, error)
		QueryAll(ctx context.Context) ([]Team, error)
		GetByName(ctx context.Context, name string) (Team, error)
		AddMember(ctx context.Context, name, email string) (Team, error)
		RemoveMember(ctx context.Context, name, email string) (Team, error)
		Delete(ctx context.Context, names ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, groupName string) (Team, error) {
	now := time.Now().UTC()
	t := Team{
		Name:      FormatGroupName(core.CleanString(groupName)),
		Members:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateTeam(ctx, t)
}

func (svc *service) QueryAll(ctx context.Context) ([]Team, error) {
	return svc.repo.QueryAllTeams(ctx)
}

func (svc *service) GetByName(ctx context.Context, name string) (Team, error) {
	return svc.repo.GetTeamByName(ctx, core.CleanString(name))
}

// AddMember appends the email to the team roster, preserving order.
func (svc *service) AddMember(ctx context.Context, name, email string) (Team, error) {
	t, err := svc.GetByName(ctx, name)
	if err != nil {
		return Team{}, err
	}

	email = core.CleanString(email, true /* lower */)
	for _, m := range t.Members {
		if m == email {
			return Team{}, core.NewValidationError(nil, core.FieldError{Field: "email", Error: errAlreadyOnRoster})
		}
	}
	t.Members = append(t.Members, email)
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeam(ctx, t)
}

func (svc *service) RemoveMember(ctx context.Context, name, email string) (Team, error) {
	t, err := svc.GetByName(ctx, name)
	if err != nil {
		return Team{}, err
	}

	email = core.CleanString(email, true /* lower */)
	kept := make([]string, 0, len(t.Members))
	for _, m := range t.Members {
		if m != email {
			kept = append(kept, m)
		}
	}
	t.Members = kept
	t.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateTeam(ctx, t)
}

func (svc *service) Delete(ctx context.Context, names ...string) error {
	return svc.repo.DeleteTeamsByName(ctx, names...)
}
