package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/ttuacm/sdc-backend/core/team"
)

type teamRepository struct {
	db *DB
}

var _ team.Repository = (*teamRepository)(nil)

func NewTeamRepository(db *DB) team.Repository {
	return &teamRepository{db: db}
}

func (r *teamRepository) CreateTeam(_ context.Context, t team.Team) (team.Team, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.teams[t.Name]; ok {
		return team.Team{}, team.ErrNameExists
	}
	t.ID = uuid.New().String()
	r.db.teams[t.Name] = &t
	return t, nil
}

func (r *teamRepository) QueryAllTeams(_ context.Context) ([]team.Team, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]team.Team, 0, len(r.db.teams))
	for _, t := range r.db.teams {
		res = append(res, *t)
	}
	return res, nil
}

func (r *teamRepository) GetTeamByName(_ context.Context, name string) (team.Team, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if t, ok := r.db.teams[name]; ok {
		return *t, nil
	}
	return team.Team{}, team.ErrNotFound
}

func (r *teamRepository) UpdateTeam(_ context.Context, t team.Team) (team.Team, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.teams[t.Name]; !ok {
		return team.Team{}, team.ErrNotFound
	}
	r.db.teams[t.Name] = &t
	return t, nil
}

func (r *teamRepository) DeleteTeamsByName(_ context.Context, names ...string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, name := range names {
		delete(r.db.teams, name)
	}
	return nil
}
