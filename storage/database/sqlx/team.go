package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ttuacm/sdc-backend/core/team"
)

type teamRow struct {
	ID        string         `db:"id"`
	Name      string         `db:"name"`
	Members   pq.StringArray `db:"members"`
	CreatedAt null.Time      `db:"created_at"`
	UpdatedAt null.Time      `db:"updated_at"`
}

func (r teamRow) toDomain() team.Team {
	return team.Team{
		ID:        r.ID,
		Name:      r.Name,
		Members:   []string(r.Members),
		CreatedAt: r.CreatedAt.Time,
		UpdatedAt: r.UpdatedAt.Time,
	}
}

func toTeamRow(t team.Team) teamRow {
	return teamRow{
		ID:        t.ID,
		Name:      t.Name,
		Members:   pq.StringArray(t.Members),
		CreatedAt: null.NewTime(t.CreatedAt.UTC(), !t.CreatedAt.IsZero()),
		UpdatedAt: null.NewTime(t.UpdatedAt.UTC(), !t.UpdatedAt.IsZero()),
	}
}

type teamRepository struct {
	db *sqlx.DB
}

var _ team.Repository = (*teamRepository)(nil)

func NewTeamRepository(db *sqlx.DB) team.Repository {
	return &teamRepository{db: db}
}

func (repo *teamRepository) CreateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	t.ID = uuid.New().String()
	row := toTeamRow(t)
	q := `
		INSERT INTO team (id, name, members, created_at, updated_at)
		VALUES (:id, :name, :members, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return team.Team{}, team.ErrNameExists
		}
		return team.Team{}, wrapErr(err, "inserting team")
	}
	return t, nil
}

func (repo *teamRepository) QueryAllTeams(ctx context.Context) ([]team.Team, error) {
	var rows []teamRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM team ORDER BY `+defaultOrdering.String()); err != nil {
		return nil, wrapErr(err, "querying teams")
	}
	teams := make([]team.Team, 0, len(rows))
	for _, row := range rows {
		teams = append(teams, row.toDomain())
	}
	return teams, nil
}

func (repo *teamRepository) GetTeamByName(ctx context.Context, name string) (team.Team, error) {
	var row teamRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM team WHERE name = $1`, name); err != nil {
		if err == sql.ErrNoRows {
			return team.Team{}, team.ErrNotFound
		}
		return team.Team{}, wrapErr(err, "getting team by name")
	}
	return row.toDomain(), nil
}

func (repo *teamRepository) UpdateTeam(ctx context.Context, t team.Team) (team.Team, error) {
	row := toTeamRow(t)
	q := `
		UPDATE team SET
			members = :members,
			updated_at = :updated_at
		WHERE name = :name`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return team.Team{}, wrapErr(err, "updating team")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return team.Team{}, team.ErrNotFound
	}
	return t, nil
}

func (repo *teamRepository) DeleteTeamsByName(ctx context.Context, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM team WHERE name IN (?)`, names)
	if err != nil {
		return wrapErr(err, "deleting teams")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return wrapErr(err, "deleting teams")
	}
	return nil
}
