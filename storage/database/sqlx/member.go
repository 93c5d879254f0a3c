package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ttuacm/sdc-backend/core"
	"github.com/ttuacm/sdc-backend/core/member"
)

type memberRow struct {
	Email       string         `db:"email"`
	Groups      pq.StringArray `db:"groups"`
	HasPaidDues bool           `db:"has_paid_dues"`
	CreatedAt   null.Time      `db:"created_at"`
	UpdatedAt   null.Time      `db:"updated_at"`
}

func (r memberRow) toDomain() member.Member {
	return member.Member{
		Email:       r.Email,
		Groups:      []string(r.Groups),
		HasPaidDues: r.HasPaidDues,
		CreatedAt:   r.CreatedAt.Time,
		UpdatedAt:   r.UpdatedAt.Time,
	}
}

func toMemberRow(m member.Member) memberRow {
	return memberRow{
		Email:       m.Email,
		Groups:      pq.StringArray(m.Groups),
		HasPaidDues: m.HasPaidDues,
		CreatedAt:   null.NewTime(m.CreatedAt.UTC(), !m.CreatedAt.IsZero()),
		UpdatedAt:   null.NewTime(m.UpdatedAt.UTC(), !m.UpdatedAt.IsZero()),
	}
}

// defaultOrdering is applied to all listing queries.
var defaultOrdering = core.DBOrdering{Field: "created_at", Ascending: true}

type memberRepository struct {
	db *sqlx.DB
}

var _ member.Repository = (*memberRepository)(nil)

func NewMemberRepository(db *sqlx.DB) member.Repository {
	return &memberRepository{db: db}
}

func (repo *memberRepository) CreateMember(ctx context.Context, m member.Member) (member.Member, error) {
	row := toMemberRow(m)
	q := `
		INSERT INTO member (email, groups, has_paid_dues, created_at, updated_at)
		VALUES (:email, :groups, :has_paid_dues, :created_at, :updated_at)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return member.Member{}, member.ErrEmailExists
		}
		return member.Member{}, wrapErr(err, "inserting member")
	}
	return m, nil
}

func (repo *memberRepository) QueryAllMembers(ctx context.Context) ([]member.Member, error) {
	var rows []memberRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM member ORDER BY `+defaultOrdering.String()); err != nil {
		return nil, wrapErr(err, "querying members")
	}
	members := make([]member.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toDomain())
	}
	return members, nil
}

func (repo *memberRepository) GetMemberByEmail(ctx context.Context, email string) (member.Member, error) {
	var row memberRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM member WHERE email = $1`, email); err != nil {
		if err == sql.ErrNoRows {
			return member.Member{}, member.ErrNotFound
		}
		return member.Member{}, wrapErr(err, "getting member by email")
	}
	return row.toDomain(), nil
}

func (repo *memberRepository) UpdateMember(ctx context.Context, m member.Member) (member.Member, error) {
	row := toMemberRow(m)
	q := `
		UPDATE member SET
			groups = :groups,
			has_paid_dues = :has_paid_dues,
			updated_at = :updated_at
		WHERE email = :email`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return member.Member{}, wrapErr(err, "updating member")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return member.Member{}, member.ErrNotFound
	}
	return m, nil
}

func (repo *memberRepository) ResetMembers(ctx context.Context) error {
	if _, err := repo.db.ExecContext(ctx, `DELETE FROM member`); err != nil {
		return wrapErr(err, "resetting members")
	}
	return nil
}
