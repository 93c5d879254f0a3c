package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/ttuacm/sdc-backend/core/student"
)

type studentRow struct {
	ID                 string      `db:"id"`
	FirstName          string      `db:"first_name"`
	LastName           string      `db:"last_name"`
	Email              string      `db:"email"`
	Classification     string      `db:"classification"`
	Verified           bool        `db:"verified"`
	HasPaidDues        bool        `db:"has_paid_dues"`
	ConfirmEmailToken  null.String `db:"confirm_email_token"`
	ResetPasswordToken null.String `db:"reset_password_token"`
	ResetTokenExpires  null.Time   `db:"reset_token_expires"`
	PasswordHash       []byte      `db:"password_hash"`
	CreatedAt          null.Time   `db:"created_at"`
	UpdatedAt          null.Time   `db:"updated_at"`
	LastLogin          null.Time   `db:"last_login"`
}

func (r studentRow) toDomain() student.Student {
	return student.Student{
		ID:                 r.ID,
		FirstName:          r.FirstName,
		LastName:           r.LastName,
		Email:              r.Email,
		Classification:     r.Classification,
		Verified:           r.Verified,
		HasPaidDues:        r.HasPaidDues,
		ConfirmEmailToken:  r.ConfirmEmailToken.String,
		ResetPasswordToken: r.ResetPasswordToken.String,
		ResetTokenExpires:  r.ResetTokenExpires.Time,
		PasswordHash:       r.PasswordHash,
		CreatedAt:          r.CreatedAt.Time,
		UpdatedAt:          r.UpdatedAt.Time,
		LastLogin:          r.LastLogin.Time,
	}
}

func toStudentRow(s student.Student) studentRow {
	return studentRow{
		ID:                 s.ID,
		FirstName:          s.FirstName,
		LastName:           s.LastName,
		Email:              s.Email,
		Classification:     s.Classification,
		Verified:           s.Verified,
		HasPaidDues:        s.HasPaidDues,
		ConfirmEmailToken:  null.NewString(s.ConfirmEmailToken, s.ConfirmEmailToken != ""),
		ResetPasswordToken: null.NewString(s.ResetPasswordToken, s.ResetPasswordToken != ""),
		ResetTokenExpires:  null.NewTime(s.ResetTokenExpires.UTC(), !s.ResetTokenExpires.IsZero()),
		PasswordHash:       s.PasswordHash,
		CreatedAt:          null.NewTime(s.CreatedAt.UTC(), !s.CreatedAt.IsZero()),
		UpdatedAt:          null.NewTime(s.UpdatedAt.UTC(), !s.UpdatedAt.IsZero()),
		LastLogin:          null.NewTime(s.LastLogin.UTC(), !s.LastLogin.IsZero()),
	}
}

type studentRepository struct {
	db *sqlx.DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *sqlx.DB) student.Repository {
	return &studentRepository{db: db}
}

// trapNoRowsErr maps psql "no rows" err to student.ErrNotFound
func trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return student.ErrNotFound
	}
	return wrapErr(err, msg)
}

func (repo *studentRepository) getBy(ctx context.Context, column, val string) (student.Student, error) {
	var row studentRow
	q := `SELECT * FROM student WHERE ` + column + ` = $1`
	if err := repo.db.GetContext(ctx, &row, q, val); err != nil {
		return student.Student{}, trapNoRowsErr(err, "getting student by "+column)
	}
	return row.toDomain(), nil
}

func (repo *studentRepository) CheckEmailUniqueness(ctx context.Context, email string, excluded ...student.Student) error {
	q := `SELECT EXISTS (SELECT 1 FROM student WHERE email = ?`
	args := []interface{}{email}
	if len(excluded) > 0 {
		ids := make([]string, 0, len(excluded))
		for _, s := range excluded {
			ids = append(ids, s.ID)
		}
		in, inArgs, err := sqlx.In(` AND id NOT IN (?)`, ids)
		if err != nil {
			return errors.Wrap(err, "checking student uniqueness")
		}
		q += in
		args = append(args, inArgs...)
	}
	q += `)`

	var exists bool
	if err := repo.db.GetContext(ctx, &exists, repo.db.Rebind(q), args...); err != nil {
		return wrapErr(err, "checking student uniqueness")
	}
	if exists {
		return student.ErrEmailExists
	}
	return nil
}

func (repo *studentRepository) CreateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	s.ID = uuid.New().String()
	row := toStudentRow(s)
	q := `
		INSERT INTO student (
			id, first_name, last_name, email, classification, verified, has_paid_dues,
			confirm_email_token, reset_password_token, reset_token_expires,
			password_hash, created_at, updated_at, last_login
		) VALUES (
			:id, :first_name, :last_name, :email, :classification, :verified, :has_paid_dues,
			:confirm_email_token, :reset_password_token, :reset_token_expires,
			:password_hash, :created_at, :updated_at, :last_login
		)`
	if _, err := repo.db.NamedExecContext(ctx, q, row); err != nil {
		if pqErr, ok := errors.Cause(err).(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return student.Student{}, student.ErrEmailExists
		}
		return student.Student{}, wrapErr(err, "inserting student")
	}
	return s, nil
}

func (repo *studentRepository) QueryAllStudents(ctx context.Context) ([]student.Student, error) {
	var rows []studentRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM student ORDER BY `+defaultOrdering.String()); err != nil {
		return nil, wrapErr(err, "querying students")
	}
	students := make([]student.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, row.toDomain())
	}
	return students, nil
}

func (repo *studentRepository) GetStudentByID(ctx context.Context, id string) (student.Student, error) {
	return repo.getBy(ctx, "id", id)
}

func (repo *studentRepository) GetStudentByEmail(ctx context.Context, email string) (student.Student, error) {
	return repo.getBy(ctx, "email", email)
}

func (repo *studentRepository) GetStudentByConfirmToken(ctx context.Context, token string) (student.Student, error) {
	return repo.getBy(ctx, "confirm_email_token", token)
}

func (repo *studentRepository) GetStudentByResetToken(ctx context.Context, token string) (student.Student, error) {
	return repo.getBy(ctx, "reset_password_token", token)
}

func (repo *studentRepository) UpdateStudent(ctx context.Context, s student.Student) (student.Student, error) {
	row := toStudentRow(s)
	q := `
		UPDATE student SET
			first_name = :first_name,
			last_name = :last_name,
			email = :email,
			classification = :classification,
			verified = :verified,
			has_paid_dues = :has_paid_dues,
			confirm_email_token = :confirm_email_token,
			reset_password_token = :reset_password_token,
			reset_token_expires = :reset_token_expires,
			password_hash = :password_hash,
			updated_at = :updated_at,
			last_login = :last_login
		WHERE id = :id`
	res, err := repo.db.NamedExecContext(ctx, q, row)
	if err != nil {
		return student.Student{}, wrapErr(err, "updating student")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return student.Student{}, student.ErrNotFound
	}
	return s, nil
}

func (repo *studentRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM student WHERE id IN (?)`, ids)
	if err != nil {
		return wrapErr(err, "deleting students")
	}
	if _, err = repo.db.ExecContext(ctx, repo.db.Rebind(q), args...); err != nil {
		return wrapErr(err, "deleting students")
	}
	return nil
}
