package inmemdb

import (
	"context"

	"github.com/google/uuid"

	"github.com/ttuacm/sdc-backend/core/student"
)

type studentRepository struct {
	db *DB
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db}
}

func (r *studentRepository) query() []student.Student {
	res := make([]student.Student, 0, len(r.db.students))
	for _, s := range r.db.students {
		res = append(res, *s)
	}
	return res
}

func (r *studentRepository) CheckEmailUniqueness(_ context.Context, email string, excluded ...student.Student) error {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	skip := make(map[string]bool, len(excluded))
	for _, s := range excluded {
		skip[s.ID] = true
	}
	for _, s := range r.query() {
		if s.Email == email && !skip[s.ID] {
			return student.ErrEmailExists
		}
	}
	return nil
}

func (r *studentRepository) CreateStudent(_ context.Context, s student.Student) (student.Student, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, existing := range r.db.students {
		if existing.Email == s.Email {
			return student.Student{}, student.ErrEmailExists
		}
	}
	s.ID = uuid.New().String()
	r.db.students[s.ID] = &s
	return s, nil
}

func (r *studentRepository) QueryAllStudents(_ context.Context) ([]student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()
	return r.query(), nil
}

func (r *studentRepository) GetStudentByID(_ context.Context, id string) (student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if s, ok := r.db.students[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (r *studentRepository) GetStudentByEmail(_ context.Context, email string) (student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.query() {
		if s.Email == email {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (r *studentRepository) GetStudentByConfirmToken(_ context.Context, token string) (student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.query() {
		if s.ConfirmEmailToken != "" && s.ConfirmEmailToken == token {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (r *studentRepository) GetStudentByResetToken(_ context.Context, token string) (student.Student, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	for _, s := range r.query() {
		if s.ResetPasswordToken != "" && s.ResetPasswordToken == token {
			return s, nil
		}
	}
	return student.Student{}, student.ErrNotFound
}

func (r *studentRepository) UpdateStudent(_ context.Context, s student.Student) (student.Student, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.students[s.ID]; !ok {
		return student.Student{}, student.ErrNotFound
	}
	r.db.students[s.ID] = &s
	return s, nil
}

func (r *studentRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	for _, id := range ids {
		delete(r.db.students, id)
	}
	return nil
}
