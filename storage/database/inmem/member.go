package inmemdb

import (
	"context"

	"github.com/ttuacm/sdc-backend/core/member"
)

type memberRepository struct {
	db *DB
}

var _ member.Repository = (*memberRepository)(nil)

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db}
}

func (r *memberRepository) CreateMember(_ context.Context, m member.Member) (member.Member, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.members[m.Email]; ok {
		return member.Member{}, member.ErrEmailExists
	}
	r.db.members[m.Email] = &m
	return m, nil
}

func (r *memberRepository) QueryAllMembers(_ context.Context) ([]member.Member, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	res := make([]member.Member, 0, len(r.db.members))
	for _, m := range r.db.members {
		res = append(res, *m)
	}
	return res, nil
}

func (r *memberRepository) GetMemberByEmail(_ context.Context, email string) (member.Member, error) {
	r.db.mutex.RLock()
	defer r.db.mutex.RUnlock()

	if m, ok := r.db.members[email]; ok {
		return *m, nil
	}
	return member.Member{}, member.ErrNotFound
}

func (r *memberRepository) UpdateMember(_ context.Context, m member.Member) (member.Member, error) {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	if _, ok := r.db.members[m.Email]; !ok {
		return member.Member{}, member.ErrNotFound
	}
	r.db.members[m.Email] = &m
	return m, nil
}

func (r *memberRepository) ResetMembers(_ context.Context) error {
	r.db.mutex.Lock()
	defer r.db.mutex.Unlock()

	r.db.members = make(map[string]*member.Member)
	return nil
}
