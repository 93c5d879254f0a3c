package inmemdb

import (
	"sync"

	"github.com/ttuacm/sdc-backend/core/member"
	"github.com/ttuacm/sdc-backend/core/student"
	"github.com/ttuacm/sdc-backend/core/team"
)

// DB is an in-memory database used in tests and local development.
type DB struct {
	mutex    sync.RWMutex
	students map[string]*student.Student // by ID
	members  map[string]*member.Member   // by email
	teams    map[string]*team.Team       // by name
}

func Open() *DB {
	return &DB{
		students: make(map[string]*student.Student),
		members:  make(map[string]*member.Member),
		teams:    make(map[string]*team.Team),
	}
}
