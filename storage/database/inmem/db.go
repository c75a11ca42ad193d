// Package inmemdb keeps accounts in memory, for tests that do not need SQLite.
package inmemdb

import (
	"sync"

	"github.com/trezcool/campus/core/user"
)

type (
	DB struct {
		user *userTable
	}

	userTable struct {
		table    map[int64]*user.User
		profiles int64 // last profile id handed out
		pkCount  int64
		mutex    sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		user: &userTable{table: make(map[int64]*user.User)},
	}
}
