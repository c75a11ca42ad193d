// Package sqlxrepos implements the domain repositories on top of the SQLite connection manager.
package sqlxrepos

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
)

// trapNoRowsErr turns sql.ErrNoRows into notFound and wraps any other error with msg.
func trapNoRowsErr(err error, notFound error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	return errors.Wrap(err, msg)
}

// filters collects optional AND-joined conditions of a list query.
type filters struct {
	conds []string
	args  []interface{}
}

func (f *filters) add(cond string, arg interface{}) {
	f.conds = append(f.conds, cond)
	f.args = append(f.args, arg)
}

func (f filters) where() string {
	if len(f.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(f.conds, " AND ")
}
