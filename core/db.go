package core

import "context"

type (
	// ExecResult is the outcome of a write statement.
	ExecResult struct {
		LastInsertID int64
		RowsAffected int64
	}

	// DBExecutor runs parameterized statements, either directly or inside a transaction.
	DBExecutor interface {
		// Exec runs a write statement.
		Exec(ctx context.Context, query string, args ...interface{}) (ExecResult, error)
		// Get scans a single row into dest; returns sql.ErrNoRows when nothing matches.
		Get(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		// Select scans all rows into the slice pointed to by dest.
		Select(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}

	DB interface {
		DBExecutor

		// Transact runs fn in a transaction: committed when fn returns nil, rolled back otherwise.
		Transact(ctx context.Context, fn func(tx DBExecutor) error) error
		Ping(ctx context.Context) error
		Close() error
	}
)
