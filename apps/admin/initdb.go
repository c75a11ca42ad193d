package main

import (
	"context"
	"fmt"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/storage/database"
)

// initDB opens the database, which creates whatever is missing, then seeds it when asked.
func (cli *commandLine) initDB(seed bool) error {
	ctx := context.Background()
	if err := cli.db.Ping(ctx); err != nil {
		return err
	}
	if seed {
		if err := cli.db.Transact(ctx, func(tx core.DBExecutor) error {
			return database.Seed(ctx, tx)
		}); err != nil {
			return err
		}
	}
	fmt.Println("database ready")
	return nil
}
