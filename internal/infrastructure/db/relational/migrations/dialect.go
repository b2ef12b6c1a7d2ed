package migrations

import (
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
)

func isSQLite(db *bun.DB) bool {
	return db.Dialect().Name() == dialect.SQLite
}
