package identity

import (
	"context"
	"database/sql"
	"io/fs"
	"sort"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// OpenSQLiteDB opens an embedded SQLite database suitable for local
// deployments and tests. Use ":memory:" for a throwaway store; remember that
// an in-memory database needs MaxOpenConns(1) to stay on a single
// connection.
func OpenSQLiteDB(dsn string) (*bun.DB, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to open sqlite database")
	}

	if dsn == ":memory:" {
		sqldb.SetMaxOpenConns(1)
	}

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// ApplyMigrations executes the embedded schema migrations in filename order.
// Statements inside a migration file are separated by --bun:split markers.
func ApplyMigrations(ctx context.Context, db *bun.DB) error {
	var files []string
	err := fs.WalkDir(migrationsFS, "data/sql/migrations", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, ".up.sql") {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read embedded migrations")
	}

	sort.Strings(files)

	for _, file := range files {
		raw, err := migrationsFS.ReadFile(file)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to read migration").
				WithMetadata(map[string]any{"file": file})
		}

		for _, stmt := range strings.Split(string(raw), "--bun:split") {
			stmt = strings.TrimSpace(stmt)
			if stmt == "" {
				continue
			}
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to apply migration").
					WithMetadata(map[string]any{"file": file})
			}
		}
	}

	return nil
}
