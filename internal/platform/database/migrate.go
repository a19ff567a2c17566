package database

import (
	"context"
	"fmt"
	"io/fs"
	"sort"
)

// Migrate applies every .sql file in fsys in lexical order. It runs on
// every server start, so files must be idempotent (IF NOT EXISTS); there
// is no version tracking beyond filename ordering.
func (p *Pool) Migrate(ctx context.Context, fsys fs.FS) error {
	if p == nil || p.db == nil {
		return fmt.Errorf("database not configured")
	}

	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		stmt, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := p.db.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
	}
	return nil
}
