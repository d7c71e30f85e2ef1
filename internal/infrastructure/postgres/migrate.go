package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Formato de archivo: {version}_{name}.sql (ej: 0001_inventory.sql).
//
//go:embed migrations/*.sql
var migrationsFS embed.FS

var migrationFilePattern = regexp.MustCompile(`^(\d+)_(.+)\.sql$`)

// Migration una migración embebida.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// MigrationResult versiones aplicadas y omitidas en una corrida.
type MigrationResult struct {
	Applied []int
	Skipped []int
}

// ParseMigrations lee las migraciones embebidas ordenadas por versión.
func ParseMigrations() ([]Migration, error) {
	var list []Migration
	err := fs.WalkDir(migrationsFS, "migrations", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		m := migrationFilePattern.FindStringSubmatch(path.Base(p))
		if m == nil {
			return nil
		}
		version, _ := strconv.Atoi(m[1])
		content, err := migrationsFS.ReadFile(p)
		if err != nil {
			return fmt.Errorf("reading %s: %w", p, err)
		}
		list = append(list, Migration{Version: version, Name: m[2], SQL: string(content)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Version < list[j].Version })
	return list, nil
}

// Migrate aplica las migraciones pendientes, cada una en su propia transacción.
func Migrate(ctx context.Context, pool *pgxpool.Pool) (*MigrationResult, error) {
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version    INT PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}
	for rows.Next() {
		var v int
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read schema_migrations: %w", err)
	}

	migrations, err := ParseMigrations()
	if err != nil {
		return nil, fmt.Errorf("parsing migrations: %w", err)
	}

	res := &MigrationResult{}
	for _, m := range migrations {
		if applied[m.Version] {
			res.Skipped = append(res.Skipped, m.Version)
			continue
		}
		if err := applyMigration(ctx, pool, m); err != nil {
			return res, fmt.Errorf("applying migration %d_%s: %w", m.Version, m.Name, err)
		}
		res.Applied = append(res.Applied, m.Version)
	}
	return res, nil
}

func applyMigration(ctx context.Context, pool *pgxpool.Pool, m Migration) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, m.SQL); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
