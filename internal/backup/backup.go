// Package backup snapshots every registered table into a SQLite file.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"github.com/craftmatrix/savetrack-api/internal/store"
)

// Snapshotter is implemented by stores that can serve every table from a
// single consistent read.
type Snapshotter interface {
	ReadSnapshot(ctx context.Context, fn func(store.Catalog) error) error
}

type Result struct {
	Path string
	Rows map[string]int
}

// Run writes a timestamped snapshot into dir.
func Run(ctx context.Context, src store.Catalog, dir string, now time.Time) (*Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating backup dir: %w", err)
	}
	name := "savetrack-" + now.UTC().Format("20060102T150405Z") + ".db"
	return Snapshot(ctx, src, filepath.Join(dir, name))
}

type dump struct {
	table   store.TableHandle
	columns []string
	rows    [][]any
}

// Snapshot copies all tables into a new SQLite database at path. Either every
// table lands in the file or no file is left behind.
func Snapshot(ctx context.Context, src store.Catalog, path string) (*Result, error) {
	var dumps []dump
	read := func(c store.Catalog) error {
		dumps = dumps[:0]
		for _, name := range c.TableNames() {
			t, err := c.Lookup(name)
			if err != nil {
				return err
			}
			rows, err := t.Dump(ctx)
			if err != nil {
				return fmt.Errorf("reading %s: %w", name, err)
			}
			dumps = append(dumps, dump{table: t, columns: t.Columns(), rows: rows})
		}
		return nil
	}
	var err error
	if snap, ok := src.(Snapshotter); ok {
		err = snap.ReadSnapshot(ctx, read)
	} else {
		err = read(src)
	}
	if err != nil {
		return nil, err
	}

	tmp := path + ".partial"
	_ = os.Remove(tmp)
	res, err := write(ctx, tmp, dumps)
	if err != nil {
		_ = os.Remove(tmp)
		return nil, err
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("finalizing backup: %w", err)
	}
	res.Path = path
	log.Info().Str("path", path).Int("tables", len(dumps)).Msg("backup written")
	return res, nil
}

func write(ctx context.Context, path string, dumps []dump) (*Result, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening backup file: %w", err)
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting backup transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	res := &Result{Rows: make(map[string]int, len(dumps))}
	for _, d := range dumps {
		name := d.table.Name()
		cols := make([]string, len(d.columns))
		marks := make([]string, len(d.columns))
		for i, c := range d.columns {
			cols[i] = quote(c)
			marks[i] = "?"
		}
		ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quote(name), strings.Join(cols, ", "))
		if _, err := tx.ExecContext(ctx, ddl); err != nil {
			return nil, fmt.Errorf("creating %s: %w", name, err)
		}
		stmt, err := tx.PrepareContext(ctx, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			quote(name), strings.Join(cols, ", "), strings.Join(marks, ", ")))
		if err != nil {
			return nil, fmt.Errorf("preparing %s: %w", name, err)
		}
		for _, row := range d.rows {
			if _, err := stmt.ExecContext(ctx, row...); err != nil {
				stmt.Close()
				return nil, fmt.Errorf("copying %s: %w", name, err)
			}
		}
		stmt.Close()
		res.Rows[name] = len(d.rows)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing backup: %w", err)
	}
	return res, nil
}

func quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}
