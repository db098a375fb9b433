package database

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/craftmatrix/savetrack-api/internal/apperr"
	"github.com/craftmatrix/savetrack-api/internal/store"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Table is typed CRUD over one Postgres table described by a store.Schema.
type Table[T any, K comparable] struct {
	db       DBTX
	schema   store.Schema[T, K]
	selectQ  string
	ownerCol string
}

func NewTable[T any, K comparable](db DBTX, s store.Schema[T, K]) *Table[T, K] {
	owner := "id"
	if slices.Contains(s.Columns, "user_id") {
		owner = "user_id"
	}
	return &Table[T, K]{
		db:       db,
		schema:   s,
		selectQ:  fmt.Sprintf("SELECT %s FROM %s", strings.Join(s.Columns, ", "), s.Table),
		ownerCol: owner,
	}
}

func (t *Table[T, K]) Name() string      { return t.schema.Name }
func (t *Table[T, K]) Columns() []string { return t.schema.Columns }

func (t *Table[T, K]) query(ctx context.Context, sql string, args ...any) ([]T, error) {
	rows, err := t.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.schema.Table, err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[T])
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", t.schema.Table, err)
	}
	return items, nil
}

func (t *Table[T, K]) GetAll(ctx context.Context) ([]T, error) {
	return t.query(ctx, t.selectQ+" ORDER BY created_at")
}

func (t *Table[T, K]) ListByUser(ctx context.Context, userID uuid.UUID) ([]T, error) {
	return t.query(ctx, t.selectQ+" WHERE "+t.ownerCol+" = $1 ORDER BY created_at", userID)
}

// Where runs the base select with an extra condition and ordering.
func (t *Table[T, K]) Where(ctx context.Context, cond, order string, args ...any) ([]T, error) {
	q := t.selectQ + " WHERE " + cond
	if order != "" {
		q += " ORDER BY " + order
	}
	return t.query(ctx, q, args...)
}

func (t *Table[T, K]) Get(ctx context.Context, id K) (*T, error) {
	rows, err := t.db.Query(ctx, t.selectQ+" WHERE id = $1", id)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", t.schema.Table, err)
	}
	item, err := pgx.CollectExactlyOneRow(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(t.schema.Table + " record")
		}
		return nil, fmt.Errorf("getting %s %v: %w", t.schema.Table, id, err)
	}
	return item, nil
}

func (t *Table[T, K]) Insert(ctx context.Context, v *T) error {
	cols, vals := t.schema.Columns, t.schema.Values(v)
	if t.schema.Serial {
		cols, vals = cols[1:], vals[1:]
	}
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", t.schema.Table, strings.Join(cols, ", "), placeholders(1, len(cols)))
	if !t.schema.Serial {
		if _, err := t.db.Exec(ctx, q, vals...); err != nil {
			return t.writeErr(opInsert, err)
		}
		return nil
	}

	var id K
	if err := t.db.QueryRow(ctx, q+" RETURNING id", vals...).Scan(&id); err != nil {
		return t.writeErr(opInsert, err)
	}
	t.schema.SetKey(v, id)
	return nil
}

func (t *Table[T, K]) Update(ctx context.Context, v *T) error {
	cols, vals := t.schema.Columns[1:], t.schema.Values(v)
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", c, i+2)
	}
	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $1", t.schema.Table, strings.Join(sets, ", "))
	tag, err := t.db.Exec(ctx, q, vals...)
	if err != nil {
		return t.writeErr(opUpdate, err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(t.schema.Table + " record")
	}
	return nil
}

func (t *Table[T, K]) Delete(ctx context.Context, id K) (bool, error) {
	tag, err := t.db.Exec(ctx, "DELETE FROM "+t.schema.Table+" WHERE id = $1", id)
	if err != nil {
		return false, t.writeErr(opDelete, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (t *Table[T, K]) Dump(ctx context.Context) ([][]any, error) {
	items, err := t.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([][]any, len(items))
	for i := range items {
		out[i] = t.schema.Values(&items[i])
	}
	return out, nil
}

const (
	opInsert = "inserting into"
	opUpdate = "updating"
	opDelete = "deleting from"
)

// writeErr turns constraint violations into conflicts the client can act on.
// A foreign key violation on delete means a child row still points here; on
// insert or update it means the referenced parent is gone.
func (t *Table[T, K]) writeErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503":
			msg := t.schema.Name + " record references a missing row"
			if op == opDelete {
				msg = t.schema.Name + " record is still referenced"
			}
			return &apperr.Error{Kind: apperr.KindConflict, Message: msg, Err: err}
		case "23505":
			return &apperr.Error{Kind: apperr.KindConflict, Message: t.schema.Name + " record already exists", Err: err}
		}
	}
	return fmt.Errorf("%s %s: %w", op, t.schema.Table, err)
}

func placeholders(from, n int) string {
	p := make([]string, n)
	for i := range p {
		p[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(p, ", ")
}
