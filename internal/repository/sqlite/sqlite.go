package sqlite

import (
	"context"
	"log/slog"
	"time"

	"github.com/rialo-labs/builders-arena/internal/db"
	"github.com/rialo-labs/builders-arena/pkg/repository"
)

// SQLiteRepo implements repository.Store using the internal DB wrapper.
type SQLiteRepo struct {
	// conn starts transactions; nil when this repo is already bound to one.
	conn   *db.DB
	q      db.Querier
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.Store = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteRepo{conn: conn, q: conn, logger: logger}
}

// InTx runs fn against a transaction-bound copy of the repo. Reentrant calls
// reuse the open transaction.
func (r *SQLiteRepo) InTx(ctx context.Context, fn func(repository.Store) error) error {
	if r.conn == nil {
		return fn(r)
	}
	return r.conn.InTx(ctx, func(q db.Querier) error {
		return fn(&SQLiteRepo{q: q, logger: r.logger})
	})
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}
