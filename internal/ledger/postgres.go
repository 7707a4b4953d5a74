package ledger

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/poledger/invoice-match/internal/common"
)

// PGConfig configures the Postgres ledger source.
type PGConfig struct {
	DSN         string
	Query       string // must select a single text column of invoice numbers
	DialTimeout time.Duration
}

// LoadPostgres loads the invoice-number column from a Postgres purchase-order
// table. The pool exists only for the duration of the load; the ledger itself
// is immutable afterwards.
func LoadPostgres(ctx context.Context, cfg PGConfig) (*Ledger, error) {
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, common.NewAppError(common.CodeLedgerLoad, "parse dsn", err)
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "invoice-match"

	dialCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		dialCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		return nil, common.NewAppError(common.CodeLedgerLoad, "connect", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, cfg.Query)
	if err != nil {
		return nil, common.NewAppError(common.CodeLedgerLoad, "query purchase orders", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, common.NewAppError(common.CodeLedgerLoad, "scan invoice number", err)
		}
		numbers = append(numbers, n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewAppError(common.CodeLedgerLoad, "read rows", err)
	}
	return New(numbers), nil
}
