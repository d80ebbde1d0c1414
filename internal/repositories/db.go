package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrPracticeNotFound         = errors.New("practice not found")
	ErrPracticeExists           = errors.New("practice already exists for organization")
	ErrAssistantMappingNotFound = errors.New("assistant mapping not found")
	ErrAssistantMappingOwned    = errors.New("assistant mapping belongs to another organization")
)

// DBTX is the subset of pgxpool.Pool the repositories use. pgxmock pools
// satisfy it in tests.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}
