package database

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// NamedGet binds :name parameters from arg and scans one row into dest.
func NamedGet(ctx context.Context, q Querier, dest interface{}, query string, arg interface{}) error {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return q.GetContext(ctx, dest, q.Rebind(bound), args...)
}

// NamedSelect binds :name parameters from arg and scans all rows into dest.
func NamedSelect(ctx context.Context, q Querier, dest interface{}, query string, arg interface{}) error {
	bound, args, err := sqlx.Named(query, arg)
	if err != nil {
		return err
	}
	return q.SelectContext(ctx, dest, q.Rebind(bound), args...)
}
