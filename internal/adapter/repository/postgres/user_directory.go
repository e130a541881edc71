package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UserDirectory implements usecase.ActorDirectory against the local users
// table, which mirrors the external identity provider.
type UserDirectory struct {
	pool *pgxpool.Pool
}

// NewUserDirectory creates a new UserDirectory.
func NewUserDirectory(pool *pgxpool.Pool) *UserDirectory {
	return &UserDirectory{pool: pool}
}

// GetNames resolves many actor ids in a single query. Ids without a matching
// user are absent from the result.
func (d *UserDirectory) GetNames(ctx context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	rows, err := d.pool.Query(ctx,
		`SELECT id, display_name FROM users WHERE id = ANY($1)`, ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}

	return names, rows.Err()
}
