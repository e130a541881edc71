package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/evraktakip/evraktakip/internal/domain"
)

// HistoryRepository implements usecase.HistoryRepository.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a new HistoryRepository.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepository {
	return &HistoryRepository{pool: pool}
}

// Create appends a status history entry.
func (r *HistoryRepository) Create(ctx context.Context, entry *domain.StatusEntry) error {
	query := `
		INSERT INTO status_history (id, document_id, from_status, to_status, note, actor_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.DocumentID,
		entry.FromStatus,
		entry.ToStatus,
		entry.Note,
		entry.ActorID,
		entry.CreatedAt,
	)

	return err
}

// ListByDocument returns a document's history, newest first.
func (r *HistoryRepository) ListByDocument(ctx context.Context, documentID string) ([]*domain.StatusEntry, error) {
	query := `
		SELECT id, document_id, from_status, to_status, note, actor_id, created_at
		FROM status_history
		WHERE document_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.StatusEntry
	for rows.Next() {
		var e domain.StatusEntry
		err := rows.Scan(
			&e.ID,
			&e.DocumentID,
			&e.FromStatus,
			&e.ToStatus,
			&e.Note,
			&e.ActorID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}

	return entries, rows.Err()
}

// DeleteByDocument removes all history entries of a document.
func (r *HistoryRepository) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM status_history WHERE document_id = $1`, documentID)
	return err
}
