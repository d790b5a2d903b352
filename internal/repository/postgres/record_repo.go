package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"recordpager/internal/domain"
)

type recordRepository struct {
	DB *sql.DB
}

// NewRecordRepository returns a domain.RecordRepository implemented with Postgres.
// Records are ordered by position within their collection.
func NewRecordRepository(db *sql.DB) domain.RecordRepository {
	return &recordRepository{DB: db}
}

// Append inserts records in one transaction. The collection row is locked
// FOR UPDATE before the next position is read, so concurrent appends to the
// same collection queue behind each other instead of colliding on
// UNIQUE (collection_id, position).
func (r *recordRepository) Append(ctx context.Context, collectionID string, records []*domain.Record) error {
	if len(records) == 0 {
		return nil
	}
	return withTx(ctx, r.DB, func(tx *sql.Tx) error {
		var locked string
		err := tx.QueryRowContext(ctx, `SELECT id FROM collections WHERE id = $1 FOR UPDATE`, collectionID).Scan(&locked)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrNotFound
			}
			return fmt.Errorf("lock collection: %w", err)
		}

		var next int
		err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(position) + 1, 0) FROM records WHERE collection_id = $1`, collectionID).Scan(&next)
		if err != nil {
			return fmt.Errorf("next position: %w", err)
		}

		query := `
			INSERT INTO records (collection_id, position, title, body, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`
		for i, rec := range records {
			var id string
			if err := tx.QueryRowContext(ctx, query, collectionID, next+i, rec.Title, rec.Body, rec.CreatedAt).Scan(&id); err != nil {
				return fmt.Errorf("insert record %d: %w", i, err)
			}
			rec.ID = id
			rec.CollectionID = collectionID
			rec.Position = next + i
		}
		return nil
	})
}

// withTx runs fn inside a transaction, committing on nil and rolling back otherwise.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

func (r *recordRepository) Count(ctx context.Context, collectionID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM records WHERE collection_id = $1`, collectionID).Scan(&n)
	return n, err
}

func (r *recordRepository) ListRange(ctx context.Context, collectionID string, begin, end int) ([]*domain.Record, error) {
	offset, limit, ok := domain.RangeLimit(begin, end)
	if !ok {
		return []*domain.Record{}, nil
	}
	query := `
		SELECT id, collection_id, position, title, body, created_at
		FROM records
		WHERE collection_id = $1
		ORDER BY position
		OFFSET $2 LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, query, collectionID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*domain.Record{}
	for rows.Next() {
		rec := &domain.Record{}
		if err := rows.Scan(&rec.ID, &rec.CollectionID, &rec.Position, &rec.Title, &rec.Body, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
