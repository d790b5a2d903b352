package postgres

import (
	"context"
	"database/sql"
	"errors"

	"recordpager/internal/domain"
)

type collectionRepository struct {
	DB *sql.DB
}

// NewCollectionRepository returns a domain.CollectionRepository implemented with Postgres.
func NewCollectionRepository(db *sql.DB) domain.CollectionRepository {
	return &collectionRepository{DB: db}
}

func (r *collectionRepository) Create(ctx context.Context, c *domain.Collection) error {
	query := `
		INSERT INTO collections (owner_id, name, description, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, c.OwnerID, c.Name, c.Description, c.CreatedAt).Scan(&c.ID)
}

func (r *collectionRepository) GetByID(ctx context.Context, id string) (*domain.Collection, error) {
	query := `
		SELECT id, owner_id, name, description, created_at
		FROM collections
		WHERE id = $1
	`
	c := &domain.Collection{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *collectionRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM collections WHERE owner_id = $1`, ownerID).Scan(&n)
	return n, err
}

func (r *collectionRepository) ListRangeByOwner(ctx context.Context, ownerID string, begin, end int) ([]*domain.Collection, error) {
	offset, limit, ok := domain.RangeLimit(begin, end)
	if !ok {
		return []*domain.Collection{}, nil
	}
	query := `
		SELECT id, owner_id, name, description, created_at
		FROM collections
		WHERE owner_id = $1
		ORDER BY created_at DESC, id
		OFFSET $2 LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, query, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []*domain.Collection{}
	for rows.Next() {
		c := &domain.Collection{}
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return list, nil
}
