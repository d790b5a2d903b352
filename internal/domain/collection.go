package domain

import (
	"context"
	"time"
)

// Collection is a named, owned sequence of records.
// swagger:model Collection
type Collection struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewCollection returns a new Collection. ID is set by the repository on create.
func NewCollection(ownerID, name, description string, createdAt time.Time) *Collection {
	return &Collection{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		CreatedAt:   createdAt,
	}
}

// CollectionRepository defines storage for collections.
type CollectionRepository interface {
	Create(ctx context.Context, c *Collection) error
	GetByID(ctx context.Context, id string) (*Collection, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
	// ListRangeByOwner returns the owner's collections at zero-based inclusive indexes [begin, end], newest first.
	ListRangeByOwner(ctx context.Context, ownerID string, begin, end int) ([]*Collection, error)
}

// CollectionPage is one page of a user's collections.
type CollectionPage struct {
	Items []*Collection
	State PageState
}

// RecordPage is one page of records from a collection.
type RecordPage struct {
	Collection *Collection
	Items      []*Record
	State      PageState
}

// BrowseService defines collection management and paged record browsing.
type BrowseService interface {
	CreateCollection(ctx context.Context, ownerID, name, description string) (*Collection, error)
	GetCollection(ctx context.Context, id string) (*Collection, error)
	ListCollections(ctx context.Context, ownerID string, pageNumber, pageSize Optional[int]) (*CollectionPage, error)
	AddRecords(ctx context.Context, collectionID, callerID string, records []*Record) (int, error)
	BrowsePage(ctx context.Context, collectionID string, pageNumber, pageSize Optional[int]) (*RecordPage, error)
	SharePage(ctx context.Context, collectionID, callerID, recipient string, pageNumber, pageSize Optional[int]) error
}
