package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"recordpager/internal/domain"
)

// PageLimits bounds the page sizes callers may request.
type PageLimits struct {
	DefaultPageSize int
	MaxPageSize     int
}

type browseService struct {
	collectionRepo domain.CollectionRepository
	recordRepo     domain.RecordRepository
	userRepo       domain.UserRepository
	emailService   domain.EmailService
	limits         PageLimits
	contextTimeout time.Duration
}

const defaultContextTimeout = 5 * time.Second

// NewBrowseService creates a BrowseService. Zero limits fall back to domain.DefaultPageSize and no maximum.
func NewBrowseService(
	collectionRepo domain.CollectionRepository,
	recordRepo domain.RecordRepository,
	userRepo domain.UserRepository,
	emailService domain.EmailService,
	limits PageLimits,
	timeout time.Duration,
) domain.BrowseService {
	if limits.DefaultPageSize < 1 {
		limits.DefaultPageSize = domain.DefaultPageSize
	}
	if timeout <= 0 {
		timeout = defaultContextTimeout
	}
	return &browseService{
		collectionRepo: collectionRepo,
		recordRepo:     recordRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		limits:         limits,
		contextTimeout: timeout,
	}
}

// pageState builds an empty-collection PageState from the request. An absent
// page size resolves to the configured default and a size above the maximum is
// clamped. Sizes below 1 come back as a *domain.ConfigurationError.
func (s *browseService) pageState(pageNumber, pageSize domain.Optional[int]) (domain.PageState, error) {
	size := pageSize.Or(s.limits.DefaultPageSize)
	if s.limits.MaxPageSize > 0 && size > s.limits.MaxPageSize {
		size = s.limits.MaxPageSize
	}
	return domain.NewPageState(0, pageNumber, domain.Some(size))
}

func (s *browseService) CreateCollection(ctx context.Context, ownerID, name, description string) (*domain.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ownerID == "" {
		return nil, fmt.Errorf("%w: collection owner is required", domain.ErrInvalidInput)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	c := domain.NewCollection(ownerID, name, strings.TrimSpace(description), time.Now())
	if err := s.collectionRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}
	return c, nil
}

func (s *browseService) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.collectionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return c, nil
}

func (s *browseService) ListCollections(ctx context.Context, ownerID string, pageNumber, pageSize domain.Optional[int]) (*domain.CollectionPage, error) {
	state, err := s.pageState(pageNumber, pageSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	total, err := s.collectionRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count collections: %w", err)
	}
	state = state.WithTotalRecords(total)

	items := []*domain.Collection{}
	if !state.IsEmpty() {
		items, err = s.collectionRepo.ListRangeByOwner(ctx, ownerID, state.IndexRangeBegin(), state.IndexRangeEnd())
		if err != nil {
			return nil, fmt.Errorf("list collections: %w", err)
		}
	}
	return &domain.CollectionPage{Items: items, State: state}, nil
}

func (s *browseService) AddRecords(ctx context.Context, collectionID, callerID string, records []*domain.Record) (int, error) {
	if len(records) == 0 {
		return 0, fmt.Errorf("%w: at least one record is required", domain.ErrInvalidInput)
	}
	for i, r := range records {
		if r == nil || strings.TrimSpace(r.Title) == "" {
			return 0, fmt.Errorf("%w: record %d: title is required", domain.ErrInvalidInput, i)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedCollection(ctx, collectionID, callerID); err != nil {
		return 0, err
	}
	now := time.Now()
	for _, r := range records {
		r.CollectionID = collectionID
		r.Title = strings.TrimSpace(r.Title)
		r.CreatedAt = now
	}
	if err := s.recordRepo.Append(ctx, collectionID, records); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("append records: %w", err)
	}
	return len(records), nil
}

func (s *browseService) BrowsePage(ctx context.Context, collectionID string, pageNumber, pageSize domain.Optional[int]) (*domain.RecordPage, error) {
	state, err := s.pageState(pageNumber, pageSize)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	return s.fillPage(ctx, collection, state)
}

func (s *browseService) fillPage(ctx context.Context, collection *domain.Collection, state domain.PageState) (*domain.RecordPage, error) {
	total, err := s.recordRepo.Count(ctx, collection.ID)
	if err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}
	state = state.WithTotalRecords(total)

	items := []*domain.Record{}
	if !state.IsEmpty() {
		items, err = s.recordRepo.ListRange(ctx, collection.ID, state.IndexRangeBegin(), state.IndexRangeEnd())
		if err != nil {
			return nil, fmt.Errorf("list records: %w", err)
		}
	}
	return &domain.RecordPage{Collection: collection, Items: items, State: state}, nil
}

func (s *browseService) SharePage(ctx context.Context, collectionID, callerID, recipient string, pageNumber, pageSize domain.Optional[int]) error {
	recipient = normalizeEmail(recipient)
	if !emailRegexp.MatchString(recipient) {
		return fmt.Errorf("%w: invalid recipient email", domain.ErrInvalidInput)
	}
	state, err := s.pageState(pageNumber, pageSize)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	collection, err := s.ownedCollection(ctx, collectionID, callerID)
	if err != nil {
		return err
	}
	page, err := s.fillPage(ctx, collection, state)
	if err != nil {
		return err
	}

	// Sender name is cosmetic; share without it if the lookup fails.
	senderName := ""
	if owner, err := s.userRepo.GetByID(ctx, callerID); err == nil && owner != nil {
		senderName = owner.Name
	}

	st := page.State
	data := &domain.PageDigestEmailData{
		Email:          recipient,
		SenderName:     senderName,
		CollectionName: collection.Name,
		PageNumber:     st.PageNumber(),
		LastPage:       st.LastPage(),
		TotalRecords:   st.TotalRecords(),
		Summary:        st.Describe(collection.Name),
		Records:        page.Items,
	}
	if !st.IsEmpty() {
		data.FirstIndex = st.IndexRangeBegin() + 1
		data.LastIndex = st.IndexRangeEnd() + 1
	}
	if err := s.emailService.SendPageDigest(ctx, data); err != nil {
		return fmt.Errorf("share page: %w", err)
	}
	return nil
}

func (s *browseService) ownedCollection(ctx context.Context, collectionID, callerID string) (*domain.Collection, error) {
	collection, err := s.collectionRepo.GetByID(ctx, collectionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get collection: %w", err)
	}
	if collection.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	return collection, nil
}
