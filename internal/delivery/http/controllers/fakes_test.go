package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"recordpager/internal/delivery/http/helpers"
	"recordpager/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger discards output so tests don't assert on log lines.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpErr    error
	loginErr     error
	getErr       error
	token        string
	lastEmail    string
	lastPassword string
	lastName     string
}

func (f *fakeAuthService) SignUp(_ context.Context, email, password, name string) (*domain.User, error) {
	f.lastEmail, f.lastPassword, f.lastName = email, password, name
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &domain.User{ID: "user-1", Email: email, Name: name, PasswordHash: "hash"}, nil
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) (string, *domain.User, error) {
	f.lastEmail, f.lastPassword = email, password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.token, &domain.User{ID: "user-1", Email: email}, nil
}

func (f *fakeAuthService) GetByID(_ context.Context, id string) (*domain.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &domain.User{ID: id, Email: "ada@example.com"}, nil
}

// fakeBrowseService implements domain.BrowseService for handler tests.
type fakeBrowseService struct {
	err error

	collection  *domain.Collection
	collections []*domain.Collection
	records     []*domain.Record
	total       int

	lastOwnerID      string
	lastCallerID     string
	lastCollectionID string
	lastName         string
	lastDescription  string
	lastPageNumber   domain.Optional[int]
	lastPageSize     domain.Optional[int]
	lastRecords      []*domain.Record
	lastRecipient    string
}

func (f *fakeBrowseService) state(pageNumber, pageSize domain.Optional[int]) (domain.PageState, error) {
	f.lastPageNumber, f.lastPageSize = pageNumber, pageSize
	return domain.NewPageState(f.total, pageNumber, pageSize)
}

func (f *fakeBrowseService) CreateCollection(_ context.Context, ownerID, name, description string) (*domain.Collection, error) {
	f.lastOwnerID, f.lastName, f.lastDescription = ownerID, name, description
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Collection{ID: testCollectionID, OwnerID: ownerID, Name: name, Description: description}, nil
}

func (f *fakeBrowseService) GetCollection(_ context.Context, id string) (*domain.Collection, error) {
	f.lastCollectionID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.collection, nil
}

func (f *fakeBrowseService) ListCollections(_ context.Context, ownerID string, pageNumber, pageSize domain.Optional[int]) (*domain.CollectionPage, error) {
	f.lastOwnerID = ownerID
	st, err := f.state(pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.CollectionPage{Items: f.collections, State: st}, nil
}

func (f *fakeBrowseService) AddRecords(_ context.Context, collectionID, callerID string, records []*domain.Record) (int, error) {
	f.lastCollectionID, f.lastCallerID, f.lastRecords = collectionID, callerID, records
	if f.err != nil {
		return 0, f.err
	}
	return len(records), nil
}

func (f *fakeBrowseService) BrowsePage(_ context.Context, collectionID string, pageNumber, pageSize domain.Optional[int]) (*domain.RecordPage, error) {
	f.lastCollectionID = collectionID
	st, err := f.state(pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return &domain.RecordPage{Collection: f.collection, Items: f.records, State: st}, nil
}

func (f *fakeBrowseService) SharePage(_ context.Context, collectionID, callerID, recipient string, pageNumber, pageSize domain.Optional[int]) error {
	f.lastCollectionID, f.lastCallerID, f.lastRecipient = collectionID, callerID, recipient
	if _, err := f.state(pageNumber, pageSize); err != nil {
		return err
	}
	return f.err
}

// decodeEnvelope decodes the response envelope and, when into is non-nil, re-decodes Data into it.
func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder, into any) helpers.APIResponse {
	t.Helper()
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope), "response must be a JSON envelope")
	if into != nil && envelope.Data != nil {
		raw, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, into))
	}
	return envelope
}
