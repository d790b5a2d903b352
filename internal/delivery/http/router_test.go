package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"recordpager/internal/adapters/auth"
	"recordpager/internal/adapters/email"
	"recordpager/internal/delivery/http/controllers"
	"recordpager/internal/delivery/http/helpers"
	"recordpager/internal/repository/memory"
	"recordpager/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestServer wires the full stack over the in-memory store.
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	tokens := auth.NewJWT("router-test-secret")

	mailer, err := email.NewMailer(email.MailerConfig{Provider: "noop"}, logger)
	require.NoError(t, err)
	renderer, err := email.NewTemplateRenderer()
	require.NoError(t, err)

	authSvc := services.NewAuthService(store.Users(), auth.NewBcryptHasher(bcrypt.MinCost), tokens, time.Hour)
	browseSvc := services.NewBrowseService(store.Collections(), store.Records(), store.Users(),
		services.NewEmailService(mailer, renderer, logger),
		services.PageLimits{DefaultPageSize: 15, MaxPageSize: 20}, time.Second)

	mux := NewRouter(
		controllers.NewAuthController(logger, authSvc),
		controllers.NewCollectionController(logger, browseSvc),
		tokens,
		logger,
	)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type apiClient struct {
	t     *testing.T
	base  string
	token string
}

// do sends a JSON request and decodes the envelope's data into out when out is non-nil.
func (c *apiClient) do(method, path, body string, out any) (int, *helpers.APIError) {
	c.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(context.Background(), method, c.base+path, reader)
	require.NoError(c.t, err)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	var envelope struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&envelope))
	if out != nil && envelope.Error == nil {
		require.NoError(c.t, json.Unmarshal(envelope.Data, out))
	}
	return resp.StatusCode, envelope.Error
}

func TestRouter_BrowseFlow(t *testing.T) {
	srv := newTestServer(t)
	client := &apiClient{t: t, base: srv.URL}

	status, apiErr := client.do(http.MethodPost, "/auth/signup", `{"email":"Owner@Example.com","password":"password123","name":"Olive"}`, nil)
	require.Equal(t, http.StatusCreated, status, "%+v", apiErr)

	var login controllers.LoginResponse
	status, _ = client.do(http.MethodPost, "/auth/login", `{"email":"owner@example.com","password":"password123"}`, &login)
	require.Equal(t, http.StatusOK, status)
	require.NotEmpty(t, login.Token)

	status, apiErr = client.do(http.MethodGet, "/collections", "", nil)
	require.Equal(t, http.StatusUnauthorized, status)
	require.NotNil(t, apiErr)
	client.token = login.Token

	var me struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	status, _ = client.do(http.MethodGet, "/users/me", "", &me)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "owner@example.com", me.Email)
	assert.Equal(t, "Olive", me.Name)

	var created struct {
		ID string `json:"id"`
	}
	status, _ = client.do(http.MethodPost, "/collections", `{"name":"Novels"}`, &created)
	require.Equal(t, http.StatusCreated, status)
	require.NotEmpty(t, created.ID)

	parts := make([]string, 23)
	for i := range parts {
		parts[i] = fmt.Sprintf(`{"title":"Book %d"}`, i)
	}
	var added controllers.AddRecordsResponse
	status, _ = client.do(http.MethodPost, "/collections/"+created.ID+"/records", `{"records":[`+strings.Join(parts, ",")+`]}`, &added)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 23, added.Added)

	var page controllers.BrowseRecordsResponse
	status, _ = client.do(http.MethodGet, "/collections/"+created.ID+"/records?page=3&page_size=10", "", &page)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, page.Records, 3)
	assert.Equal(t, "Book 20", page.Records[0].Title)
	assert.Equal(t, "Book 22", page.Records[2].Title)
	assert.Equal(t, 20, page.Pagination.IndexRangeBegin)
	assert.Equal(t, 22, page.Pagination.IndexRangeEnd)
	assert.Equal(t, 3, page.Pagination.LastPage)
	assert.False(t, page.Pagination.HasNext)
	assert.True(t, page.Pagination.HasPrevious)

	status, _ = client.do(http.MethodGet, "/collections/"+created.ID+"/records?page_size=500", "", &page)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 20, page.Pagination.PageSize, "page size clamps to the configured maximum")
	assert.Len(t, page.Records, 20)

	var far controllers.BrowseRecordsResponse
	status, _ = client.do(http.MethodGet, "/collections/"+created.ID+"/records?page=4611686018427387904&page_size=4", "", &far)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, far.Records, 1)
	assert.Equal(t, "Book 22", far.Records[0].Title)
	assert.Equal(t, 22, far.Pagination.IndexRangeBegin)
	assert.False(t, far.Pagination.HasNext)
	assert.True(t, far.Pagination.HasPrevious)

	status, apiErr = client.do(http.MethodGet, "/collections/"+created.ID+"/records?page_size=0", "", nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, helpers.ErrCodeInvalidPage, apiErr.Code)

	var shared controllers.SharePageResponse
	status, apiErr = client.do(http.MethodPost, "/collections/"+created.ID+"/share", `{"email":"friend@example.com","page":2,"page_size":10}`, &shared)
	require.Equal(t, http.StatusOK, status, "%+v", apiErr)
	assert.True(t, shared.Sent)

	var list controllers.ListCollectionsResponse
	status, _ = client.do(http.MethodGet, "/collections", "", &list)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, list.Collections, 1)
	assert.Equal(t, 1, list.Pagination.Total)
}

func TestRouter_OwnershipIsEnforced(t *testing.T) {
	srv := newTestServer(t)
	owner := &apiClient{t: t, base: srv.URL}
	other := &apiClient{t: t, base: srv.URL}

	for _, c := range []struct {
		client *apiClient
		email  string
	}{{owner, "owner@example.com"}, {other, "other@example.com"}} {
		status, _ := c.client.do(http.MethodPost, "/auth/signup", `{"email":"`+c.email+`","password":"password123"}`, nil)
		require.Equal(t, http.StatusCreated, status)
		var login controllers.LoginResponse
		status, _ = c.client.do(http.MethodPost, "/auth/login", `{"email":"`+c.email+`","password":"password123"}`, &login)
		require.Equal(t, http.StatusOK, status)
		c.client.token = login.Token
	}

	var created struct {
		ID string `json:"id"`
	}
	status, _ := owner.do(http.MethodPost, "/collections", `{"name":"Private"}`, &created)
	require.Equal(t, http.StatusCreated, status)

	status, apiErr := other.do(http.MethodPost, "/collections/"+created.ID+"/records", `{"records":[{"title":"x"}]}`, nil)
	require.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, helpers.ErrCodeForbidden, apiErr.Code)

	status, _ = other.do(http.MethodGet, "/collections/"+created.ID+"/records", "", nil)
	assert.Equal(t, http.StatusOK, status, "reading is open to any signed-in user")

	status, apiErr = owner.do(http.MethodGet, "/collections/00000000-0000-4000-8000-000000000000", "", nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, helpers.ErrCodeNotFound, apiErr.Code)
}
