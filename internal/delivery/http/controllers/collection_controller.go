package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"recordpager/internal/delivery/http/helpers"
	"recordpager/internal/delivery/http/middleware"
	"recordpager/internal/domain"

	"github.com/google/uuid"
)

const (
	maxNameLen          = 200
	maxRecordsPerUpload = 500
)

// CreateCollectionRequest is the request body for POST /collections.
type CreateCollectionRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Validate implements Validator.
func (c CreateCollectionRequest) Validate() []string {
	var errs []string
	name := strings.TrimSpace(c.Name)
	if name == "" {
		errs = append(errs, "name is required")
	} else if len(name) > maxNameLen {
		errs = append(errs, fmt.Sprintf("name must be at most %d characters", maxNameLen))
	}
	return errs
}

// RecordInput is one record in an AddRecordsRequest.
type RecordInput struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// AddRecordsRequest is the request body for POST /collections/{collectionID}/records.
// Records are appended in the order given.
type AddRecordsRequest struct {
	Records []RecordInput `json:"records"`
}

// Validate implements Validator.
func (a AddRecordsRequest) Validate() []string {
	var errs []string
	if len(a.Records) == 0 {
		errs = append(errs, "records must not be empty")
	}
	if len(a.Records) > maxRecordsPerUpload {
		errs = append(errs, fmt.Sprintf("at most %d records per request", maxRecordsPerUpload))
	}
	for i, rec := range a.Records {
		if strings.TrimSpace(rec.Title) == "" {
			errs = append(errs, fmt.Sprintf("records[%d].title is required", i))
		}
	}
	return errs
}

// AddRecordsResponse is the response body for POST /collections/{collectionID}/records.
type AddRecordsResponse struct {
	Added int `json:"added"`
}

// SharePageRequest is the request body for POST /collections/{collectionID}/share.
// Omitted page and page_size take the browse defaults.
type SharePageRequest struct {
	Email    string `json:"email"`
	Page     *int   `json:"page,omitempty"`
	PageSize *int   `json:"page_size,omitempty"`
}

// Validate implements Validator.
func (s SharePageRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// SharePageResponse is the response body for POST /collections/{collectionID}/share.
type SharePageResponse struct {
	Email string `json:"email"`
	Sent  bool   `json:"sent"`
}

// ListCollectionsResponse is the response body for GET /collections.
type ListCollectionsResponse struct {
	Collections []*domain.Collection   `json:"collections"`
	Pagination  helpers.PaginationMeta `json:"pagination"`
}

// BrowseRecordsResponse is the response body for GET /collections/{collectionID}/records.
type BrowseRecordsResponse struct {
	Collection *domain.Collection     `json:"collection"`
	Records    []*domain.Record       `json:"records"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type CollectionController struct {
	Logger  *slog.Logger
	Service domain.BrowseService
}

func NewCollectionController(logger *slog.Logger, svc domain.BrowseService) *CollectionController {
	return &CollectionController{
		Logger:  logger,
		Service: svc,
	}
}

// collectionID reads and validates the collectionID path value. It writes a 400 and returns false when invalid.
func collectionID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("collectionID")
	if id == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing collectionID")
		return "", false
	}
	if err := uuid.Validate(id); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "collectionID must be a UUID")
		return "", false
	}
	return id, true
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
	}
	return id, ok
}

func (c *CollectionController) fail(w http.ResponseWriter, r *http.Request, err error) {
	if status, code, msg, ok := helpers.ClientError(err, "collection not found"); ok {
		helpers.WriteJSONError(w, status, code, msg)
		return
	}
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}

// CreateCollection godoc
// @Summary Create a collection
// @Description Create an empty record collection owned by the authenticated user.
// @Tags collections
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateCollectionRequest true "Collection data"
// @Success 201 {object} helpers.APIResponse "data contains the created collection"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /collections [post]
func (c *CollectionController) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req CreateCollectionRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	collection, err := c.Service.CreateCollection(r.Context(), ownerID, req.Name, req.Description)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, collection)
}

// ListCollections godoc
// @Summary List my collections
// @Description Returns one page of the authenticated user's collections, newest first.
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size; clamped to the configured maximum"
// @Success 200 {object} helpers.APIResponse "data contains collections and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: invalid_page"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /collections [get]
func (c *CollectionController) ListCollections(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	q := helpers.ParsePagination(r)
	page, err := c.Service.ListCollections(r.Context(), ownerID, q.PageNumber, q.PageSize)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListCollectionsResponse{
		Collections: page.Items,
		Pagination:  helpers.NewPaginationMeta(page.State, "Collections"),
	})
}

// GetCollection godoc
// @Summary Get a collection
// @Tags collections
// @Produce json
// @Security BearerAuth
// @Param collectionID path string true "Collection ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the collection"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /collections/{collectionID} [get]
func (c *CollectionController) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := collectionID(w, r)
	if !ok {
		return
	}
	if _, ok := callerID(w, r); !ok {
		return
	}
	collection, err := c.Service.GetCollection(r.Context(), id)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, collection)
}

// AddRecords godoc
// @Summary Append records to a collection
// @Description Appends records after the current last record. Only the collection owner may add records.
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param collectionID path string true "Collection ID (UUID)"
// @Param body body AddRecordsRequest true "Records to append"
// @Success 201 {object} helpers.APIResponse "data.added is the number of records written"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /collections/{collectionID}/records [post]
func (c *CollectionController) AddRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := collectionID(w, r)
	if !ok {
		return
	}
	var req AddRecordsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	records := make([]*domain.Record, 0, len(req.Records))
	for _, in := range req.Records {
		records = append(records, &domain.Record{Title: in.Title, Body: in.Body})
	}
	added, err := c.Service.AddRecords(r.Context(), id, ownerID, records)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, AddRecordsResponse{Added: added})
}

// BrowseRecords godoc
// @Summary Browse one page of records
// @Description Returns the records of the requested page together with its pagination state. A page past the end returns the last record; page 0 or below returns the first page's records.
// @Tags records
// @Produce json
// @Security BearerAuth
// @Param collectionID path string true "Collection ID (UUID)"
// @Param page query int false "Page number (1-based)"
// @Param page_size query int false "Page size; must be at least 1, clamped to the configured maximum"
// @Success 200 {object} helpers.APIResponse "data contains collection, records and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_page"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /collections/{collectionID}/records [get]
func (c *CollectionController) BrowseRecords(w http.ResponseWriter, r *http.Request) {
	id, ok := collectionID(w, r)
	if !ok {
		return
	}
	if _, ok := callerID(w, r); !ok {
		return
	}
	q := helpers.ParsePagination(r)
	page, err := c.Service.BrowsePage(r.Context(), id, q.PageNumber, q.PageSize)
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, BrowseRecordsResponse{
		Collection: page.Collection,
		Records:    page.Items,
		Pagination: helpers.NewPaginationMeta(page.State, page.Collection.Name),
	})
}

// SharePage godoc
// @Summary Email one page of records
// @Description Renders the requested page as a digest and emails it to the given address. Only the collection owner may share.
// @Tags records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param collectionID path string true "Collection ID (UUID)"
// @Param body body SharePageRequest true "Recipient and page"
// @Success 200 {object} helpers.APIResponse "data contains email and sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or invalid_page"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /collections/{collectionID}/share [post]
func (c *CollectionController) SharePage(w http.ResponseWriter, r *http.Request) {
	id, ok := collectionID(w, r)
	if !ok {
		return
	}
	var req SharePageRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	ownerID, ok := callerID(w, r)
	if !ok {
		return
	}
	err := c.Service.SharePage(r.Context(), id, ownerID, req.Email,
		domain.OptionalFromPtr(req.Page), domain.OptionalFromPtr(req.PageSize))
	if err != nil {
		c.fail(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, SharePageResponse{Email: strings.TrimSpace(req.Email), Sent: true})
}
