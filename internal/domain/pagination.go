package domain

import (
	"errors"
	"fmt"
	"math"
)

// Page state defaults used when a caller leaves a field unset.
const (
	DefaultPageNumber = 1
	DefaultPageSize   = 15
	FirstPageNumber   = 1
)

// ErrInvalidPageSize is wrapped by ConfigurationError when a page size below 1 is supplied.
var ErrInvalidPageSize = errors.New("page size must be at least 1")

// ConfigurationError reports a page configuration that cannot be computed over.
type ConfigurationError struct {
	Field string
	Value int
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %d: %v", e.Field, e.Value, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// Optional marks a value that may be absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// OptionalFromPtr returns Some(*p), or an absent Optional when p is nil.
func OptionalFromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return Optional[T]{}
	}
	return Some(*p)
}

// Get returns the held value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool { return o.set }

// Or returns the held value, or def when absent.
func (o Optional[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// PageState is an immutable snapshot of a paged view over a record collection.
// Every derived quantity is recomputed from the three stored fields on each call.
// Use NewPageState to build one; the zero value behaves as an empty collection
// with the default page size.
type PageState struct {
	totalRecords int
	pageNumber   int
	pageSize     int
}

// NewPageState builds a PageState. Absent page number and page size take
// DefaultPageNumber and DefaultPageSize. A page size below 1 is rejected with
// a *ConfigurationError; non-positive page numbers and negative totals are
// accepted and absorbed by the index clamping.
func NewPageState(totalRecords int, pageNumber, pageSize Optional[int]) (PageState, error) {
	size := pageSize.Or(DefaultPageSize)
	if err := validatePageSize(size); err != nil {
		return PageState{}, err
	}
	return PageState{
		totalRecords: totalRecords,
		pageNumber:   pageNumber.Or(DefaultPageNumber),
		pageSize:     size,
	}, nil
}

func validatePageSize(size int) error {
	if size < 1 {
		return &ConfigurationError{Field: "page size", Value: size, Err: ErrInvalidPageSize}
	}
	return nil
}

// TotalRecords returns the record count of the whole collection.
func (p PageState) TotalRecords() int { return p.totalRecords }

// PageNumber returns the requested 1-based page number as stored.
func (p PageState) PageNumber() int { return p.pageNumber }

// PageSize returns the number of records per page.
func (p PageState) PageSize() int {
	if p.pageSize < 1 {
		return DefaultPageSize
	}
	return p.pageSize
}

// WithPageNumber returns a copy with the page number replaced when n is present.
// An absent n returns p unchanged.
func (p PageState) WithPageNumber(n Optional[int]) PageState {
	if v, ok := n.Get(); ok {
		p.pageNumber = v
	}
	return p
}

// WithPageSize returns a copy with the page size replaced when n is present.
// An absent n returns p unchanged. A present n below 1 returns p and a *ConfigurationError.
func (p PageState) WithPageSize(n Optional[int]) (PageState, error) {
	v, ok := n.Get()
	if !ok {
		return p, nil
	}
	if err := validatePageSize(v); err != nil {
		return p, err
	}
	p.pageSize = v
	return p, nil
}

// WithTotalRecords returns a copy with the record count replaced.
func (p PageState) WithTotalRecords(total int) PageState {
	p.totalRecords = total
	return p
}

// NextPage returns PageNumber()+1. It is not bounded by LastPage; check HasNextPage first.
// It saturates at math.MaxInt.
func (p PageState) NextPage() int {
	if p.pageNumber == math.MaxInt {
		return p.pageNumber
	}
	return p.pageNumber + 1
}

// PreviousPage returns PageNumber()-1 with no floor other than math.MinInt.
func (p PageState) PreviousPage() int {
	if p.pageNumber == math.MinInt {
		return p.pageNumber
	}
	return p.pageNumber - 1
}

// FirstPage is always 1.
func (p PageState) FirstPage() int { return FirstPageNumber }

// IndexRangeBegin returns the zero-based index of the first record on the page,
// kept within [0, TotalRecords()-1] (0 for an empty collection).
func (p PageState) IndexRangeBegin() int {
	if p.totalRecords <= 0 || p.pageNumber <= 1 {
		return 0
	}
	last := p.totalRecords - 1
	size := p.PageSize()
	// Compare in page units first so the multiplication cannot overflow.
	if p.pageNumber-1 > last/size {
		return last
	}
	return (p.pageNumber - 1) * size
}

// IndexRangeEnd returns the zero-based inclusive index of the last record on the page.
// For an empty collection it is -1, so End < Begin signals an empty page.
func (p PageState) IndexRangeEnd() int {
	begin := p.IndexRangeBegin()
	return begin + min(p.PageSize()-1, p.totalRecords-1-begin)
}

// IsEmpty reports whether the page holds no records.
func (p PageState) IsEmpty() bool {
	return p.IndexRangeEnd() < p.IndexRangeBegin()
}

// LastPage returns the highest page number whose first index is still a record.
// An evenly divisible count does not produce a trailing empty page, and an
// empty collection still has page 1.
func (p PageState) LastPage() int {
	size := p.PageSize()
	last := p.totalRecords / size
	if p.totalRecords%size == 0 {
		last--
	}
	return last + 1
}

// HasPreviousPage reports whether the page starts past the first page's span.
func (p PageState) HasPreviousPage() bool {
	return p.IndexRangeBegin()+1 > p.PageSize()
}

// HasNextPage reports whether any record lies beyond the page's last index.
func (p PageState) HasNextPage() bool {
	return p.totalRecords-1 > p.IndexRangeEnd()
}

// HasMultiplePages reports whether the collection spans more than one page.
func (p PageState) HasMultiplePages() bool {
	return p.totalRecords != 0 && p.totalRecords > p.PageSize()
}

// Describe returns a diagnostic summary prefixed with label.
func (p PageState) Describe(label string) string {
	return fmt.Sprintf("%s - Records: %d Page size: %d", label, p.totalRecords, p.PageSize())
}

func (p PageState) String() string {
	return p.Describe("Pager")
}
