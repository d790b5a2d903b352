package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeLimit(t *testing.T) {
	tests := []struct {
		name       string
		begin, end int
		wantOffset int
		wantLimit  int
		wantOK     bool
	}{
		{"full page", 20, 29, 20, 10, true},
		{"single record", 4, 4, 4, 1, true},
		{"empty sentinel", 0, -1, 0, 0, false},
		{"negative begin floors at zero", -5, 2, 0, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit, ok := RangeLimit(tt.begin, tt.end)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestRangeLimit_FromPageState(t *testing.T) {
	p, err := NewPageState(100, Some(7), Some(15))
	assert.NoError(t, err)
	offset, limit, ok := RangeLimit(p.IndexRangeBegin(), p.IndexRangeEnd())
	assert.True(t, ok)
	assert.Equal(t, 90, offset)
	assert.Equal(t, 10, limit)
}
