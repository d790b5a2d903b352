package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recordpager/internal/domain"
)

func TestTemplateRenderer_PageDigest(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	data := &domain.PageDigestEmailData{
		Email:          "bob@example.com",
		SenderName:     "Alice",
		CollectionName: "Reading list",
		PageNumber:     2,
		LastPage:       3,
		FirstIndex:     11,
		LastIndex:      12,
		TotalRecords:   25,
		Summary:        "Reading list - Records: 25 Page size: 10",
		Records: []*domain.Record{
			{Title: "Dune", Body: "Herbert"},
			{Title: "<Solaris>"},
		},
	}
	subject, html, text, err := r.Render("page_digest", data)
	require.NoError(t, err)
	assert.Equal(t, "Alice shared page 2 of Reading list", subject)
	assert.Contains(t, html, "page 2 of 3")
	assert.Contains(t, html, "&lt;Solaris&gt;")
	assert.Contains(t, text, "Records 11-12 of 25")
	assert.Contains(t, text, "- Dune")
	assert.Contains(t, text, "<Solaris>")
}

func TestTemplateRenderer_EmptyPage(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	subject, html, text, err := r.Render("page_digest", &domain.PageDigestEmailData{CollectionName: "Empty", PageNumber: 1, LastPage: 1})
	require.NoError(t, err)
	assert.Equal(t, "Shared page 1 of Empty", subject)
	assert.Contains(t, html, "no records")
	assert.Contains(t, text, "no records")
}

func TestTemplateRenderer_UnknownTemplate(t *testing.T) {
	r, err := NewTemplateRenderer()
	require.NoError(t, err)

	_, _, _, err = r.Render("welcome", nil)
	require.Error(t, err)
}
