package gha

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSet(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.Set("ticket_key", "REL-1234")
	w.Set("ticket_url", "https://example.atlassian.net/browse/REL-1234")

	assert.Equal(t, "ticket_key=REL-1234\nticket_url=https://example.atlassian.net/browse/REL-1234\n", buf.String())
}

func TestSetMultiline(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	w.SetMultiline("release-notes", "# Release notes\n\n### Bug\n- fix")

	assert.Equal(t, "release-notes<<EOF\n# Release notes\n\n### Bug\n- fix\nEOF\n", buf.String())
}
