package search

import (
	"encoding/json"
	"testing"

	"github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/assert"
)

func TestHitIDs(t *testing.T) {
	hits := []meilisearch.Hit{
		{"id": json.RawMessage(`"0198a1c2-0000-7000-8000-000000000001"`), "title": json.RawMessage(`"Winter Village"`)},
		{"title": json.RawMessage(`"no id field"`)},
		{"id": json.RawMessage(`42`)},
		{"id": json.RawMessage(`"0198a1c2-0000-7000-8000-000000000002"`)},
	}

	ids := hitIDs(hits)

	assert.Equal(t, []string{
		"0198a1c2-0000-7000-8000-000000000001",
		"0198a1c2-0000-7000-8000-000000000002",
	}, ids)
}

func TestHitIDsEmpty(t *testing.T) {
	assert.Empty(t, hitIDs(nil))
	assert.Empty(t, hitIDs([]meilisearch.Hit{}))
}

func TestCleanContent(t *testing.T) {
	s := &searchService{sanitizer: bluemonday.StrictPolicy()}

	assert.Equal(t, "A thousand pieces of sky", s.cleanContent("<p>A thousand</p><div>pieces of</div>sky<script>alert(1)</script>"))
	assert.Equal(t, "line one line two", s.cleanContent("line one<br>line two"))
}
