package reconcile

import (
	"testing"

	"route-publisher/core/pages"
	"route-publisher/core/routestore"

	"github.com/stretchr/testify/assert"
)

func publishedPage(id, version, blobURL string) *pages.PublishedPage {
	return &pages.PublishedPage{
		ID:           id,
		Slug:         "acme",
		PublishState: pages.StatePublished,
		CurrentVersion: &pages.Version{
			ID:      "ver-" + version,
			Version: version,
			BlobURL: blobURL,
		},
	}
}

func entry(pageID, version, blobURL string) *routestore.RouteConfig {
	return &routestore.RouteConfig{PageID: pageID, Version: version, BlobURL: blobURL, PublishedAt: 1}
}

func TestDiagnose_Rules(t *testing.T) {
	page := publishedPage("P1", "v2", "https://cdn/v2")
	draft := &pages.PublishedPage{ID: "P1", Slug: "acme", PublishState: pages.StateDraft}

	tests := []struct {
		name   string
		entry  *routestore.RouteConfig
		page   *pages.PublishedPage
		exists bool
		want   DiagnosisCode
	}{
		{"page missing", entry("P1", "v2", "https://cdn/v2"), nil, true, DiagnosisPageNotFound},
		{"page missing wins over missing key", nil, nil, false, DiagnosisPageNotFound},
		{"key missing", nil, page, false, DiagnosisKVMissing},
		{"key exists without value", nil, page, true, DiagnosisKVCorrupt},
		{"no current version", entry("P1", "v2", "https://cdn/v2"), draft, true, DiagnosisIncompletePublish},
		{"wrong page", entry("P9", "v2", "https://cdn/v2"), page, true, DiagnosisWrongPage},
		{"wrong page wins over stale version", entry("P9", "v1", "https://cdn/v1"), page, true, DiagnosisWrongPage},
		{"stale version", entry("P1", "v1", "https://cdn/v1"), page, true, DiagnosisStaleVersion},
		{"wrong blob url", entry("P1", "v2", "https://cdn/other"), page, true, DiagnosisWrongBlobURL},
		{"match", entry("P1", "v2", "https://cdn/v2"), page, true, DiagnosisMatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diagnose(tt.entry, tt.page, tt.exists))
		})
	}
}

func TestDiagnose_Deterministic(t *testing.T) {
	page := publishedPage("P1", "v2", "https://cdn/v2")
	stale := entry("P1", "v1", "https://cdn/v1")

	first := Diagnose(stale, page, true)
	second := Diagnose(stale, page, true)
	assert.Equal(t, first, second)
	assert.Equal(t, DiagnosisStaleVersion, first)
}

// Each predicate must be safe and meaningful on its own.
func TestRules_IndependentPredicates(t *testing.T) {
	page := publishedPage("P1", "v2", "https://cdn/v2")
	draft := &pages.PublishedPage{ID: "P1"}

	cases := map[DiagnosisCode]struct {
		hit  observation
		miss observation
	}{
		DiagnosisPageNotFound: {
			hit:  observation{},
			miss: observation{page: page},
		},
		DiagnosisKVMissing: {
			hit:  observation{page: page},
			miss: observation{page: page, exists: true},
		},
		DiagnosisKVCorrupt: {
			hit:  observation{exists: true},
			miss: observation{exists: true, entry: entry("P1", "v2", "x")},
		},
		DiagnosisIncompletePublish: {
			hit:  observation{page: draft},
			miss: observation{page: page},
		},
		DiagnosisWrongPage: {
			hit:  observation{page: page, entry: entry("P2", "v2", "https://cdn/v2")},
			miss: observation{page: page},
		},
		DiagnosisStaleVersion: {
			hit:  observation{page: page, entry: entry("P1", "v1", "https://cdn/v2")},
			miss: observation{page: draft, entry: entry("P1", "v1", "https://cdn/v2")},
		},
		DiagnosisWrongBlobURL: {
			hit:  observation{page: page, entry: entry("P1", "v2", "https://cdn/old")},
			miss: observation{page: page, entry: entry("P1", "v2", "https://cdn/v2")},
		},
	}

	seen := map[DiagnosisCode]bool{}
	for _, r := range rules {
		c, ok := cases[r.code]
		if !assert.True(t, ok, "no case for rule %s", r.code) {
			continue
		}
		assert.False(t, seen[r.code], "duplicate rule %s", r.code)
		seen[r.code] = true
		assert.True(t, r.applies(c.hit), "%s should apply", r.code)
		assert.False(t, r.applies(c.miss), "%s should not apply", r.code)
	}
	assert.Len(t, seen, 7)
}

func TestDiagnosisCode_Repairable(t *testing.T) {
	assert.True(t, DiagnosisKVMissing.Repairable())
	assert.True(t, DiagnosisKVCorrupt.Repairable())
	assert.True(t, DiagnosisWrongPage.Repairable())
	assert.True(t, DiagnosisStaleVersion.Repairable())
	assert.True(t, DiagnosisWrongBlobURL.Repairable())

	assert.False(t, DiagnosisMatch.Repairable())
	assert.False(t, DiagnosisPageNotFound.Repairable())
	assert.False(t, DiagnosisIncompletePublish.Repairable())
}
