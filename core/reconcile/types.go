package reconcile

import (
	"time"

	"route-publisher/core/pages"
	"route-publisher/core/routestore"
)

// Report is the outcome of checking one route key against the database.
type Report struct {
	// Slug is the page slug that was checked.
	Slug string `json:"slug"`

	// RouteKey is the cache key that was read.
	RouteKey string `json:"routeKey"`

	// KV is what the route store returned.
	KV KVState `json:"kv"`

	// Database is the page as recorded in the source of truth, nil when missing.
	Database *DatabaseState `json:"database"`

	// Match compares the entry field by field, nil when either side is missing.
	Match *MatchState `json:"match"`

	// Diagnosis is the result of Diagnose over the three inputs.
	Diagnosis DiagnosisCode `json:"diagnosis"`

	// Blob reports whether the current artifact is still in storage.
	// Only set when a blob checker is configured.
	Blob *BlobState `json:"blob,omitempty"`
}

// KVState is the raw route store view of a key.
type KVState struct {
	Exists bool                    `json:"exists"`
	Entry  *routestore.RouteConfig `json:"entry"`
}

// DatabaseState is the part of a page the diagnosis depends on.
type DatabaseState struct {
	PageID         string         `json:"pageId"`
	PublishState   string         `json:"publishState"`
	LastPublishAt  *time.Time     `json:"lastPublishAt"`
	CurrentVersion *pages.Version `json:"currentVersion"`
}

// MatchState holds per-field equality between entry and current version.
type MatchState struct {
	PageIDMatch  bool `json:"pageIdMatch"`
	VersionMatch bool `json:"versionMatch"`
	BlobURLMatch bool `json:"blobUrlMatch"`
}

// BlobState is informational and never affects the diagnosis.
type BlobState struct {
	Key    string `json:"key"`
	Exists bool   `json:"exists"`
	Error  string `json:"error,omitempty"`
}

// RepairResult describes a successful repair.
type RepairResult struct {
	Success  bool                    `json:"success"`
	RouteKey string                  `json:"routeKey"`
	Updated  routestore.RouteConfig  `json:"updated"`
	Verified *routestore.RouteConfig `json:"verified"`
	Message  string                  `json:"message"`
	TestURL  string                  `json:"testUrl"`
	Attempts int                     `json:"attempts"`
	Domains  []string                `json:"domains"`
}

// Action is a planned repair of one page.
type Action struct {
	// Slug identifies the page to republish.
	Slug string `json:"slug"`

	// Reasons lists the diagnosis of every route key of the page that needs it.
	Reasons map[string]DiagnosisCode `json:"reasons"`
}

// Plan contains the reports of a full pass and the repairs it suggests.
type Plan struct {
	// Results contains one report per route key, ordered by slug then key.
	Results []Report `json:"results"`

	// Actions contains the repairs, one per page.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a plan.
type PlanSummary struct {
	// Pages is the number of published pages checked.
	Pages int `json:"pages"`

	// Routes is the number of route keys checked.
	Routes int `json:"routes"`

	// Matched counts route keys diagnosed MATCH.
	Matched int `json:"matched"`

	// Diagnoses counts route keys per diagnosis code.
	Diagnoses map[DiagnosisCode]int `json:"diagnoses"`

	// RepairActions counts planned repairs.
	RepairActions int `json:"repair_actions"`
}

// Options controls whether a plan is applied.
type Options struct {
	// DryRun prevents execution of any repair if true.
	DryRun bool

	// Confirmed indicates the operator confirmed the repairs.
	// If false, nothing is executed regardless of DryRun.
	Confirmed bool
}

// ApplyResult is the outcome of ApplyPlan.
type ApplyResult struct {
	Executed int               `json:"executed"`
	Failed   map[string]string `json:"failed,omitempty"`
}
