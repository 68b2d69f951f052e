package routes

import (
	"context"
	"fmt"
	"strings"

	"route-publisher/core/httperr"
	"route-publisher/core/reconcile"

	"go.uber.org/zap"
)

const (
	ActionCheck = "check"
	ActionFix   = "fix"
)

// Inspector is the subset of reconcile.Inspector the feature needs.
type Inspector interface {
	Check(ctx context.Context, slug string) (*reconcile.Report, error)
	Repair(ctx context.Context, slug string) (*reconcile.RepairResult, error)
	ReconcileAndApply(ctx context.Context, opts reconcile.Options) (*reconcile.Plan, *reconcile.ApplyResult, error)
}

// Service runs consistency actions for operators.
type Service struct {
	inspector Inspector
	logger    *zap.Logger
}

// NewService creates a new routes service.
func NewService(inspector Inspector, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{inspector: inspector, logger: logger}
}

// Run executes action ("check" when empty) for slug and returns either a
// *reconcile.Report or a *reconcile.RepairResult.
func (s *Service) Run(ctx context.Context, slug, action string) (any, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, fmt.Errorf("%w: slug is required", httperr.ErrBadRequest)
	}

	switch strings.ToLower(action) {
	case "", ActionCheck:
		return s.inspector.Check(ctx, slug)
	case ActionFix:
		return s.inspector.Repair(ctx, slug)
	default:
		return nil, fmt.Errorf("%w: unknown action %q", httperr.ErrBadRequest, action)
	}
}

// ReconcileReport is the response of a full pass.
type ReconcileReport struct {
	Plan    *reconcile.Plan        `json:"plan"`
	Applied *reconcile.ApplyResult `json:"applied,omitempty"`
}

// Reconcile checks every published page and repairs them when fix is set.
func (s *Service) Reconcile(ctx context.Context, fix bool) (*ReconcileReport, error) {
	plan, applied, err := s.inspector.ReconcileAndApply(ctx, reconcile.Options{Confirmed: fix})
	if plan == nil {
		return nil, err
	}
	report := &ReconcileReport{Plan: plan}
	if fix {
		report.Applied = applied
	}
	return report, err
}
