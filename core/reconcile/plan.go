package reconcile

import (
	"context"
	"errors"
	"fmt"

	"route-publisher/core/pages"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ReconcileAll checks every route key of every published page and plans one
// repair per page that has a repairable diagnosis on any of its keys.
// It does NOT execute repairs; use ApplyPlan for that.
func (i *Inspector) ReconcileAll(ctx context.Context) (*Plan, error) {
	published, err := i.repo.ListPublished(ctx)
	if err != nil {
		return nil, err
	}

	perPage := make([][]Report, len(published))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(i.concurrency)

	for idx := range published {
		page := &published[idx]
		g.Go(func() error {
			custom, err := i.repo.CustomDomains(gctx, page.ID)
			if err != nil {
				return err
			}
			hosts := pages.Hosts(page.Slug, i.baseDomain, custom)
			reports := make([]Report, 0, len(hosts))
			for _, host := range hosts {
				reports = append(reports, i.inspect(gctx, page.Slug, host, page))
			}
			perPage[idx] = reports
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return buildPlan(perPage), nil
}

// buildPlan keeps the repository order so repeated passes over the same state
// produce identical plans.
func buildPlan(perPage [][]Report) *Plan {
	plan := &Plan{
		Results: []Report{},
		Actions: []Action{},
		Summary: PlanSummary{Pages: len(perPage), Diagnoses: map[DiagnosisCode]int{}},
	}

	for _, reports := range perPage {
		var action *Action
		for _, r := range reports {
			plan.Results = append(plan.Results, r)
			plan.Summary.Routes++
			plan.Summary.Diagnoses[r.Diagnosis]++
			if r.Diagnosis == DiagnosisMatch {
				plan.Summary.Matched++
			}
			if !r.Diagnosis.Repairable() {
				continue
			}
			if action == nil {
				action = &Action{Slug: r.Slug, Reasons: map[string]DiagnosisCode{}}
			}
			action.Reasons[r.RouteKey] = r.Diagnosis
		}
		if action != nil {
			plan.Actions = append(plan.Actions, *action)
			plan.Summary.RepairActions++
		}
	}
	return plan
}

// ApplyPlan repairs every page in the plan. A failed repair does not stop the
// others; all failures are joined into the returned error.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func (i *Inspector) ApplyPlan(ctx context.Context, plan *Plan, opts Options) (*ApplyResult, error) {
	result := &ApplyResult{}
	if plan == nil || !opts.Confirmed || opts.DryRun {
		return result, nil
	}

	var errs []error
	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if _, err := i.Repair(ctx, action.Slug); err != nil {
			i.logger.Warn("Planned repair failed", zap.String("slug", action.Slug), zap.Error(err))
			if result.Failed == nil {
				result.Failed = map[string]string{}
			}
			result.Failed[action.Slug] = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", action.Slug, err))
			continue
		}
		result.Executed++
	}
	return result, errors.Join(errs...)
}

// ReconcileAndApply plans and optionally applies repairs.
func (i *Inspector) ReconcileAndApply(ctx context.Context, opts Options) (*Plan, *ApplyResult, error) {
	plan, err := i.ReconcileAll(ctx)
	if err != nil {
		return nil, nil, err
	}
	applied, err := i.ApplyPlan(ctx, plan, opts)
	return plan, applied, err
}
