package cmd

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"

	"route-publisher/core/reconcile"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile routes command
	fixRoutes    bool
	dryRunRoutes bool
	yesConfirm   bool
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile cached routes with the page database",
}

// routesReconcileCmd checks every published page and optionally repairs it.
var routesReconcileCmd = &cobra.Command{
	Use:   "routes",
	Short: "Reconcile the routes of all published pages (report + optionally fix)",
	Long: `Reconcile the route of every domain of every published page.

Reports missing, corrupt and stale entries.
Optionally republish the current version of every page that needs it.

Examples:
  # Report only
  reconcile routes

  # Repair with interactive confirmation
  reconcile routes --fix

  # Repair with auto-confirm (non-interactive)
  reconcile routes --fix --yes`,
	RunE: runRoutesReconcile,
}

func init() {
	reconcileCmd.AddCommand(routesReconcileCmd)

	routesReconcileCmd.Flags().BoolVar(&fixRoutes, "fix", false, "Republish pages whose routes diverged")
	routesReconcileCmd.Flags().BoolVar(&dryRunRoutes, "dry-run", false, "Force dry-run (no writes even with --yes)")
	routesReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm repairs (non-interactive)")

	RootCmd.AddCommand(reconcileCmd)
}

func runRoutesReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := buildDeps()
	if err != nil {
		return err
	}
	l := d.logger
	defer l.Sync()

	l.Info("Starting route reconciliation")

	plan, err := d.inspector.ReconcileAll(ctx)
	if err != nil {
		return fmt.Errorf("reconciliation failed: %w", err)
	}

	if jsonOutput && !fixRoutes {
		return printJSON(plan)
	}
	printReconcileReport(l, plan)

	if !fixRoutes || len(plan.Actions) == 0 {
		return nil
	}
	if dryRunRoutes {
		l.Info("Dry-run: no repairs executed")
		return nil
	}
	if !confirmDestructiveAction() {
		l.Info("Repairs cancelled")
		return nil
	}

	applied, err := d.inspector.ApplyPlan(ctx, plan, reconcile.Options{Confirmed: true})
	if applied != nil {
		if jsonOutput {
			if perr := printJSON(applied); perr != nil {
				return perr
			}
		}
		l.Info("Repairs executed", zap.Int("executed", applied.Executed), zap.Int("failed", len(applied.Failed)))
		for slug, msg := range applied.Failed {
			l.Error("Repair failed", zap.String("slug", slug), zap.String("error", msg))
		}
	}
	if err != nil {
		return fmt.Errorf("some repairs failed: %w", err)
	}
	return nil
}

// printReconcileReport logs the summary and a sample of the planned repairs.
func printReconcileReport(l *zap.Logger, plan *reconcile.Plan) {
	s := plan.Summary

	l.Info("Reconciliation summary",
		zap.Int("pages", s.Pages),
		zap.Int("routes", s.Routes),
		zap.Int("matched", s.Matched),
		zap.Int("repair_actions", s.RepairActions),
	)

	codes := make([]string, 0, len(s.Diagnoses))
	for code := range s.Diagnoses {
		codes = append(codes, string(code))
	}
	sort.Strings(codes)
	for _, code := range codes {
		l.Info("Diagnosis", zap.String("code", code), zap.Int("count", s.Diagnoses[reconcile.DiagnosisCode(code)]))
	}

	// Show sample of actions (max 5 for logger)
	maxShow := 5
	if len(plan.Actions) < maxShow {
		maxShow = len(plan.Actions)
	}
	for _, action := range plan.Actions[:maxShow] {
		reasons := make([]string, 0, len(action.Reasons))
		for key, code := range action.Reasons {
			reasons = append(reasons, key+"="+string(code))
		}
		sort.Strings(reasons)
		l.Info("Sample action", zap.String("slug", action.Slug), zap.Strings("reasons", reasons))
	}
	if len(plan.Actions) > maxShow {
		l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
	}
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\n⚠️  Type 'yes' to republish the listed pages: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
