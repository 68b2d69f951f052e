package cmd

import (
	"fmt"

	"route-publisher/core/reconcile"
	"route-publisher/feature/routes"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// routesCmd groups single-page consistency commands.
var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "Inspect and repair the route of a single page",
}

var routesCheckCmd = &cobra.Command{
	Use:   "check <slug>",
	Short: "Compare the cached route of a page with the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoutesAction(cmd, args[0], routes.ActionCheck)
	},
}

var routesFixCmd = &cobra.Command{
	Use:   "fix <slug>",
	Short: "Republish the current version of a page to all of its domains",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRoutesAction(cmd, args[0], routes.ActionFix)
	},
}

func init() {
	routesCmd.AddCommand(routesCheckCmd)
	routesCmd.AddCommand(routesFixCmd)
	RootCmd.AddCommand(routesCmd)
}

func runRoutesAction(cmd *cobra.Command, slug, action string) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	defer d.logger.Sync()

	out, err := routes.NewService(d.inspector, d.logger).Run(cmd.Context(), slug, action)
	if err != nil {
		return fmt.Errorf("routes %s %s: %w", action, slug, err)
	}
	if jsonOutput {
		return printJSON(out)
	}

	switch v := out.(type) {
	case *reconcile.Report:
		printRouteReport(d.logger, v)
	case *reconcile.RepairResult:
		d.logger.Info("Route repaired",
			zap.String("route_key", v.RouteKey),
			zap.String("version", v.Updated.Version),
			zap.Strings("domains", v.Domains),
			zap.Int("attempts", v.Attempts),
			zap.String("test_url", v.TestURL),
		)
	}
	return nil
}

func printRouteReport(l *zap.Logger, r *reconcile.Report) {
	fields := []zap.Field{
		zap.String("slug", r.Slug),
		zap.String("route_key", r.RouteKey),
		zap.String("diagnosis", string(r.Diagnosis)),
		zap.Bool("kv_exists", r.KV.Exists),
	}
	if r.KV.Entry != nil {
		fields = append(fields, zap.String("kv_version", r.KV.Entry.Version))
	}
	if r.Database != nil && r.Database.CurrentVersion != nil {
		fields = append(fields, zap.String("db_version", r.Database.CurrentVersion.Version))
	}
	if r.Blob != nil {
		fields = append(fields, zap.Bool("blob_exists", r.Blob.Exists))
	}

	if r.Diagnosis == reconcile.DiagnosisMatch {
		l.Info("Route consistent", fields...)
		return
	}
	fields = append(fields, zap.Bool("repairable", r.Diagnosis.Repairable()))
	l.Warn("Route inconsistent", fields...)
}
