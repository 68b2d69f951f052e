package cmd

import (
	"context"
	"fmt"

	"route-publisher/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var fixFlag bool

// integrityCmd runs every integrity check.
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the database, storage and route store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, true, true)
	},
}

var serverIntegrityCmd = &cobra.Command{
	Use:   "server",
	Short: "Check the page database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), true, false, false)
	},
}

var storageIntegrityCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check (and with --fix create) the artifact bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, true, false)
	},
}

var cacheIntegrityCmd = &cobra.Command{
	Use:   "cache",
	Short: "Check that the route store is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runIntegrityChecks(cmd.Context(), false, false, true)
	},
}

func init() {
	storageIntegrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when it is missing")

	integrityCmd.AddCommand(serverIntegrityCmd)
	integrityCmd.AddCommand(storageIntegrityCmd)
	integrityCmd.AddCommand(cacheIntegrityCmd)
	RootCmd.AddCommand(integrityCmd)
}

func runIntegrityChecks(ctx context.Context, checkServer, checkStorage, checkCache bool) error {
	d, err := buildDeps()
	if err != nil {
		return err
	}
	l := d.logger
	defer l.Sync()

	svc := integrity.NewService(d.storage, d.cfg.Storage, d.db, d.cfg.Cache.Driver, d.pinger, l)
	results := map[string]any{}
	healthy := true

	if checkServer {
		report, err := svc.CheckServer()
		if err != nil {
			return fmt.Errorf("server check failed: %w", err)
		}
		results["server"] = report
		healthy = healthy && report.Matched
		l.Info("Server integrity", zap.String("driver", report.Driver), zap.Bool("matched", report.Matched), zap.Strings("errors", report.Errors))
	}

	if checkStorage {
		check := svc.CheckStorage
		if fixFlag {
			check = svc.FixStorage
		}
		report, err := check(ctx)
		if err != nil {
			return fmt.Errorf("storage check failed: %w", err)
		}
		results["storage"] = report
		healthy = healthy && report.Exists
		l.Info("Storage integrity", zap.String("bucket", report.Bucket), zap.Bool("exists", report.Exists), zap.Bool("fixed", report.Fixed))
	}

	if checkCache {
		report := svc.CheckCache(ctx)
		results["cache"] = report
		healthy = healthy && report.Reachable
		l.Info("Cache integrity", zap.String("driver", report.Driver), zap.Bool("reachable", report.Reachable))
	}

	if jsonOutput {
		if err := printJSON(results); err != nil {
			return err
		}
	}
	if !healthy {
		return fmt.Errorf("integrity checks reported problems")
	}
	return nil
}
