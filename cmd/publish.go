package cmd

import (
	"fmt"
	"os"

	"route-publisher/feature/publish"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	createPage  bool
	pageDomains []string
)

// publishCmd uploads a rendered page and routes all of its domains to it.
var publishCmd = &cobra.Command{
	Use:   "publish <slug> <file>",
	Short: "Publish a rendered HTML file as the new version of a page",
	Long: `Uploads the file, records it as the current version of the page and routes
every domain of the page to it. The command fails unless every domain is verified.

Examples:
  # Publish an existing page
  publish acme ./dist/index.html

  # Register the page first, with a custom domain
  publish acme ./dist/index.html --create --domain acme.io`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		slug, path := args[0], args[1]

		body, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read artifact: %w", err)
		}

		d, err := buildDeps()
		if err != nil {
			return err
		}
		defer d.logger.Sync()

		svc := publish.NewService(d.repo, d.blobs, d.coordinator, d.cfg.Publish, d.cfg.Server, d.logger)

		if createPage {
			if _, _, err := svc.CreatePage(ctx, slug, pageDomains); err != nil {
				return fmt.Errorf("failed to create page: %w", err)
			}
		}

		result, err := svc.Publish(ctx, slug, body)
		if err != nil {
			return err
		}
		if jsonOutput {
			return printJSON(result)
		}
		d.logger.Info("Publish verified",
			zap.String("version", result.Version),
			zap.Strings("domains", result.Domains),
			zap.String("test_url", result.TestURL),
		)
		return nil
	},
}

func init() {
	publishCmd.Flags().BoolVar(&createPage, "create", false, "Register the page if it does not exist yet")
	publishCmd.Flags().StringSliceVar(&pageDomains, "domain", nil, "Custom domain to attach when creating the page (repeatable)")
	RootCmd.AddCommand(publishCmd)
}
