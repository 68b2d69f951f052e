package cmd

import (
	"encoding/json"
	"fmt"
	"os"
)

var jsonOutput bool

func init() {
	RootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON instead of logging a summary")
}

// printJSON writes v to stdout, indented.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
