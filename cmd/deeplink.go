package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	deepLinkFlags  entityFlags
	deepLinkPortal string
	deepLinkHint   string
)

var deepLinkCmd = &cobra.Command{
	Use:   "deeplink",
	Short: "Find an organization's page within a government portal",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, err := initEngine()
		if err != nil {
			return err
		}

		res := engine.ResolveDeepLink(cmd.Context(), deepLinkFlags.query(), deepLinkPortal, deepLinkHint)
		if res == nil {
			fmt.Fprintln(os.Stderr, "No deep link found.")
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	},
}

func init() {
	deepLinkFlags.bind(deepLinkCmd)
	deepLinkCmd.Flags().StringVar(&deepLinkPortal, "portal", "", "portal domain to search within (required)")
	deepLinkCmd.Flags().StringVar(&deepLinkHint, "hint", "", "extra search terms")
	_ = deepLinkCmd.MarkFlagRequired("portal")
	rootCmd.AddCommand(deepLinkCmd)
}
