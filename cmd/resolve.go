package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var (
	resolveFlags    entityFlags
	resolveNoPolicy bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Resolve a single organization to its domain",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		engine, err := initEngine()
		if err != nil {
			return err
		}

		q := resolveFlags.query()
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")

		if resolveNoPolicy {
			res, err := engine.Resolve(ctx, q)
			if err != nil {
				return eris.Wrap(err, "resolve")
			}
			return enc.Encode(res)
		}

		res, err := engine.ResolveWithPolicy(ctx, q)
		if err != nil {
			return eris.Wrap(err, "resolve")
		}
		return enc.Encode(res)
	},
}

func init() {
	resolveFlags.bind(resolveCmd)
	resolveCmd.Flags().BoolVar(&resolveNoPolicy, "no-policy", false, "skip oversight rejection and portal deep-link replacement")
	rootCmd.AddCommand(resolveCmd)
}
