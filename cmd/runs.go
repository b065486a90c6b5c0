package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/store"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect batch run history",
	Long:  "Commands for listing runs and viewing their per-entity results.",
}

// -- runs list --

var runsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List batch runs",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		status, _ := cmd.Flags().GetString("status")
		limit, _ := cmd.Flags().GetInt("limit")

		runs, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatus(status), Limit: limit})
		if err != nil {
			return eris.Wrap(err, "runs list")
		}

		if len(runs) == 0 {
			fmt.Fprintln(os.Stderr, "No runs found.")
			return nil
		}

		formatRunsList(os.Stdout, runs)
		return nil
	},
}

// -- runs show --

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show full details of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		run, err := st.GetRun(ctx, args[0])
		if err != nil {
			return eris.Wrap(err, "runs show")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	},
}

// -- runs results --

var runsResultsCmd = &cobra.Command{
	Use:   "results <run-id>",
	Short: "List per-entity results of a run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		outcome, _ := cmd.Flags().GetString("outcome")
		limit, _ := cmd.Flags().GetInt("limit")

		results, err := st.ListResults(ctx, store.ResultFilter{
			RunID:   args[0],
			Outcome: model.Outcome(outcome),
			Limit:   limit,
		})
		if err != nil {
			return eris.Wrap(err, "runs results")
		}

		if len(results) == 0 {
			fmt.Fprintln(os.Stderr, "No results found.")
			return nil
		}

		formatResultsList(os.Stdout, results)
		return nil
	},
}

func init() {
	runsListCmd.Flags().String("status", "", "filter by run status (running, complete, failed)")
	runsListCmd.Flags().Int("limit", 50, "max number of runs to display")

	runsResultsCmd.Flags().String("outcome", "", "filter by outcome (resolved, deep_link, rejected, unresolved, error)")
	runsResultsCmd.Flags().Int("limit", 100, "max number of results to display")

	runsCmd.AddCommand(runsListCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.AddCommand(runsResultsCmd)
	rootCmd.AddCommand(runsCmd)
}

// formatRunsList writes a tabular list of runs to w.
func formatRunsList(out io.Writer, runs []model.Run) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tINPUT\tSTATUS\tTOTAL\tRESOLVED\tERRORS\tCREATED\tDURATION")
	for _, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		dur := "-"
		if r.Status != model.RunStatusRunning {
			dur = r.UpdatedAt.Sub(r.CreatedAt).Round(time.Second).String()
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			id, r.Input, r.Status, r.Stats.Total, r.Stats.Resolved+r.Stats.DeepLinks,
			r.Stats.Errors, r.CreatedAt.Format("2006-01-02 15:04"), dur)
	}
	_ = w.Flush()
}

// formatResultsList writes a tabular list of entity results to w.
func formatResultsList(out io.Writer, results []model.ResultRecord) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "LINE\tENTITY\tOUTCOME\tDOMAIN\tCONFIDENCE\tERROR")
	for _, r := range results {
		name := r.EntityKey
		if r.Resolution != nil && r.Resolution.Query.Name != "" {
			name = r.Resolution.Query.Name
		}
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.0f\t%s\n",
			r.Line, name, r.Outcome, r.Domain, r.Confidence, r.Error)
	}
	_ = w.Flush()
}
