package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/config"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/siteclass"
)

var classifyCmd = &cobra.Command{
	Use:   "classify <domain>...",
	Short: "Classify domains as oversight, state or county sites",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lists, err := config.LoadLists(cfg.Resolver.ListsFile)
		if err != nil {
			return err
		}
		c := siteclass.NewClassifier(orDefault(lists.OversightDomains, siteclass.DefaultOversightDomains))

		results := make([]model.SiteClassification, len(args))
		for i, d := range args {
			results[i] = c.Classify(d)
		}
		formatClassifications(os.Stdout, args, results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd)
}

// formatClassifications writes one row per domain to w.
func formatClassifications(out io.Writer, domains []string, results []model.SiteClassification) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DOMAIN\tTYPE\tOVERSIGHT\tSTATE\tCOUNTY\tCONFIDENCE")
	for i, d := range domains {
		r := results[i]
		_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%t\t%t\t%.2f\n",
			d, r.SiteType, r.IsFederalOversight, r.IsStateGov, r.IsCountyPortal, r.Confidence)
	}
	_ = w.Flush()
}
