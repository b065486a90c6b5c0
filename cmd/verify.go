package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/SantaJordan/blueprint-gtm-playbooks-sub000/internal/model"
)

var (
	verifyFlags    entityFlags
	verifyURL      string
	verifyTextFile string
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Judge whether a page is the organization's official site",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		v, reader := initVerifier(cfg)

		var judgment model.VerificationJudgment
		if verifyTextFile != "" {
			text, err := os.ReadFile(verifyTextFile)
			if err != nil {
				return eris.Wrap(err, "verify: read page text")
			}
			judgment = v.Judge(ctx, verifyFlags.query(), verifyURL, string(text))
		} else {
			judgment = v.FetchAndJudge(ctx, reader, verifyFlags.query(), verifyURL)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(judgment)
	},
}

func init() {
	verifyFlags.bind(verifyCmd)
	verifyCmd.Flags().StringVar(&verifyURL, "url", "", "page URL to judge (required)")
	verifyCmd.Flags().StringVar(&verifyTextFile, "text-file", "", "read page text from a file instead of fetching the URL")
	_ = verifyCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(verifyCmd)
}
