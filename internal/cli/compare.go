package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"policyqa/internal/compare"
)

var (
	compareQuestion string
	compareBaseURL  string
	compareReport   string
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Compare answering strategies against a running server",
	Long: `Run every answering variant against a question, score the responses
with model-judged metrics, and rank them. Requires a running server
(policyqa serve).

Examples:
  policyqa compare -q "What is the password policy?"
  policyqa compare -q "What is the password policy?" --report results/reports`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
	compareCmd.Flags().StringVarP(&compareQuestion, "question", "q", "", "question to compare (required)")
	compareCmd.Flags().StringVar(&compareBaseURL, "base-url", "", "server base URL (default from config)")
	compareCmd.Flags().StringVar(&compareReport, "report", "", "directory to save a markdown report")
	compareCmd.MarkFlagRequired("question")
}

func runCompare(cmd *cobra.Command, args []string) error {
	baseURL := compareBaseURL
	if baseURL == "" {
		baseURL = cfg.Compare.BaseURL
	}

	client := compare.NewClient(baseURL, logger)
	engine := compare.NewEngine(client, time.Duration(cfg.Compare.DelayMillis)*time.Millisecond, cfg.Compare.JudgeRetries, logger)

	comparison, err := engine.Run(cmd.Context(), compareQuestion)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	engine.RenderTable(os.Stdout, comparison)

	if compareReport != "" {
		path, err := compare.SaveReport(comparison, compareReport)
		if err != nil {
			return err
		}
		fmt.Printf("\nReport saved to %s\n", path)
	}
	return nil
}
