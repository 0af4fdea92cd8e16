package cli

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a question from the command line",
	Long: `Answer a single question through the full pipeline: retrieve passages,
judge their relevance, and generate the answer.

Examples:
  policyqa ask "What is the password policy?"
  policyqa ask What happens when an employee leaves`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")

	st, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	answer, err := st.pipeline.Answer(cmd.Context(), question)
	if err != nil {
		return err
	}

	color.New(color.FgCyan, color.Bold).Printf("Q: %s\n\n", question)
	fmt.Println(answer)
	return nil
}
