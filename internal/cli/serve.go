package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"policyqa/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API serving the answering pipeline.

Endpoints:
  POST /api/query     Answer a question through the full pipeline
  POST /api/complete  Raw completion for external tooling
  GET  /api/health    Index and model status`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	st, err := buildStack(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(st.pipeline, st.llm, st.store, logger)
	fmt.Printf("Listening on http://%s:%d\n", cfg.Server.Host, cfg.Server.Port)
	return srv.Run(ctx, cfg.Server.Host, cfg.Server.Port)
}
