package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/krishisetu/krishi-cli/internal/api"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the advisory HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		svc, llm := initAdvisor(st)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := api.NewServer(api.Config{
			Advisor:   svc,
			Records:   st,
			Weather:   initWeather(),
			LLM:       llm,
			Model:     cfg.Anthropic.Model,
			MaxTokens: cfg.Anthropic.MaxTokens,
			Port:      port,
			Logger:    zap.L(),
		})

		if err := srv.Serve(ctx); err != nil {
			return eris.Wrap(err, "serve")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
