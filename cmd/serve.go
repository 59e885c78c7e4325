package cmd

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/resume-advisor/internal/server"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve resume analysis and course plans over HTTP",
	Run: func(cmd *cobra.Command, _ []string) {
		serve(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("address", "", "address to listen on (overrides server.address)")
	serveCmd.Flags().Bool("no-ai", false, "do not request course recommendations")

	viper.BindPFlag("server.address", serveCmd.Flags().Lookup("address"))
}

func serve(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	if noAI, _ := cmd.Flags().GetBool("no-ai"); noAI {
		config.AI.Enabled = false
	}

	logger.Info("starting the resume-advisor", zap.String("version", version))

	recommender, planner, err := newAIServices(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai services", zap.Error(err))
	}

	analyzer, err := newAnalyzer(config, recommender, logger)
	if err != nil {
		logger.Fatal("building analyzer", zap.Error(err))
	}

	srv := server.New(server.Config{
		Address:        config.Server.Address,
		SnippetLength:  config.Server.SnippetLength,
		MaxUploadSize:  config.Server.MaxUploadSize,
		AllowedOrigins: config.Server.AllowedOrigins,
		PlanTimeout:    config.AI.Gemini.Timeout,
	}, analyzer, planner, logger)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Run()
	}()

	select {
	case err := <-errs:
		if err != nil {
			logger.Fatal("http server stopped", zap.Error(err))
		}
		return
	case <-ctx.Done():
	}

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
