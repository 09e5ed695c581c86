package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yungbote/amelfit-backend/internal/app"
	"github.com/yungbote/amelfit-backend/internal/platform/envutil"
	"github.com/yungbote/amelfit-backend/internal/platform/logger"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFiles []string

	root := &cobra.Command{
		Use:           "amelfit",
		Short:         "Amel Fit Coach API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			app.LoadDotEnv(envFiles...)
		},
	}
	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load (default .env)")

	root.AddCommand(newServeCmd())
	root.AddCommand(newMigrateCmd())
	root.AddCommand(newSeedCmd())
	return root
}

func withLogger(fn func(log *logger.Logger) error) error {
	log, err := app.NewLogger(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return err
	}
	defer log.Sync()
	return fn(log)
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLogger(func(log *logger.Logger) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				a, err := app.New(ctx, log)
				if err != nil {
					return err
				}
				defer a.Close()
				return a.Run(ctx)
			})
		},
	}
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withLogger(app.Migrate)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the default course catalog and site content",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withLogger(func(log *logger.Logger) error {
				res, err := app.Seed(cmd.Context(), log)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (courses=%d sections=%d)\n", res.Message, res.Courses, res.Sections)
				return nil
			})
		},
	}
}
