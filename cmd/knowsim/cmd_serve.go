package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nvandessel/knowsim/internal/results"
	"github.com/nvandessel/knowsim/internal/visualization"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored runs as charts over a local HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			resultsDir, _ := cmd.Flags().GetString("results")
			noOpen, _ := cmd.Flags().GetBool("no-open")

			store, err := results.NewSQLiteStore(resultsDir)
			if err != nil {
				return fmt.Errorf("open result store: %w", err)
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := visualization.NewServer(store)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe(ctx) }()

			// Wait for the listener before announcing the URL.
			for srv.Addr() == "" {
				select {
				case err := <-errCh:
					return err
				case <-time.After(10 * time.Millisecond):
				}
			}

			url := "http://" + srv.Addr()
			fmt.Fprintf(cmd.OutOrStdout(), "Results server running at %s (Ctrl-C to stop)\n", url)
			if !noOpen {
				if err := visualization.OpenBrowser(url); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "could not open browser: %v\n", err)
				}
			}

			return <-errCh
		},
	}

	cmd.Flags().Bool("no-open", false, "Do not open the browser")
	return cmd
}
