// Command cookiectl issues and verifies signed cookie tokens, extracts form
// fields and runs a demo server with the middleware.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func BuildRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cookiectl",
		Short:        "Signed cookie and form field tooling",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		buildIssueCmd(),
		buildVerifyCmd(),
		buildExtractCmd(),
		buildServeCmd(),
	)

	return cmd
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := BuildRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
