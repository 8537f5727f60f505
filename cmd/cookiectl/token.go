package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
)

var errTokenRejected = errors.New("token rejected")

func buildIssueCmd() *cobra.Command {
	var (
		base     string
		expires  string
		noExpiry bool
		at       int64
	)

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Print a token for a base string",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			window, err := config.ParseSeconds(expires)
			if err != nil {
				return fmt.Errorf("--expires: %w", err)
			}

			c, err := core.New(core.WithExpires(window), core.WithClock(clock(at)))
			if err != nil {
				return err
			}

			if noExpiry {
				fmt.Fprintln(cmd.OutOrStdout(), c.IssueDigest([]byte(base)))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), c.IssueToken([]byte(base)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "base string to sign, secret included")
	cmd.Flags().StringVarP(&expires, "expires", "e", strconv.Itoa(int(config.DefaultExpires.Seconds())), "expiry window, seconds or duration")
	cmd.Flags().BoolVar(&noExpiry, "no-expiry", false, "issue a digest without expiry")
	cmd.Flags().Int64Var(&at, "now", 0, "Unix time to issue at (default: current time)")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func buildVerifyCmd() *cobra.Command {
	var (
		base string
		at   int64
	)

	cmd := &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Check a token against a base string",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := core.New(core.WithClock(clock(at)))
			if err != nil {
				return err
			}

			ok, err := c.CheckToken(args[0], []byte(base))
			if ok {
				fmt.Fprintln(cmd.OutOrStdout(), "valid")
				return nil
			}

			var verr *core.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", resultOf(verr), verr.Code)
			}
			return fmt.Errorf("%w: %w", errTokenRejected, err)
		},
	}

	cmd.Flags().StringVarP(&base, "base", "b", "", "base string the token was issued for")
	cmd.Flags().Int64Var(&at, "now", 0, "Unix time to check expiry at (default: current time)")
	_ = cmd.MarkFlagRequired("base")

	return cmd
}

func resultOf(err *core.ValidationError) string {
	if err.Malformed() {
		return "malformed"
	}
	return "invalid"
}

func clock(at int64) func() time.Time {
	if at == 0 {
		return time.Now
	}
	return func() time.Time { return time.Unix(at, 0) }
}
