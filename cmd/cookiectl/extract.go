package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/auth0/go-cookie-middleware/config"
	"github.com/auth0/go-cookie-middleware/core"
)

var errFieldNotFound = errors.New("field not found")

func buildExtractCmd() *cobra.Command {
	var field string

	cmd := &cobra.Command{
		Use:   "extract [FILE]",
		Short: "Print the raw value of a field in an urlencoded body",
		Long:  "Reads the body from FILE, or from standard input when FILE is omitted or \"-\".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			body, err := io.ReadAll(in)
			if err != nil {
				return fmt.Errorf("reading body: %w", err)
			}

			v := core.ExtractFormField(body, config.StripSigil(field))
			if !v.Found {
				return fmt.Errorf("%w: %q", errFieldNotFound, field)
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
			return nil
		},
	}

	cmd.Flags().StringVarP(&field, "field", "f", config.DefaultResponseField, "field name")

	return cmd
}
