package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print your current profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := opts.client(opts.logger(cmd))

			p, found, err := client.LoadProfile(cmd.Context())
			if err != nil {
				return fmt.Errorf("load profile: %w", err)
			}
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "no profile yet, create one with: profilectl edit --set username=<name>")
				return nil
			}

			return printProfile(cmd.OutOrStdout(), opts.output, p)
		},
	}
}
