package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(wire wireFunc) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "tradesctl",
		Short:         "Operate the local trades platform",
		Long:          "tradesctl verifies trades, inspects reliability scores, runs subscription housekeeping and manages admin accounts and email templates.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := wire(cmd.Context())
			if err != nil {
				return err
			}
			*a = *loaded
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.close != nil {
				a.close()
			}
		},
	}

	rootCmd.AddCommand(
		newProvidersCmd(a),
		newSubscriptionsCmd(a),
		newUsersCmd(a),
		newTemplatesCmd(a),
	)

	return rootCmd
}
