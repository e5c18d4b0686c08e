package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LewF-Dev/local-help-platform/internal/models"
)

func newProvidersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "providers",
		Aliases: []string{"trades"},
		Short:   "Inspect and moderate trade profiles",
	}

	cmd.AddCommand(
		newProvidersListCmd(a),
		newProvidersVerifyCmd(a, true),
		newProvidersVerifyCmd(a, false),
		newProvidersActivateCmd(a),
		newProvidersScoreCmd(a),
	)

	return cmd
}

func newProvidersListCmd(a *app) *cobra.Command {
	var unverifiedOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all trade profiles, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			views, err := a.providers.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "ID\tBUSINESS\tCATEGORY\tPOSTCODE\tVERIFIED\tACTIVE\tSUBSCRIBED\tRECEIVED\tRELIABILITY")
			for _, v := range views {
				if unverifiedOnly && v.Verified {
					continue
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%t\t%t\t%d/%d\t%d%%\n",
					v.ID, v.BusinessName, v.CategoryName, v.Postcode,
					v.Verified, v.Active, v.SubscriptionActive,
					v.EnquiriesReceived, v.FreeQuota, v.Reliability.Percentage)
			}
			return w.Flush()
		},
	}
	cmd.Flags().BoolVar(&unverifiedOnly, "unverified", false, "Only show profiles awaiting verification")

	return cmd
}

func newProvidersVerifyCmd(a *app, verified bool) *cobra.Command {
	use, short, done := "verify <provider-id>", "Mark a trade as verified", "Verified"
	if !verified {
		use, short, done = "unverify <provider-id>", "Withdraw a trade's verification", "Unverified"
	}

	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.providers.SetVerified(cmd.Context(), args[0], verified)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s)\n", done, p.BusinessName, p.ID)
			return nil
		},
	}
}

func newProvidersActivateCmd(a *app) *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "activate <provider-id>",
		Short: "Switch a trade profile back on (or off with --off)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			active := !off
			p, err := a.providers.Update(cmd.Context(), args[0], &models.ProviderUpdate{Active: &active})
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s active: %t\n", p.ID, p.Active)
			return nil
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "Switch the profile off instead")

	return cmd
}

func newProvidersScoreCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "score <provider-id>",
		Short: "Show a trade's reliability score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			score, err := a.providers.Score(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "reliability: %d%%\n", score.Percentage)
			_, _ = fmt.Fprintf(out, "label: %s\n", score.Label)
			_, _ = fmt.Fprintf(out, "description: %s\n", score.Description)
			return nil
		},
	}
}
