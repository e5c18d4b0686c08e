package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSubscriptionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscriptions",
		Short: "Manage trade subscriptions",
	}

	cmd.AddCommand(
		newSubscriptionsActivateCmd(a),
		newSubscriptionsCancelCmd(a),
		newSubscriptionsExpireCmd(a),
	)

	return cmd
}

func newSubscriptionsActivateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <provider-id>",
		Short: "Start a subscription period for a trade",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.subscriptions.Activate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Subscription for %s runs until %s\n", p.ID, p.SubscriptionEndsAt.Format("2006-01-02"))
			if !p.Active {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Profile is still switched off; run 'providers activate' to list it again.")
			}
			return nil
		},
	}
}

func newSubscriptionsCancelCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <provider-id>",
		Short: "End a trade's subscription now",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.subscriptions.Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Cancelled subscription for %s\n", p.ID)
			return nil
		},
	}
}

func newSubscriptionsExpireCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "expire",
		Short: "Cancel every subscription whose period has ended",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			n, err := a.subscriptions.ExpireLapsed(cmd.Context())
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Expired %d subscription(s)\n", n)
			return nil
		},
	}
}
