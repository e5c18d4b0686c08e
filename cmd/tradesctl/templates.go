package main

import (
	"fmt"
	"os"
	"text/template"

	"github.com/spf13/cobra"

	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Manage email templates",
	}

	cmd.AddCommand(newTemplatesSetCmd(a))

	return cmd
}

func newTemplatesSetCmd(a *app) *cobra.Command {
	var (
		locale   string
		subject  string
		bodyFile string
	)

	cmd := &cobra.Command{
		Use:   "set <template-id>",
		Short: "Store a template override (new_enquiry, welcome_trade, welcome_client)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(bodyFile)
			if err != nil {
				return fmt.Errorf("read template body: %w", err)
			}

			for part, src := range map[string]string{"subject": subject, "body": string(body)} {
				if _, err := template.New(part).Parse(src); err != nil {
					return fmt.Errorf("invalid template %s: %w", part, err)
				}
			}

			tpl := &models.EmailTemplate{
				TemplateID: args[0],
				Locale:     locale,
				Subject:    subject,
				Body:       string(body),
			}
			if err := a.templates.SaveTemplate(cmd.Context(), tpl); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved template %s (%s)\n", tpl.TemplateID, tpl.Locale)
			return nil
		},
	}
	cmd.Flags().StringVar(&locale, "locale", services.DefaultLocale, "Template locale")
	cmd.Flags().StringVar(&subject, "subject", "", "Subject line (text/template)")
	cmd.Flags().StringVar(&bodyFile, "body-file", "", "Path to the body (text/template)")
	_ = cmd.MarkFlagRequired("subject")
	_ = cmd.MarkFlagRequired("body-file")

	return cmd
}
