package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/shop"
)

// NewFormCommand creates the form command group for the saved checkout form.
func NewFormCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "form",
		Short: "Show or forget the saved checkout form",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the saved checkout form",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			form, ok := s.ctrl.State().Forms.Load(s.ctx)
			if s.formatter.JSON() {
				if !ok {
					return s.done(nil)
				}
				return s.done(form)
			}
			if !ok {
				fmt.Fprintln(s.formatter.Writer, "No saved form")
				return nil
			}
			printForm(s, form)
			return nil
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "clear",
		Short:         "Forget the saved checkout form",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			s.ctrl.State().Forms.Clear(s.ctx)
			if !s.formatter.JSON() {
				fmt.Fprintln(s.formatter.Writer, "Saved form cleared")
			}
			return s.done(nil)
		}),
	})

	return cmd
}

func printForm(s *session, form shop.SavedCustomerForm) {
	w := s.formatter.Writer
	fmt.Fprintf(w, "Name:    %s\n", form.Name)
	fmt.Fprintf(w, "Phone:   %s\n", form.Phone)
	fmt.Fprintf(w, "Email:   %s\n", form.Email)
	fmt.Fprintf(w, "Address: %s\n", form.Address)
	fmt.Fprintf(w, "City:    %s\n", form.City)
}
