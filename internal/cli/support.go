package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/support"
)

// NewCancelCommand creates the cancel command.
func NewCancelCommand(rootOpts *RootOptions) *cobra.Command {
	var in support.CancelRequest

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Request cancellation of an order",
		Long: `Send a cancellation request for an order to the shop. The order history
is not changed; the shop confirms cancellations over chat.

Example:
  ahluxe cancel --order AHL-00003 --phone 03001234567 --reason "Ordered twice"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			req, _, err := s.ctrl.RequestCancellation(s.ctx, in)
			if err != nil {
				return s.fail(err)
			}
			return s.done(req)
		}),
	}

	cmd.Flags().StringVar(&in.OrderNumber, "order", "", "order number (required)")
	cmd.Flags().StringVar(&in.Phone, "phone", "", "phone used for the order (required)")
	cmd.Flags().StringVar(&in.Reason, "reason", "", "reason for cancelling")

	return cmd
}

// NewContactCommand creates the contact command.
func NewContactCommand(rootOpts *RootOptions) *cobra.Command {
	var in support.ContactForm

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a message to the shop",
		Long: `Send a message to the shop.

Example:
  ahluxe contact --name Sana --message "Do you ship to Karachi?"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			msg, _, err := s.ctrl.SendContact(s.ctx, in)
			if err != nil {
				return s.fail(err)
			}
			return s.done(msg)
		}),
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "your name (required)")
	cmd.Flags().StringVar(&in.Email, "email", "", "your email")
	cmd.Flags().StringVar(&in.Message, "message", "", "message text (required)")

	return cmd
}
