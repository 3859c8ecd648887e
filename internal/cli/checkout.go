package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/ui"
)

// CheckoutOptions holds the customer form fields.
type CheckoutOptions struct {
	*RootOptions
	Customer shop.Customer
	NoSave   bool
}

// NewCheckoutCommand creates the checkout command.
func NewCheckoutCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CheckoutOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart",
		Long: `Open checkout for the current cart and submit it.

Fields left blank are filled from the last saved checkout form. The order
confirmation is handed to the chat channel; in text mode the link to open
is printed.

Example:
  ahluxe checkout --name Ayesha --phone 03001234567 --city Lahore
  ahluxe checkout summary`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			customer := prefill(opts.Customer, s)
			res, err := s.ctrl.Checkout(s.ctx, customer)
			if err != nil {
				return s.fail(err)
			}
			if opts.NoSave {
				s.ctrl.State().Forms.Clear(s.ctx)
			}
			return s.done(res)
		}),
	}

	f := cmd.Flags()
	f.StringVar(&opts.Customer.Name, "name", "", "customer name")
	f.StringVar(&opts.Customer.Phone, "phone", "", "customer phone")
	f.StringVar(&opts.Customer.Email, "email", "", "customer email")
	f.StringVar(&opts.Customer.Address, "address", "", "delivery address")
	f.StringVar(&opts.Customer.City, "city", "", "delivery city")
	f.StringVar(&opts.Customer.Postal, "postal", "", "postal code")
	f.StringVar(&opts.Customer.Notes, "notes", "", "order notes")
	f.BoolVar(&opts.NoSave, "no-save", false, "do not remember the form for next time")

	cmd.AddCommand(&cobra.Command{
		Use:   "summary",
		Short: "Show the checkout summary without ordering",
		Long: `Show the checkout summary without ordering.

Opening checkout reserves an order number; dismissing the summary consumes
it.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			summary, err := s.ctrl.OpenCheckout(s.ctx)
			if err != nil {
				return s.fail(err)
			}
			s.ctrl.CloseCheckout()
			return s.done(summaryView(summary))
		}),
	})

	return cmd
}

// SummaryView is the JSON shape of the checkout summary.
type SummaryView struct {
	OrderNumber string        `json:"orderNumber"`
	Lines       []string      `json:"lines"`
	Totals      shop.Totals   `json:"totals"`
	Prefill     shop.Customer `json:"prefill"`
}

func summaryView(s ui.Summary) SummaryView {
	return SummaryView(s)
}

// prefill fills blank fields of c from the saved checkout form.
func prefill(c shop.Customer, s *session) shop.Customer {
	form, ok := s.ctrl.State().Forms.Load(s.ctx)
	if !ok {
		return c
	}
	saved := form.Customer()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&c.Name, saved.Name)
	fill(&c.Phone, saved.Phone)
	fill(&c.Email, saved.Email)
	fill(&c.Address, saved.Address)
	fill(&c.City, saved.City)
	return c
}
