package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/cart"
	"github.com/roach88/ahluxe/internal/shop"
)

// CartView is the JSON shape of the cart.
type CartView struct {
	Items  []shop.LineItem `json:"items"`
	Totals shop.Totals     `json:"totals"`
}

// NewCartCommand creates the cart command group.
func NewCartCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and edit the cart",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			s.ctrl.ShowCart()
			return s.done(cartView(s.ctrl.State().Cart))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "add <product-id>...",
		Short: "Add products to the cart",
		Long: `Add one unit of each product to the cart. Adding a product already in the
cart increments its quantity.

Example:
  ahluxe cart add black
  ahluxe cart add black maroon`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, args []string) error {
			for _, id := range args {
				res, err := s.ctrl.AddToCart(s.ctx, id)
				if err != nil {
					return s.fail(err)
				}
				s.formatter.VerboseLog("%s %s (quantity %d)", id, res.Outcome, res.Quantity)
			}
			return s.done(cartView(s.ctrl.State().Cart))
		}),
	})

	var delta int64
	qty := &cobra.Command{
		Use:   "qty <product-id>",
		Short: "Change an item's quantity",
		Long: `Change an item's quantity by --delta. A quantity that drops to zero or
below removes the item. Unknown items are ignored.

Example:
  ahluxe cart qty black --delta 1
  ahluxe cart qty black --delta=-1`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, args []string) error {
			if delta == 0 {
				return usageError(s.formatter, "--delta must not be zero")
			}
			s.ctrl.ChangeQuantity(s.ctx, args[0], delta)
			return s.done(cartView(s.ctrl.State().Cart))
		}),
	}
	qty.Flags().Int64VarP(&delta, "delta", "d", 1, "quantity change (negative to decrease)")
	cmd.AddCommand(qty)

	cmd.AddCommand(&cobra.Command{
		Use:           "rm <product-id>",
		Short:         "Remove an item from the cart",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, args []string) error {
			s.ctrl.RemoveFromCart(s.ctx, args[0])
			return s.done(cartView(s.ctrl.State().Cart))
		}),
	})

	var yes bool
	clearCmd := &cobra.Command{
		Use:           "clear",
		Short:         "Empty the cart",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			if !yes {
				return usageError(s.formatter, "refusing to clear the cart without --yes")
			}
			s.ctrl.ClearCart(s.ctx)
			return s.done(cartView(s.ctrl.State().Cart))
		}),
	}
	clearCmd.Flags().BoolVarP(&yes, "yes", "y", false, "confirm clearing the cart")
	cmd.AddCommand(clearCmd)

	return cmd
}

func cartView(l *cart.Ledger) CartView {
	items := l.Items()
	if items == nil {
		items = []shop.LineItem{}
	}
	return CartView{Items: items, Totals: l.Totals()}
}
