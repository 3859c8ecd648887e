package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/shop"
	"github.com/roach88/ahluxe/internal/ui"
)

// OrdersView is the JSON shape of the order history.
type OrdersView struct {
	Orders      []shop.Order `json:"orders"`
	TotalOrders int64        `json:"totalOrders"`
}

// NewOrdersCommand creates the orders command.
func NewOrdersCommand(rootOpts *RootOptions) *cobra.Command {
	var number string

	cmd := &cobra.Command{
		Use:   "orders",
		Short: "Show order history, newest first",
		Long: `Show order history, newest first.

Example:
  ahluxe orders
  ahluxe orders --number AHL-00003`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			orders := s.ctrl.State().Orders
			if number != "" {
				order, ok := orders.Find(number)
				if !ok {
					return usageError(s.formatter, fmt.Sprintf("order %s not found", number))
				}
				if !s.formatter.JSON() {
					ui.Text{W: s.formatter.Writer}.RenderOrders([]shop.Order{order})
				}
				return s.done(order)
			}

			s.ctrl.ShowOrders(s.ctx)
			list := orders.Newest()
			if list == nil {
				list = []shop.Order{}
			}
			return s.done(OrdersView{Orders: list, TotalOrders: s.ctrl.State().Sequence.Last(s.ctx)})
		}),
	}

	cmd.Flags().StringVar(&number, "number", "", "show a single order")

	return cmd
}
