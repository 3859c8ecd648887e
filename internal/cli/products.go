package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/shop"
)

// NewProductsCommand creates the products command.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "products",
		Short:         "List the catalog",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			products := s.ctrl.Catalog().All()
			if s.formatter.JSON() {
				return s.done(products)
			}
			for _, p := range products {
				fmt.Fprintf(s.formatter.Writer, "%-10s %-24s %s\n", p.ID, p.Name, shop.FormatAmount(p.Price))
			}
			return nil
		}),
	}
}
