package cli

import (
	"github.com/spf13/cobra"
)

// WishlistView is the JSON shape of the wishlist.
type WishlistView struct {
	IDs     []string `json:"ids"`
	Outcome string   `json:"outcome,omitempty"`
}

// NewWishlistCommand creates the wishlist command group.
func NewWishlistCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Show and edit the wishlist",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "show",
		Short:         "Show the wishlist",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			s.ctrl.ShowWishlist()
			return s.done(wishlistView(s, ""))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "toggle <product-id>",
		Short:         "Add or remove a product",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, args []string) error {
			out := s.ctrl.ToggleWishlist(s.ctx, args[0])
			return s.done(wishlistView(s, string(out)))
		}),
	})

	cmd.AddCommand(&cobra.Command{
		Use:           "rm <product-id>",
		Short:         "Remove a product if present",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, args []string) error {
			s.ctrl.RemoveFromWishlist(s.ctx, args[0])
			return s.done(wishlistView(s, ""))
		}),
	})

	return cmd
}

func wishlistView(s *session, outcome string) WishlistView {
	ids := s.ctrl.State().Wishlist.IDs()
	if ids == nil {
		ids = []string{}
	}
	return WishlistView{IDs: ids, Outcome: outcome}
}
