package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/ahluxe/internal/journal"
	"github.com/roach88/ahluxe/internal/shop"
)

// ReviewsView is the JSON shape of the review list.
type ReviewsView struct {
	Reviews []shop.Review `json:"reviews"`
	Average float64       `json:"average"`
	Seeded  bool          `json:"seeded"`
}

// NewReviewsCommand creates the reviews command group.
func NewReviewsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "Show and submit reviews",
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "Show reviews, newest first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			s.ctrl.ShowReviews()
			return s.done(reviewsView(s.ctrl.State().Reviews))
		}),
	})

	var in journal.ReviewInput
	submit := &cobra.Command{
		Use:   "submit",
		Short: "Submit a review",
		Long: `Submit a review. The rating must be between 1 and 5.

Example:
  ahluxe reviews submit --name Hina --rating 5 --product black --text "Lovely fabric"`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: runEvent(rootOpts, func(s *session, _ []string) error {
			if _, err := s.ctrl.SubmitReview(s.ctx, in); err != nil {
				return s.fail(err)
			}
			return s.done(reviewsView(s.ctrl.State().Reviews))
		}),
	}
	f := submit.Flags()
	f.StringVar(&in.Name, "name", "", "reviewer name")
	f.IntVar(&in.Rating, "rating", 0, "rating from 1 to 5")
	f.StringVar(&in.Product, "product", "", "product id (default: the shop in general)")
	f.StringVar(&in.Text, "text", "", "review text")
	cmd.AddCommand(submit)

	return cmd
}

func reviewsView(r *journal.Reviews) ReviewsView {
	list := r.ListOrSeed()
	if list == nil {
		list = []shop.Review{}
	}
	return ReviewsView{Reviews: list, Average: r.Average(), Seeded: r.Seeded()}
}
