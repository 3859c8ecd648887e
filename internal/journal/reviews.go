package journal

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/roach88/ahluxe/internal/kv"
	"github.com/roach88/ahluxe/internal/shop"
)

// ErrInvalidRating is returned by Submit when the rating is outside 1..5.
var ErrInvalidRating = errors.New("journal: rating must be between 1 and 5")

// SeedPolicy decides what an empty review journal displays.
type SeedPolicy string

const (
	// SeedDefaults shows the built-in sample reviews until the first
	// genuine submission. Samples are never persisted.
	SeedDefaults SeedPolicy = "defaults"
	// SeedNone shows an empty journal.
	SeedNone SeedPolicy = "none"
)

// Valid reports whether p is a known policy.
func (p SeedPolicy) Valid() bool {
	return p == SeedDefaults || p == SeedNone
}

// SampleReviews is the built-in catalog shown on first run.
func SampleReviews() []shop.Review {
	return []shop.Review{
		{
			Name:     "Ayesha K.",
			Rating:   5,
			Product:  "black",
			Text:     "Beautiful stitching and the fabric feels premium. Delivery was quick too.",
			Date:     "2025-11-02T09:15:00.000Z",
			Verified: true,
		},
		{
			Name:     "Fatima R.",
			Rating:   5,
			Product:  "maroon",
			Text:     "Exactly like the pictures. Ordering over WhatsApp was so easy!",
			Date:     "2025-10-21T16:40:00.000Z",
			Verified: true,
		},
		{
			Name:     "Hira S.",
			Rating:   4,
			Product:  shop.GeneralProduct,
			Text:     "Lovely collection and helpful support. Will order again.",
			Date:     "2025-10-08T12:05:00.000Z",
			Verified: true,
		},
	}
}

// ReviewInput is the review form.
type ReviewInput struct {
	Name    string
	Rating  int
	Product string
	Text    string
}

// Reviews is the review journal, newest-first.
type Reviews struct {
	list  *List[shop.Review]
	clock shop.Clock

	mu sync.Mutex
	// seeded is decided once at load: the journal was empty and the policy
	// asks for samples. It turns off at the first persisted submission.
	seeded bool
}

// LoadReviews reads the persisted reviews and applies the seed policy.
func LoadReviews(ctx context.Context, store kv.Store, policy SeedPolicy, clock shop.Clock, logger *slog.Logger) *Reviews {
	if clock == nil {
		clock = shop.SystemClock{}
	}
	list := LoadList[shop.Review](ctx, store, kv.KeyReviews, logger)
	return &Reviews{
		list:   list,
		clock:  clock,
		seeded: policy == SeedDefaults && list.Len() == 0,
	}
}

// ListOrSeed returns the reviews to display: the samples while seeded,
// otherwise the persisted reviews.
func (r *Reviews) ListOrSeed() []shop.Review {
	r.mu.Lock()
	seeded := r.seeded
	r.mu.Unlock()
	if seeded {
		return SampleReviews()
	}
	return r.list.All()
}

// Persisted returns only the reviews actually stored.
func (r *Reviews) Persisted() []shop.Review {
	return r.list.All()
}

// Seeded reports whether the samples are being shown.
func (r *Reviews) Seeded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.seeded
}

// Submit validates and prepends a review, then returns the updated list.
// User submissions are never verified. An empty product targets the shop in
// general.
func (r *Reviews) Submit(ctx context.Context, in ReviewInput) ([]shop.Review, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return nil, ErrInvalidRating
	}

	product := strings.TrimSpace(in.Product)
	if product == "" {
		product = shop.GeneralProduct
	}
	review := shop.Review{
		Name:     in.Name,
		Rating:   in.Rating,
		Product:  product,
		Text:     in.Text,
		Date:     shop.FormatISODate(r.clock.Now()),
		Verified: false,
	}

	r.list.Prepend(ctx, review)

	r.mu.Lock()
	r.seeded = false
	r.mu.Unlock()

	return r.list.All(), nil
}

// Average returns the mean rating of the displayed reviews, or 0 when empty.
func (r *Reviews) Average() float64 {
	reviews := r.ListOrSeed()
	if len(reviews) == 0 {
		return 0
	}
	var sum int
	for _, rv := range reviews {
		sum += rv.Rating
	}
	return float64(sum) / float64(len(reviews))
}
