// Package recommend picks the storefront's featured baskets through an
// ordered chain of selection policies. Each policy is pure given a time
// context; the first one returning a non-empty result wins. The chain is
// configured once at startup, never swapped at runtime.
package recommend

import (
	"context"
	"log/slog"
	"time"

	"github.com/year-3-projects-cti/baskIT/internal/logging"
)

// Candidate is one featured pick.
type Candidate struct {
	BasketID string `json:"basketId"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
}

// Catalog supplies selection inputs. Only in-stock baskets come back.
type Catalog interface {
	Newest(ctx context.Context, limit int) ([]Candidate, error)
	Seasonal(ctx context.Context, season string, limit int) ([]Candidate, error)
	Curated(ctx context.Context, limit int) ([]Candidate, error)
}

// TimeContext is the only ambient input policies see.
type TimeContext struct {
	Date time.Time
}

type Policy interface {
	Name() string
	Featured(ctx context.Context, tc TimeContext, limit int) ([]Candidate, error)
}

// Chain tries its policies in configured order.
type Chain struct {
	policies []Policy
	log      *slog.Logger
}

func NewChain(policies ...Policy) *Chain {
	return &Chain{policies: policies, log: logging.New("recommend")}
}

// Featured returns the first policy's non-empty result, or an empty
// slice when every policy comes up dry. Policy errors skip to the next
// policy rather than failing the whole chain.
func (c *Chain) Featured(ctx context.Context, tc TimeContext, limit int) []Candidate {
	for _, p := range c.policies {
		picks, err := p.Featured(ctx, tc, limit)
		if err != nil {
			c.log.Warn("recommendation policy failed", "policy", p.Name(), "error", err)
			continue
		}
		if len(picks) > 0 {
			return picks
		}
	}
	return []Candidate{}
}

// Curated returns the manually pinned baskets.
type Curated struct{ Cat Catalog }

func (p Curated) Name() string { return "curated" }

func (p Curated) Featured(ctx context.Context, _ TimeContext, limit int) ([]Candidate, error) {
	return p.Cat.Curated(ctx, limit)
}

// Seasonal maps the calendar month to a seasonal theme and returns
// baskets tagged for it. Months without a theme return nothing so the
// chain falls through.
type Seasonal struct{ Cat Catalog }

func (p Seasonal) Name() string { return "seasonal" }

func (p Seasonal) Featured(ctx context.Context, tc TimeContext, limit int) ([]Candidate, error) {
	season := seasonFor(tc.Date.Month())
	if season == "" {
		return nil, nil
	}
	return p.Cat.Seasonal(ctx, season, limit)
}

func seasonFor(m time.Month) string {
	switch m {
	case time.November, time.December:
		return "christmas"
	case time.January, time.February:
		return "valentines"
	case time.March, time.April:
		return "easter"
	case time.June, time.July, time.August:
		return "summer"
	default:
		return ""
	}
}

// Newest is the terminal fallback: most recently added baskets.
type Newest struct{ Cat Catalog }

func (p Newest) Name() string { return "newest" }

func (p Newest) Featured(ctx context.Context, _ TimeContext, limit int) ([]Candidate, error) {
	return p.Cat.Newest(ctx, limit)
}
