package quote

import (
	"math"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/nandoportifolio33/cotacao-api/internal/common"
)

// Group holds every quote sharing one product name, in insertion order,
// annotated with the group's minimum unit price.
type Group struct {
	ProductName string  `json:"product_name"`
	Minimum     float64 `json:"minimum"`
	Quotes      []Quote `json:"quotes"`
}

// GroupByProduct partitions quotes by exact product name. Group order follows
// first appearance and quotes keep their relative order inside each group, so
// the result is deterministic for a given input sequence. No quote is dropped
// or duplicated.
func GroupByProduct(quotes []Quote) []Group {
	index := make(map[string]int, len(quotes))
	groups := make([]Group, 0)
	for _, q := range quotes {
		i, ok := index[q.ProductName]
		if !ok {
			i = len(groups)
			index[q.ProductName] = i
			groups = append(groups, Group{ProductName: q.ProductName})
		}
		groups[i].Quotes = append(groups[i].Quotes, q)
	}
	for i := range groups {
		groups[i].Minimum = GroupMinimum(groups[i].Quotes)
	}
	return groups
}

// GroupMinimum returns the lowest unit price in the group, or zero for an
// empty group.
func GroupMinimum(quotes []Quote) float64 {
	if len(quotes) == 0 {
		return 0
	}
	min := quotes[0].UnitPrice
	for _, q := range quotes[1:] {
		if q.UnitPrice < min {
			min = q.UnitPrice
		}
	}
	return min
}

// MinimumsByProduct resolves the group minimum for every product in one pass.
func MinimumsByProduct(quotes []Quote) map[string]float64 {
	mins := make(map[string]float64, len(quotes))
	for _, q := range quotes {
		if current, ok := mins[q.ProductName]; !ok || q.UnitPrice < current {
			mins[q.ProductName] = q.UnitPrice
		}
	}
	return mins
}

// IsWinner reports whether the quote carries its group's minimum price.
// Ties count: every quote equal to the minimum is a winner.
func IsWinner(q Quote, minimum float64) bool {
	return q.UnitPrice == minimum
}

// Delta computes the percentage premium of a quote over its group minimum,
// rounded half-up to two decimals. It returns nil when the quote is itself
// the minimum, or when the minimum is zero or non-finite, so a zero-priced
// quote can never poison the view with Inf or NaN.
func Delta(unitPrice, minimum float64) *float64 {
	if math.IsNaN(unitPrice) || math.IsInf(unitPrice, 0) {
		return nil
	}
	if minimum <= 0 || math.IsNaN(minimum) || math.IsInf(minimum, 0) {
		return nil
	}
	if unitPrice == minimum {
		return nil
	}
	pct := math.Round(((unitPrice-minimum)/minimum)*100*100) / 100
	return &pct
}

// RepresentativeWinners lists one representative's group-minimal quotes,
// de-duplicated by product, with the purchase total they add up to.
type RepresentativeWinners struct {
	Representative string  `json:"representative"`
	Quotes         []Quote `json:"quotes"`
	Total          float64 `json:"total"`
}

// WinnersByRepresentative collects, per representative, the quotes that carry
// their product's minimum price. Within a representative the collection is
// keyed by product name: a later minimal quote for the same product replaces
// the earlier one. When two representatives tie at the minimum, both receive
// an entry for the product. Output order is collated representative name.
func WinnersByRepresentative(quotes []Quote) []RepresentativeWinners {
	mins := MinimumsByProduct(quotes)

	type bucket struct {
		order   []string
		byName  map[string]Quote
	}
	buckets := make(map[string]*bucket)
	var reps []string
	for _, q := range quotes {
		if !IsWinner(q, mins[q.ProductName]) {
			continue
		}
		b, ok := buckets[q.Representative]
		if !ok {
			b = &bucket{byName: make(map[string]Quote)}
			buckets[q.Representative] = b
			reps = append(reps, q.Representative)
		}
		if _, seen := b.byName[q.ProductName]; !seen {
			b.order = append(b.order, q.ProductName)
		}
		b.byName[q.ProductName] = q
	}

	c := collate.New(language.BrazilianPortuguese)
	c.SortStrings(reps)

	out := make([]RepresentativeWinners, 0, len(reps))
	for _, rep := range reps {
		b := buckets[rep]
		w := RepresentativeWinners{Representative: rep}
		for _, name := range b.order {
			q := b.byName[name]
			w.Quotes = append(w.Quotes, q)
			w.Total += q.LineTotal()
		}
		w.Total = common.SafeFloat(w.Total)
		out = append(out, w)
	}
	return out
}

// SortForDisplay orders quotes for table rendering: representative ascending
// under pt-BR collation, minimal-price quotes before premium ones within a
// representative, then unit price descending. The sort is stable and pure;
// the input slice is not modified.
func SortForDisplay(quotes []Quote) []Quote {
	mins := MinimumsByProduct(quotes)
	out := make([]Quote, len(quotes))
	copy(out, quotes)

	c := collate.New(language.BrazilianPortuguese)
	sort.SliceStable(out, func(i, j int) bool {
		if cmp := c.CompareString(out[i].Representative, out[j].Representative); cmp != 0 {
			return cmp < 0
		}
		wi := IsWinner(out[i], mins[out[i].ProductName])
		wj := IsWinner(out[j], mins[out[j].ProductName])
		if wi != wj {
			return wi
		}
		return out[i].UnitPrice > out[j].UnitPrice
	})
	return out
}

// Stats summarises the working set for the header strip.
type Stats struct {
	Products            int     `json:"products"`
	Representatives     int     `json:"representatives"`
	SingleQuoteProducts int     `json:"single_quote_products"`
	TotalValue          float64 `json:"total_value"`
}

// Summarize counts distinct products and representatives, products with only
// one quote (no competing offer to compare against) and the combined value of
// the working set.
func Summarize(quotes []Quote) Stats {
	products := make(map[string]int)
	reps := make(map[string]struct{})
	var total float64
	for _, q := range quotes {
		products[q.ProductName]++
		reps[q.Representative] = struct{}{}
		total += q.LineTotal()
	}
	single := 0
	for _, n := range products {
		if n == 1 {
			single++
		}
	}
	return Stats{
		Products:            len(products),
		Representatives:     len(reps),
		SingleQuoteProducts: single,
		TotalValue:          common.SafeFloat(total),
	}
}
