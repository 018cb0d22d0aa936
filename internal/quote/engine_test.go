package quote

import (
	"math"
	"reflect"
	"testing"

	"github.com/google/uuid"
)

func q(product, rep string, price float64, qty int) Quote {
	return Quote{
		ID:             uuid.New(),
		ProductName:    product,
		UnitPrice:      price,
		Quantity:       qty,
		Unit:           "caixa",
		Representative: rep,
		Category:       CategoryUncategorized,
	}
}

func TestGroupByProductPartitions(t *testing.T) {
	quotes := []Quote{
		q("Dipirona 500mg", "A", 10, 2),
		q("Amoxicilina", "B", 4, 1),
		q("Dipirona 500mg", "B", 8, 3),
		q("dipirona 500mg", "C", 7, 1), // case differs: distinct group
	}
	groups := GroupByProduct(quotes)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	total := 0
	for _, g := range groups {
		total += len(g.Quotes)
		for _, member := range g.Quotes {
			if member.ProductName != g.ProductName {
				t.Fatalf("quote %q filed under group %q", member.ProductName, g.ProductName)
			}
		}
	}
	if total != len(quotes) {
		t.Fatalf("groups hold %d quotes, want %d", total, len(quotes))
	}

	// group order follows first appearance, members keep insertion order
	if groups[0].ProductName != "Dipirona 500mg" || groups[1].ProductName != "Amoxicilina" {
		t.Fatalf("unexpected group order: %q, %q", groups[0].ProductName, groups[1].ProductName)
	}
	if groups[0].Quotes[0].Representative != "A" || groups[0].Quotes[1].Representative != "B" {
		t.Fatalf("insertion order not preserved within group")
	}
}

func TestGroupMinimumInvariant(t *testing.T) {
	group := []Quote{q("X", "A", 12.5, 1), q("X", "B", 9.99, 1), q("X", "C", 9.99, 2)}
	min := GroupMinimum(group)
	if min != 9.99 {
		t.Fatalf("expected minimum 9.99, got %v", min)
	}
	hit := false
	for _, member := range group {
		if member.UnitPrice < min {
			t.Fatalf("quote priced %v below resolved minimum %v", member.UnitPrice, min)
		}
		if member.UnitPrice == min {
			hit = true
		}
	}
	if !hit {
		t.Fatalf("no quote equals the resolved minimum")
	}
}

func TestDelta(t *testing.T) {
	if d := Delta(10, 10); d != nil {
		t.Fatalf("minimal quote should have nil delta, got %v", *d)
	}
	d := Delta(12, 10)
	if d == nil || *d != 20.0 {
		t.Fatalf("expected delta 20.0, got %v", d)
	}
	// two-decimal half-up rounding
	d = Delta(10.333, 10)
	if d == nil || *d != 3.33 {
		t.Fatalf("expected delta 3.33, got %v", d)
	}
	d = Delta(10.335, 10)
	if d == nil || *d != 3.35 {
		t.Fatalf("expected delta 3.35, got %v", d)
	}
}

func TestDeltaZeroMinimumGuard(t *testing.T) {
	if d := Delta(5, 0); d != nil {
		t.Fatalf("zero minimum must yield nil delta, got %v", *d)
	}
	if d := Delta(5, math.NaN()); d != nil {
		t.Fatalf("NaN minimum must yield nil delta")
	}
	if d := Delta(math.Inf(1), 10); d != nil {
		t.Fatalf("non-finite price must yield nil delta")
	}
}

func TestWinnersByRepresentative(t *testing.T) {
	quotes := []Quote{
		q("Dipirona 500mg", "A", 10.00, 2),
		q("Dipirona 500mg", "B", 8.00, 3),
		q("Amoxicilina", "A", 4.00, 5),
		q("Amoxicilina", "B", 4.00, 1), // tie: both win
	}
	winners := WinnersByRepresentative(quotes)
	if len(winners) != 2 {
		t.Fatalf("expected 2 representatives, got %d", len(winners))
	}
	byRep := map[string]RepresentativeWinners{}
	for _, w := range winners {
		byRep[w.Representative] = w
	}

	a := byRep["A"]
	if len(a.Quotes) != 1 || a.Quotes[0].ProductName != "Amoxicilina" {
		t.Fatalf("A should win only Amoxicilina, got %+v", a.Quotes)
	}
	b := byRep["B"]
	if len(b.Quotes) != 2 {
		t.Fatalf("B should win Dipirona and the Amoxicilina tie, got %+v", b.Quotes)
	}
	if b.Total != 8.00*3+4.00*1 {
		t.Fatalf("unexpected total for B: %v", b.Total)
	}

	mins := MinimumsByProduct(quotes)
	for _, w := range winners {
		for _, winner := range w.Quotes {
			if winner.UnitPrice != mins[winner.ProductName] {
				t.Fatalf("non-minimal quote in winners view: %+v", winner)
			}
		}
	}
}

func TestWinnersSameProductOverwrites(t *testing.T) {
	first := q("Soro", "A", 2.00, 1)
	second := q("Soro", "A", 2.00, 10)
	winners := WinnersByRepresentative([]Quote{first, second})
	if len(winners) != 1 || len(winners[0].Quotes) != 1 {
		t.Fatalf("same-representative tie for one product must collapse to one entry")
	}
	if winners[0].Quotes[0].ID != second.ID {
		t.Fatalf("later minimal quote should replace the earlier one")
	}
}

func TestSortForDisplayPolicy(t *testing.T) {
	quotes := []Quote{
		q("P1", "Bruno", 12, 1), // premium
		q("P1", "Ana", 10, 1),   // winner
		q("P2", "Bruno", 3, 1),  // winner
		q("P3", "Bruno", 5, 1),  // winner (only quote)
		q("P2", "Ana", 4, 1),    // premium
	}
	ordered := SortForDisplay(quotes)

	reps := make([]string, len(ordered))
	for i, item := range ordered {
		reps[i] = item.Representative
	}
	if !reflect.DeepEqual(reps, []string{"Ana", "Ana", "Bruno", "Bruno", "Bruno"}) {
		t.Fatalf("representatives not in collated order: %v", reps)
	}

	// within Ana: winner before premium
	if ordered[0].ProductName != "P1" || ordered[1].ProductName != "P2" {
		t.Fatalf("winner must sort before premium within a representative")
	}
	// within Bruno's winners: unit price descending (5 before 3), premium last
	if ordered[2].UnitPrice != 5 || ordered[3].UnitPrice != 3 || ordered[4].ProductName != "P1" {
		t.Fatalf("unexpected order for Bruno: %+v", ordered[2:])
	}
}

func TestSortForDisplayStable(t *testing.T) {
	quotes := []Quote{
		q("P1", "A", 10, 1),
		q("P2", "A", 10, 1),
		q("P3", "A", 10, 1),
	}
	first := SortForDisplay(quotes)
	second := SortForDisplay(quotes)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("repeated sorts disagree at index %d", i)
		}
	}
	// equal keys keep input order
	if first[0].ProductName != "P1" || first[2].ProductName != "P3" {
		t.Fatalf("stable sort should keep insertion order for equal keys")
	}
}

func TestSummarize(t *testing.T) {
	quotes := []Quote{
		q("Dipirona 500mg", "A", 10, 2),
		q("Dipirona 500mg", "B", 8, 3),
		q("Amoxicilina", "A", 4, 5),
	}
	stats := Summarize(quotes)
	if stats.Products != 2 || stats.Representatives != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.SingleQuoteProducts != 1 {
		t.Fatalf("expected one product without a competing quote, got %d", stats.SingleQuoteProducts)
	}
	if stats.TotalValue != 10*2+8*3+4*5 {
		t.Fatalf("unexpected total value: %v", stats.TotalValue)
	}
}

// Scenario from the quotation screen: two quotes for Dipirona.
func TestComparisonScenario(t *testing.T) {
	a := q("Dipirona", "A", 10.00, 2)
	b := q("Dipirona", "B", 8.00, 3)
	quotes := []Quote{a, b}

	mins := MinimumsByProduct(quotes)
	if mins["Dipirona"] != 8.00 {
		t.Fatalf("group minimum should be 8.00, got %v", mins["Dipirona"])
	}
	if d := Delta(a.UnitPrice, mins["Dipirona"]); d == nil || *d != 25.0 {
		t.Fatalf("A's delta should be 25.0, got %v", d)
	}
	if d := Delta(b.UnitPrice, mins["Dipirona"]); d != nil {
		t.Fatalf("B is the minimum, delta must be nil")
	}

	winners := WinnersByRepresentative(quotes)
	if len(winners) != 1 || winners[0].Representative != "B" {
		t.Fatalf("only B should appear in winners, got %+v", winners)
	}
}
