package domain

import "testing"

func TestRecomputeDerivedFields(t *testing.T) {
	prev := 90.0
	perf := StockPerformance{
		Stock:         Stock{ID: "s1", Price: 100},
		PreviousPrice: &prev,
	}
	perf.Recompute()

	if perf.PriceChange == nil || *perf.PriceChange != 10 {
		t.Fatalf("PriceChange = %v; want 10", perf.PriceChange)
	}
	if perf.HasIncreased == nil || !*perf.HasIncreased {
		t.Fatalf("HasIncreased = %v; want true", perf.HasIncreased)
	}

	// A price drop must flip both derived fields with no stale values.
	perf.Price = 80
	perf.Recompute()
	if perf.PriceChange == nil || *perf.PriceChange != -10 {
		t.Fatalf("PriceChange after drop = %v; want -10", perf.PriceChange)
	}
	if perf.HasIncreased == nil || *perf.HasIncreased {
		t.Fatalf("HasIncreased after drop = %v; want false", perf.HasIncreased)
	}
}

func TestRecomputeWithoutPreviousPrice(t *testing.T) {
	perf := StockPerformance{Stock: Stock{ID: "s1", Price: 100}}
	change := 5.0
	increased := true
	perf.PriceChange = &change
	perf.HasIncreased = &increased

	perf.Recompute()

	if perf.PriceChange != nil {
		t.Fatalf("PriceChange = %v; want nil without previous price", *perf.PriceChange)
	}
	if perf.HasIncreased != nil {
		t.Fatalf("HasIncreased = %v; want nil without previous price", *perf.HasIncreased)
	}
}
