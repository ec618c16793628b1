package cart

import (
	"math"
	"reflect"
	"testing"
)

func pizza() LineItem {
	return LineItem{ProductID: "food-pizza", Name: "Margherita Pizza", UnitPrice: 12.99, Category: "Food", IsCustomFood: true}
}

func friedRice() LineItem {
	return LineItem{ProductID: "food-fried-rice", Name: "Fried Rice", UnitPrice: 12.99, Category: "Food", IsCustomFood: true}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAddAndGroupIdenticalItems(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza(), pizza()})

	groups := l.Group()
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	g := groups[0]
	if g.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", g.Quantity)
	}
	if !almostEqual(g.TotalPrice, 25.98) {
		t.Fatalf("expected total price 25.98, got %v", g.TotalPrice)
	}
	if len(g.LineIDs) != 2 || g.LineIDs[0] == g.LineIDs[1] {
		t.Fatalf("expected 2 distinct line ids, got %v", g.LineIDs)
	}

	totals := l.Totals()
	if !almostEqual(totals.Subtotal, 25.98) {
		t.Fatalf("expected subtotal 25.98, got %v", totals.Subtotal)
	}
	if !almostEqual(totals.Tax, 25.98*TaxRate) {
		t.Fatalf("expected tax %v, got %v", 25.98*TaxRate, totals.Tax)
	}
	if !almostEqual(totals.Total, 25.98*(1+TaxRate)) {
		t.Fatalf("expected total %v, got %v", 25.98*(1+TaxRate), totals.Total)
	}
}

func TestGroupSeparatesDifferentCustomizations(t *testing.T) {
	plain := pizza()
	custom := pizza()
	custom.Customizations = []Customization{{Name: "Special Instructions", Option: "extra cheese"}}

	l := NewLedger()
	l.AddItems([]LineItem{plain, custom, plain})

	groups := l.Group()
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Quantity != 2 || groups[1].Quantity != 1 {
		t.Fatalf("unexpected quantities %d, %d", groups[0].Quantity, groups[1].Quantity)
	}
}

func TestGroupIsIdempotent(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza(), friedRice(), pizza()})

	first := l.Group()
	second := l.Group()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("grouping changed without a cart mutation:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

func TestGroupOrderMatchesCustomizationOrderInsensitivity(t *testing.T) {
	a := pizza()
	a.Customizations = []Customization{
		{Name: "Size", Option: "Medium"},
		{Name: "Crust", Option: "Thin"},
	}
	b := pizza()
	b.Customizations = []Customization{
		{Name: "Crust", Option: "Thin"},
		{Name: "Size", Option: "Medium"},
	}

	l := NewLedger()
	l.AddItems([]LineItem{a, b})

	if groups := l.Group(); len(groups) != 1 {
		t.Fatalf("expected same group for reordered customizations, got %d groups", len(groups))
	}
}

func TestRemoveByNameMatchStopsAtCount(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{friedRice(), friedRice(), friedRice()})

	removed := l.RemoveByNameMatch("rice", 2)
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 item left, got %d", l.Len())
	}
}

func TestRemoveByNameMatchPartialResult(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza()})

	removed := l.RemoveByNameMatch("pizza", 5)
	if removed != 1 {
		t.Fatalf("expected partial removal of 1, got %d", removed)
	}
	if l.Len() != 0 {
		t.Fatalf("expected empty cart, got %d items", l.Len())
	}
}

func TestRemoveByNameMatchIsBidirectional(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza()})

	// target is a substring of the item name
	if removed := l.RemoveByNameMatch("pizza", 1); removed != 1 {
		t.Fatalf("expected substring target to match, removed %d", removed)
	}

	l.AddItems([]LineItem{{ProductID: "food-rice", Name: "Rice", UnitPrice: 8.99}})

	// item name is a substring of the target
	if removed := l.RemoveByNameMatch("jollof rice please", 1); removed != 1 {
		t.Fatalf("expected item name inside target to match, removed %d", removed)
	}
}

func TestRemovalConservation(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza(), pizza(), friedRice()})

	before := l.Len()
	removed := l.RemoveByNameMatch("pizza", 2)
	if l.Len()+removed != before {
		t.Fatalf("items not conserved: before %d, after %d, removed %d", before, l.Len(), removed)
	}
	if l.RemoveByNameMatch("burger", 1) != 0 {
		t.Fatal("expected no removal for unmatched name")
	}
	if l.Len() != 1 {
		t.Fatalf("expected 1 item, got %d", l.Len())
	}
}

func TestUpdateQuantityAppendsCopiesWithFreshIDs(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza()})

	l.UpdateQuantity(0, 2)
	if l.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", l.Len())
	}

	seen := map[string]bool{}
	for _, item := range l.Snapshot() {
		if seen[item.LineID] {
			t.Fatalf("duplicate line id %s", item.LineID)
		}
		seen[item.LineID] = true
	}

	if groups := l.Group(); len(groups) != 1 || groups[0].Quantity != 3 {
		t.Fatalf("expected one group of 3, got %+v", groups)
	}
}

func TestUpdateQuantityIgnoresNonPositiveDelta(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza()})

	l.UpdateQuantity(0, 0)
	l.UpdateQuantity(0, -2)
	l.UpdateQuantity(5, 1)

	if l.Len() != 1 {
		t.Fatalf("expected cart unchanged, got %d items", l.Len())
	}
}

func TestClearAndRestore(t *testing.T) {
	l := NewLedger()
	l.AddItems([]LineItem{pizza(), friedRice()})

	snapshot := l.Snapshot()
	l.Clear()
	if l.Len() != 0 {
		t.Fatalf("expected empty cart after clear, got %d", l.Len())
	}

	l.Restore(snapshot)
	if l.Len() != 2 {
		t.Fatalf("expected restored cart of 2, got %d", l.Len())
	}
}
