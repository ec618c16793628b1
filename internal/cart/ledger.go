package cart

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Customization struct {
	Name   string  `json:"name"`
	Option string  `json:"option"`
	Price  float64 `json:"price"`
}

// LineItem is exactly one physical unit in the cart. Quantity is expressed
// by the number of line items sharing a grouping key, never by a quantity
// field. This normalization is deliberate: removal is always "delete one
// line item", at the cost of O(n) grouping on display. Do not "fix" this
// into a quantity-field model; removal and grouping semantics depend on it.
type LineItem struct {
	LineID         string          `json:"line_id"`
	ProductID      string          `json:"product_id"`
	Name           string          `json:"name"`
	UnitPrice      float64         `json:"unit_price"`
	Category       string          `json:"category"`
	IsCustomFood   bool            `json:"is_custom_food,omitempty"`
	Customizations []Customization `json:"customizations,omitempty"`
}

// ItemGroup is a display-time aggregation of identical line items. It is
// derived on demand and never stored.
type ItemGroup struct {
	Item       LineItem `json:"item"`
	Quantity   int      `json:"quantity"`
	TotalPrice float64  `json:"total_price"`
	LineIDs    []string `json:"line_ids"`
}

// NewLineID generates a collision-resistant line id from the source product
// id, the current time and a random suffix.
func NewLineID(sourceID string) string {
	return fmt.Sprintf("%s-%d-%s", sourceID, time.Now().UnixNano(), uuid.NewString()[:8])
}

// Ledger owns the authoritative list of cart line items for one
// conversation. All methods are safe for concurrent use.
type Ledger struct {
	mu    sync.Mutex
	items []LineItem
}

func NewLedger() *Ledger {
	return &Ledger{}
}

// AddItems appends every item in arrival order, assigning a fresh LineID to
// any item that does not carry one.
func (l *Ledger) AddItems(items []LineItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, item := range items {
		if item.LineID == "" {
			item.LineID = NewLineID(item.ProductID)
		}
		l.items = append(l.items, item)
	}
}

// nameMatches applies the tolerant bidirectional substring match used for
// natural-language removals ("the pizza" vs "Margherita Pizza").
func nameMatches(itemName, target string) bool {
	a := strings.ToLower(itemName)
	b := strings.ToLower(target)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// RemoveByNameMatch removes up to count line items whose name matches the
// target, scanning in array order and stopping once count is reached.
// Returns the number actually removed; fewer matches than requested is a
// partial result, not an error, and the caller must report it honestly.
func (l *Ledger) RemoveByNameMatch(name string, count int) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	if count <= 0 || len(l.items) == 0 {
		return 0
	}

	removed := 0
	kept := l.items[:0]
	for _, item := range l.items {
		if removed < count && nameMatches(item.Name, name) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	l.items = kept
	return removed
}

// RemoveAt deletes the line item at index. Out-of-range indexes are ignored.
func (l *Ledger) RemoveAt(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.items) {
		return
	}
	l.items = append(l.items[:index], l.items[index+1:]...)
}

// UpdateQuantity appends delta copies of the line item at index, each with a
// fresh LineID. A non-positive delta is a no-op: decrement is routed through
// RemoveByNameMatch or RemoveAt, never through a negative delta here.
func (l *Ledger) UpdateQuantity(index, delta int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if index < 0 || index >= len(l.items) || delta <= 0 {
		return
	}

	src := l.items[index]
	for i := 0; i < delta; i++ {
		dup := src
		dup.LineID = NewLineID(src.ProductID)
		l.items = append(l.items, dup)
	}
}

func groupKey(item LineItem) string {
	parts := make([]string, 0, len(item.Customizations))
	for _, c := range item.Customizations {
		parts = append(parts, c.Name+":"+c.Option)
	}
	sort.Strings(parts)
	return fmt.Sprintf("%s-%.2f-%s", item.ProductID, item.UnitPrice, strings.Join(parts, "|"))
}

// Group merges identical line items for display. Grouping is a pure
// function of the current cart: same state, same groups, first-seen order.
func (l *Ledger) Group() []ItemGroup {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := make(map[string]int)
	groups := make([]ItemGroup, 0, len(l.items))

	for _, item := range l.items {
		key := groupKey(item)
		if i, ok := index[key]; ok {
			groups[i].Quantity++
			groups[i].TotalPrice += item.UnitPrice
			groups[i].LineIDs = append(groups[i].LineIDs, item.LineID)
			continue
		}
		index[key] = len(groups)
		groups = append(groups, ItemGroup{
			Item:       item,
			Quantity:   1,
			TotalPrice: item.UnitPrice,
			LineIDs:    []string{item.LineID},
		})
	}

	return groups
}

// Totals computes subtotal, tax and total for the current cart contents.
func (l *Ledger) Totals() Totals {
	l.mu.Lock()
	defer l.mu.Unlock()

	subtotal := 0.0
	for _, item := range l.items {
		subtotal += item.UnitPrice
	}
	return ComputeTotals(subtotal)
}

// Snapshot returns a copy of the current line items in arrival order.
func (l *Ledger) Snapshot() []LineItem {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]LineItem, len(l.items))
	copy(out, l.items)
	return out
}

// Restore replaces the ledger contents, used when loading a persisted
// conversation.
func (l *Ledger) Restore(items []LineItem) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.items = make([]LineItem, len(items))
	copy(l.items, items)
}

func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.items)
}

// Clear deletes every line item, used on checkout success.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = nil
}
