package cart

// TaxRate is the flat sales tax applied to every order. It is a policy
// constant shared by the cart summary and the order assembler so the two can
// never drift apart.
const TaxRate = 0.08

type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeTotals derives tax and grand total from a subtotal. This is the
// single pricing formula for the whole service.
func ComputeTotals(subtotal float64) Totals {
	tax := subtotal * TaxRate
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
	}
}
