package core

// Totals is the derived money triple on an invoice. It is recomputed from
// the line items on every create/update, never edited independently.
type Totals struct {
	Subtotal Money
	Tax      Money
	Total    Money
}

// ItemAmount is the billed amount for one line: quantity times unit price.
func ItemAmount(quantity int64, unitPrice Money) Money {
	return Money{Cents: quantity * unitPrice.Cents}
}

// ComputeTotals derives subtotal and total from the line items plus a flat
// additive tax amount. It is pure arithmetic: an empty item slice yields a
// zero subtotal, and no validation happens here. Callers reject empty
// item sets and non-positive quantities/prices before totals are computed.
func ComputeTotals(items []LineItem, tax Money) Totals {
	var subtotal int64
	for _, li := range items {
		subtotal += ItemAmount(li.Quantity, li.UnitPrice).Cents
	}
	return Totals{
		Subtotal: Money{Cents: subtotal},
		Tax:      tax,
		Total:    Money{Cents: subtotal + tax.Cents},
	}
}

// PriceItems returns a copy of items with each Amount recomputed from its
// quantity and unit price.
func PriceItems(items []LineItem) []LineItem {
	out := make([]LineItem, len(items))
	for i, li := range items {
		li.Amount = ItemAmount(li.Quantity, li.UnitPrice)
		out[i] = li
	}
	return out
}
