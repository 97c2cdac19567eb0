// Package tax holds the pure tax-inheritance and amount-derivation rules
// of the menu hierarchy. No I/O, no state.
package tax

// Snapshot is the pair of tax fields copied from a category into its
// sub-categories.
type Snapshot struct {
	Applicability bool
	Rate          float64
}

// Inherit returns the tax snapshot a child takes from its parent. The copy
// happens once, at creation or reassignment; there is no live link back to
// the parent.
func Inherit(parent Snapshot) Snapshot {
	return Snapshot{
		Applicability: parent.Applicability,
		Rate:          parent.Rate,
	}
}

// ComputeTotal derives an item's total amount from its base amount,
// discount, and tax configuration. The tax rate is interpreted as a
// percentage of the base amount and only applies when applicable is set.
// No rounding is done here, and negative results are passed through.
func ComputeTotal(baseAmount, discount float64, applicable bool, rate float64) float64 {
	total := baseAmount - discount
	if applicable {
		total += baseAmount * rate / 100
	}
	return total
}
