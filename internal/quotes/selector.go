package quotes

import "stocklens/internal/models"

// Select picks the cheapest available quote. Ties keep the first
// occurrence in input order; there is no secondary sort key. Returns nil
// when no quote is available.
func Select(qs []models.SupplierQuote) *models.SupplierQuote {
	var best *models.SupplierQuote
	for i := range qs {
		q := &qs[i]
		if !q.IsAvailable {
			continue
		}
		if best == nil || q.UnitPrice.LessThan(best.UnitPrice) {
			best = q
		}
	}
	return best
}
