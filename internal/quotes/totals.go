package quotes

import "math"

// computeTotals recalcula os totais do orçamento a partir dos itens.
// Desconto percentual e desconto em valor se somam; o total nunca fica
// negativo mesmo com desconto acima do subtotal.
func computeTotals(itemTotals []float64, discountPercent, discountAmount float64) (subtotal, total float64) {
	for _, t := range itemTotals {
		subtotal += t
	}
	total = subtotal - subtotal*discountPercent/100 - discountAmount
	if total < 0 {
		total = 0
	}
	return round2(subtotal), round2(total)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
