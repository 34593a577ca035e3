package quotes

import "testing"

func TestComputeTotals(t *testing.T) {
	cases := []struct {
		name            string
		items           []float64
		discountPercent float64
		discountAmount  float64
		wantSubtotal    float64
		wantTotal       float64
	}{
		{"sem desconto", []float64{100, 50}, 0, 0, 150, 150},
		{"desconto percentual", []float64{200}, 10, 0, 200, 180},
		{"desconto em valor", []float64{200}, 0, 30, 200, 170},
		{"os dois descontos", []float64{100, 100}, 10, 15, 200, 165},
		{"desconto maior que o subtotal não negativa", []float64{50}, 0, 80, 50, 0},
		{"sem itens", nil, 10, 0, 0, 0},
		{"centavos", []float64{19.99, 5.55}, 5, 0, 25.54, 24.26},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			subtotal, total := computeTotals(tc.items, tc.discountPercent, tc.discountAmount)
			if subtotal != tc.wantSubtotal {
				t.Fatalf("subtotal = %v, esperado %v", subtotal, tc.wantSubtotal)
			}
			if total != tc.wantTotal {
				t.Fatalf("total = %v, esperado %v", total, tc.wantTotal)
			}
		})
	}
}
