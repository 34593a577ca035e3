package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestPriceFromCost_DefaultConfig(t *testing.T) {
	// margem 0.50 + imposto 0.05 + comissão 0.10 => divisor 0.35
	cfg := DefaultConfig()

	cases := []struct {
		name     string
		cost     float64
		expected float64
	}{
		{"custo do cenário de compra", 25.00, 71.43},
		{"custo zero", 0, 0},
		{"custo pequeno", 0.35, 1.00},
		{"custo com centavos", 12.34, 35.26},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PriceFromCost(tc.cost, cfg)
			if err != nil {
				t.Fatalf("PriceFromCost(%v) erro inesperado: %v", tc.cost, err)
			}
			if got != tc.expected {
				t.Fatalf("PriceFromCost(%v) = %v, esperado %v", tc.cost, got, tc.expected)
			}
		})
	}
}

func TestPriceFromCost_InvalidConfigFallback(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"soma exatamente 1", Config{TargetMargin: 0.50, SalesTaxRate: 0.30, LaborCommissionRate: 0.20}},
		{"soma acima de 1", Config{TargetMargin: 0.80, SalesTaxRate: 0.30, LaborCommissionRate: 0.10}},
		{"margem sozinha em 100%", Config{TargetMargin: 1.0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := PriceFromCost(25.00, tc.cfg)
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("esperado ErrInvalidConfig, veio %v", err)
			}
			// fallback documentado: exatamente 2x o custo
			if got != 50.00 {
				t.Fatalf("fallback = %v, esperado 50.00", got)
			}
			if tc.cfg.Valid() {
				t.Fatal("Valid() deveria ser false para configuração degenerada")
			}
		})
	}
}

func TestPriceFromCost_Monotonic(t *testing.T) {
	cfg := Config{TargetMargin: 0.40, SalesTaxRate: 0.08, LaborCommissionRate: 0.07}

	costs := []float64{0.01, 0.50, 1, 5, 19.99, 100, 999.99, 12345.67}
	prev := 0.0
	for _, cost := range costs {
		price, err := PriceFromCost(cost, cfg)
		if err != nil {
			t.Fatalf("erro inesperado para custo %v: %v", cost, err)
		}
		if price <= prev {
			t.Fatalf("preço deveria crescer com o custo: custo %v deu %v (anterior %v)", cost, price, prev)
		}
		prev = price
	}
}

func TestBreakdown_RoundTrip(t *testing.T) {
	// Propriedade de ida e volta: o preço derivado de um custo tem que devolver
	// a margem configurada, a menos do arredondamento de centavos do preço.
	configs := []Config{
		DefaultConfig(),
		{TargetMargin: 0.30, SalesTaxRate: 0.10, LaborCommissionRate: 0.05},
		{TargetMargin: 0.60, SalesTaxRate: 0.02, LaborCommissionRate: 0.01},
		{TargetMargin: 0.25},
	}
	// custos muito pequenos ficam de fora: com preço < R$1 o arredondamento
	// de centavo sozinho passa de 0.1 ponto percentual de margem
	costs := []float64{10, 25, 199.90, 1234.56}

	for _, cfg := range configs {
		for _, cost := range costs {
			price, err := PriceFromCost(cost, cfg)
			if err != nil {
				t.Fatalf("erro inesperado: %v", err)
			}
			b := Breakdown(cost, price, cfg)
			want := cfg.TargetMargin * 100
			if math.Abs(b.ProfitMarginPercent-want) > 0.1 {
				t.Fatalf("margem de %v com custo %v: veio %v%%, esperado %v%% (±0.1)",
					cfg, cost, b.ProfitMarginPercent, want)
			}
		}
	}
}

func TestBreakdown_ZeroSalePrice(t *testing.T) {
	b := Breakdown(0, 0, DefaultConfig())
	if b.ProfitMarginPercent != 0 {
		t.Fatalf("margem com preço zero deveria ser 0, veio %v", b.ProfitMarginPercent)
	}
	if b.Profit != 0 || b.TaxAmount != 0 || b.LaborAmount != 0 {
		t.Fatalf("breakdown zerado esperado, veio %+v", b)
	}
}

func TestBreakdown_Components(t *testing.T) {
	cfg := DefaultConfig()
	b := Breakdown(25.00, 71.43, cfg)

	if math.Abs(b.TaxAmount-71.43*0.05) > 1e-9 {
		t.Fatalf("imposto = %v", b.TaxAmount)
	}
	if math.Abs(b.LaborAmount-71.43*0.10) > 1e-9 {
		t.Fatalf("comissão = %v", b.LaborAmount)
	}
	wantProfit := 71.43 - 25.00 - b.TaxAmount - b.LaborAmount
	if math.Abs(b.Profit-wantProfit) > 1e-9 {
		t.Fatalf("lucro = %v, esperado %v", b.Profit, wantProfit)
	}
}
