package pricing

import (
	"errors"
	"math"
)

// ErrInvalidConfig: as frações configuradas somam 100% ou mais. PriceFromCost
// devolve o fallback de 2x custo junto com este erro — quem chama decide se
// rejeita a configuração ou aceita o preço degradado.
var ErrInvalidConfig = errors.New("pricing: soma das frações configuradas é >= 100%")

// PriceFromCost converte um custo unitário efetivo em preço de venda sugerido.
//
// A conta é margem sobre PREÇO, não sobre custo: resolvendo
// preço - custo - imposto*preço - comissão*preço = margem*preço
// para o preço, sai preço = custo / (1 - margem - imposto - comissão).
// Somar os percentuais ao custo daria frações do custo, e "50% de margem"
// aqui significa 50% do que o cliente paga.
//
// Custo zero devolve zero. Configuração degenerada (soma >= 1) devolve
// exatamente custo*2 e ErrInvalidConfig.
func PriceFromCost(cost float64, cfg Config) (float64, error) {
	rate := cfg.TotalDeductionRate()
	if rate >= 1 {
		return cost * 2, ErrInvalidConfig
	}
	price := cost / (1 - rate)
	return roundCents(price), nil
}

// PriceBreakdown: composição do preço para exibição/conferência.
type PriceBreakdown struct {
	Cost                float64 `json:"cost"`
	SalePrice           float64 `json:"sale_price"`
	TaxAmount           float64 `json:"tax_amount"`
	LaborAmount         float64 `json:"labor_amount"`
	Profit              float64 `json:"profit"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
}

// Breakdown decompõe um preço de venda sob a configuração dada. Consistente
// com PriceFromCost: para preço derivado de um custo via PriceFromCost, a
// margem resultante bate com TargetMargin (a menos do arredondamento de
// centavos do próprio preço).
func Breakdown(cost, salePrice float64, cfg Config) PriceBreakdown {
	taxAmount := salePrice * cfg.SalesTaxRate
	laborAmount := salePrice * cfg.LaborCommissionRate
	profit := salePrice - cost - taxAmount - laborAmount

	marginPct := 0.0
	if salePrice > 0 {
		marginPct = profit / salePrice * 100
	}

	return PriceBreakdown{
		Cost:                cost,
		SalePrice:           salePrice,
		TaxAmount:           taxAmount,
		LaborAmount:         laborAmount,
		Profit:              profit,
		ProfitMarginPercent: math.Round(marginPct*10) / 10,
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
