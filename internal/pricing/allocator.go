package pricing

import (
	"errors"
	"fmt"
)

// LineItem: uma linha da nota de compra, já com o produto resolvido por quem
// chama — o rateio não cria nem procura produto, só faz conta.
type LineItem struct {
	Quantity  int     // quantidade comprada, >= 1
	UnitPrice float64 // preço unitário impresso na nota, antes do rateio
}

// ExtraCosts: custos da compra inteira, rateados entre os itens.
type ExtraCosts struct {
	Freight float64
	Tax     float64
	Other   float64
}

func (e ExtraCosts) Total() float64 {
	return e.Freight + e.Tax + e.Other
}

// ItemAllocation: resultado do rateio para um item, na mesma ordem da entrada.
type ItemAllocation struct {
	LineSubtotal       float64 `json:"line_subtotal"`        // qtd x preço de nota
	Weight             float64 `json:"weight"`               // fatia do subtotal total (0..1)
	AllocatedExtra     float64 `json:"allocated_extra"`      // extras x weight
	ExtraPerUnit       float64 `json:"extra_per_unit"`       // allocated_extra / qtd
	EffectiveUnitCost  float64 `json:"effective_unit_cost"`  // preço de nota + extra por unidade
	SuggestedSalePrice float64 `json:"suggested_sale_price"` // PriceFromCost do custo efetivo
}

// Result: alocação por item mais os totais da compra.
type Result struct {
	Items               []ItemAllocation `json:"items"`
	TotalProductsAmount float64          `json:"total_products_amount"`
	TotalExtras         float64          `json:"total_extras"`
	TotalPurchaseAmount float64          `json:"total_purchase_amount"`
	// ConfigInvalid: a configuração era degenerada; os preços sugeridos são o
	// fallback de 2x custo. Quem chama decide se aceita.
	ConfigInvalid bool `json:"config_invalid"`
}

var (
	// ErrNoItems: compra sem itens não tem o que ratear.
	ErrNoItems = errors.New("pricing: a compra precisa de pelo menos um item")
	// ErrUnallocatableExtras: há custos extras mas o subtotal dos produtos é
	// zero — não existe proporção para distribuir, e descartar custo em
	// silêncio mascararia o valor da compra.
	ErrUnallocatableExtras = errors.New("pricing: custos extras sem subtotal de produtos para ratear")
	// ErrNegativeExtras: frete/imposto/outros não podem ser negativos.
	ErrNegativeExtras = errors.New("pricing: custos extras não podem ser negativos")
)

// LineItemError: item inválido, com índice e campo para o formulário apontar
// a linha certa.
type LineItemError struct {
	Index int    // posição do item na entrada (0-based)
	Field string // "quantity" ou "unit_price"
	Msg   string
}

func (e *LineItemError) Error() string {
	return fmt.Sprintf("pricing: item %d: %s: %s", e.Index, e.Field, e.Msg)
}

// Allocate distribui os custos extras da compra proporcionalmente ao subtotal
// de cada item e deriva custo unitário efetivo e preço de venda sugerido.
//
// O peso de um item depende da soma de TODOS os subtotais, então o rateio é
// função da compra inteira, nunca de um item isolado. A soma dos
// AllocatedExtra devolve exatamente o total de extras (a menos de ponto
// flutuante): os pesos somam 1 por construção e nada é arredondado antes do
// preço final.
//
// Toda a validação acontece antes de qualquer conta; entrada inválida devolve
// erro sem resultado parcial. Configuração degenerada não descarta o
// resultado: ele volta preenchido com ConfigInvalid e preços de fallback,
// acompanhado de ErrInvalidConfig para quem preferir rejeitar.
func Allocate(items []LineItem, extras ExtraCosts, cfg Config) (*Result, error) {
	if len(items) == 0 {
		return nil, ErrNoItems
	}
	if extras.Freight < 0 || extras.Tax < 0 || extras.Other < 0 {
		return nil, ErrNegativeExtras
	}
	for i, it := range items {
		if it.Quantity < 1 {
			return nil, &LineItemError{Index: i, Field: "quantity", Msg: "quantidade deve ser no mínimo 1"}
		}
		if it.UnitPrice < 0 {
			return nil, &LineItemError{Index: i, Field: "unit_price", Msg: "preço unitário não pode ser negativo"}
		}
	}

	var totalProducts float64
	for _, it := range items {
		totalProducts += float64(it.Quantity) * it.UnitPrice
	}
	totalExtras := extras.Total()

	if totalExtras > 0 && totalProducts == 0 {
		return nil, ErrUnallocatableExtras
	}

	res := &Result{
		Items:               make([]ItemAllocation, len(items)),
		TotalProductsAmount: totalProducts,
		TotalExtras:         totalExtras,
		TotalPurchaseAmount: totalProducts + totalExtras,
	}

	var configErr error
	for i, it := range items {
		subtotal := float64(it.Quantity) * it.UnitPrice

		weight := 0.0
		if totalProducts > 0 {
			weight = subtotal / totalProducts
		}
		allocated := totalExtras * weight
		perUnit := allocated / float64(it.Quantity)
		effectiveCost := it.UnitPrice + perUnit

		price, err := PriceFromCost(effectiveCost, cfg)
		if err != nil {
			res.ConfigInvalid = true
			configErr = err
		}

		res.Items[i] = ItemAllocation{
			LineSubtotal:       subtotal,
			Weight:             weight,
			AllocatedExtra:     allocated,
			ExtraPerUnit:       perUnit,
			EffectiveUnitCost:  effectiveCost,
			SuggestedSalePrice: price,
		}
	}

	return res, configErr
}
