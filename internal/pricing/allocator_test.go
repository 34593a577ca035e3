package pricing

import (
	"errors"
	"math"
	"testing"
)

func TestAllocate_SingleItemScenario(t *testing.T) {
	// 10 unidades a R$20 de nota, R$50 de frete: o item leva 100% do rateio.
	res, err := Allocate(
		[]LineItem{{Quantity: 10, UnitPrice: 20.00}},
		ExtraCosts{Freight: 50},
		DefaultConfig(),
	)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	it := res.Items[0]
	if it.LineSubtotal != 200 {
		t.Fatalf("subtotal = %v", it.LineSubtotal)
	}
	if it.Weight != 1.0 {
		t.Fatalf("weight = %v", it.Weight)
	}
	if it.AllocatedExtra != 50 {
		t.Fatalf("rateio = %v", it.AllocatedExtra)
	}
	if it.ExtraPerUnit != 5.00 {
		t.Fatalf("rateio por unidade = %v", it.ExtraPerUnit)
	}
	if it.EffectiveUnitCost != 25.00 {
		t.Fatalf("custo efetivo = %v", it.EffectiveUnitCost)
	}
	if it.SuggestedSalePrice != 71.43 {
		t.Fatalf("preço sugerido = %v", it.SuggestedSalePrice)
	}
	if res.TotalProductsAmount != 200 || res.TotalExtras != 50 || res.TotalPurchaseAmount != 250 {
		t.Fatalf("totais errados: %+v", res)
	}
}

func TestAllocate_TwoItemsProportional(t *testing.T) {
	// A: 5 x R$10 (subtotal 50), B: 5 x R$30 (subtotal 150); extras 40.
	// Pesos 0.25 / 0.75 => rateio 10 / 30 => R$2 e R$6 por unidade.
	res, err := Allocate(
		[]LineItem{
			{Quantity: 5, UnitPrice: 10.00},
			{Quantity: 5, UnitPrice: 30.00},
		},
		ExtraCosts{Freight: 25, Tax: 10, Other: 5},
		DefaultConfig(),
	)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	a, b := res.Items[0], res.Items[1]
	if a.Weight != 0.25 || b.Weight != 0.75 {
		t.Fatalf("pesos = %v / %v", a.Weight, b.Weight)
	}
	if a.AllocatedExtra != 10 || b.AllocatedExtra != 30 {
		t.Fatalf("rateios = %v / %v", a.AllocatedExtra, b.AllocatedExtra)
	}
	if a.ExtraPerUnit != 2.00 || b.ExtraPerUnit != 6.00 {
		t.Fatalf("por unidade = %v / %v", a.ExtraPerUnit, b.ExtraPerUnit)
	}
	if a.EffectiveUnitCost != 12.00 || b.EffectiveUnitCost != 36.00 {
		t.Fatalf("custos efetivos = %v / %v", a.EffectiveUnitCost, b.EffectiveUnitCost)
	}
}

func TestAllocate_Conservation(t *testing.T) {
	// A soma dos rateios tem que devolver o total de extras, em qualquer
	// distribuição de subtotais.
	cases := []struct {
		name   string
		items  []LineItem
		extras ExtraCosts
	}{
		{
			"split igual",
			[]LineItem{{1, 10}, {1, 10}, {1, 10}, {1, 10}},
			ExtraCosts{Freight: 33.33},
		},
		{
			"um item domina",
			[]LineItem{{1, 9999.99}, {3, 0.01}, {2, 0.05}},
			ExtraCosts{Freight: 120, Tax: 48.75, Other: 3.10},
		},
		{
			"valores quebrados",
			[]LineItem{{7, 13.37}, {2, 0.99}, {13, 111.11}, {1, 5.55}, {40, 2.49}},
			ExtraCosts{Freight: 77.77, Tax: 19.19, Other: 0.01},
		},
		{
			"extras zerados",
			[]LineItem{{3, 25}, {1, 50}},
			ExtraCosts{},
		},
		{
			"item de preço zero junto com itens normais",
			[]LineItem{{5, 0}, {2, 80}},
			ExtraCosts{Other: 14.50},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Allocate(tc.items, tc.extras, DefaultConfig())
			if err != nil {
				t.Fatalf("erro inesperado: %v", err)
			}
			var sum float64
			for _, it := range res.Items {
				sum += it.AllocatedExtra
			}
			if math.Abs(sum-tc.extras.Total()) > 1e-9 {
				t.Fatalf("rateio não conservou os extras: soma %v, total %v", sum, tc.extras.Total())
			}
		})
	}
}

func TestAllocate_ZeroExtrasIdentity(t *testing.T) {
	// Sem extras, o custo efetivo é o próprio preço de nota, sempre.
	items := []LineItem{{3, 19.90}, {1, 0}, {12, 7.25}}
	res, err := Allocate(items, ExtraCosts{}, DefaultConfig())
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	for i, it := range res.Items {
		if it.EffectiveUnitCost != items[i].UnitPrice {
			t.Fatalf("item %d: custo efetivo %v != preço de nota %v", i, it.EffectiveUnitCost, items[i].UnitPrice)
		}
		if it.AllocatedExtra != 0 || it.ExtraPerUnit != 0 {
			t.Fatalf("item %d: rateio deveria ser zero: %+v", i, it)
		}
	}
}

func TestAllocate_RejectsInvalidInput(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("sem itens", func(t *testing.T) {
		_, err := Allocate(nil, ExtraCosts{}, cfg)
		if !errors.Is(err, ErrNoItems) {
			t.Fatalf("esperado ErrNoItems, veio %v", err)
		}
	})

	t.Run("extras sem subtotal", func(t *testing.T) {
		_, err := Allocate([]LineItem{{2, 0}}, ExtraCosts{Freight: 30}, cfg)
		if !errors.Is(err, ErrUnallocatableExtras) {
			t.Fatalf("esperado ErrUnallocatableExtras, veio %v", err)
		}
	})

	t.Run("extras negativos", func(t *testing.T) {
		_, err := Allocate([]LineItem{{1, 10}}, ExtraCosts{Tax: -1}, cfg)
		if !errors.Is(err, ErrNegativeExtras) {
			t.Fatalf("esperado ErrNegativeExtras, veio %v", err)
		}
	})

	t.Run("quantidade zero", func(t *testing.T) {
		_, err := Allocate([]LineItem{{1, 10}, {0, 5}}, ExtraCosts{Freight: 10}, cfg)
		var lie *LineItemError
		if !errors.As(err, &lie) {
			t.Fatalf("esperado LineItemError, veio %v", err)
		}
		if lie.Index != 1 || lie.Field != "quantity" {
			t.Fatalf("erro apontou item/campo errado: %+v", lie)
		}
	})

	t.Run("quantidade negativa", func(t *testing.T) {
		_, err := Allocate([]LineItem{{-3, 10}}, ExtraCosts{}, cfg)
		var lie *LineItemError
		if !errors.As(err, &lie) || lie.Field != "quantity" {
			t.Fatalf("esperado LineItemError de quantity, veio %v", err)
		}
	})

	t.Run("preço negativo", func(t *testing.T) {
		_, err := Allocate([]LineItem{{2, -0.01}}, ExtraCosts{}, cfg)
		var lie *LineItemError
		if !errors.As(err, &lie) || lie.Index != 0 || lie.Field != "unit_price" {
			t.Fatalf("esperado LineItemError de unit_price no item 0, veio %v", err)
		}
	})
}

func TestAllocate_InvalidConfigStillAllocates(t *testing.T) {
	// Configuração degenerada: o rateio continua valendo, os preços saem no
	// fallback de 2x e o chamador fica sabendo pelos dois canais.
	bad := Config{TargetMargin: 0.70, SalesTaxRate: 0.30}
	res, err := Allocate([]LineItem{{10, 20.00}}, ExtraCosts{Freight: 50}, bad)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("esperado ErrInvalidConfig, veio %v", err)
	}
	if res == nil || !res.ConfigInvalid {
		t.Fatal("resultado deveria vir marcado com ConfigInvalid")
	}
	if res.Items[0].EffectiveUnitCost != 25.00 {
		t.Fatalf("custo efetivo = %v", res.Items[0].EffectiveUnitCost)
	}
	if res.Items[0].SuggestedSalePrice != 50.00 {
		t.Fatalf("preço fallback = %v, esperado exatamente 2x o custo", res.Items[0].SuggestedSalePrice)
	}
}
