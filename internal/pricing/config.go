// Package pricing concentra a regra de negócio pura do sistema: a fórmula de
// precificação por margem sobre o preço de venda e o rateio proporcional dos
// custos extras de uma compra. Nenhuma função aqui faz I/O — a configuração
// entra sempre como argumento, nunca é lida de lugar nenhum.
package pricing

// Config: os três percentuais de precificação, como frações do preço de venda.
// Ex: TargetMargin 0.50 = 50% de margem sobre o preço final (100% de markup
// sobre o custo).
type Config struct {
	TargetMargin        float64 // margem líquida desejada
	SalesTaxRate        float64 // impostos/taxas de pagamento (cartão, marketplace, ICMS)
	LaborCommissionRate float64 // comissão do vendedor / mão de obra
}

// DefaultConfig: valores usados quando a loja nunca salvou configurações.
func DefaultConfig() Config {
	return Config{
		TargetMargin:        0.50,
		SalesTaxRate:        0.05,
		LaborCommissionRate: 0.10,
	}
}

// TotalDeductionRate: soma das três frações deduzidas do preço de venda.
func (c Config) TotalDeductionRate() float64 {
	return c.TargetMargin + c.SalesTaxRate + c.LaborCommissionRate
}

// Valid: a fórmula só produz preço finito e positivo com soma abaixo de 100%.
func (c Config) Valid() bool {
	if c.TargetMargin < 0 || c.SalesTaxRate < 0 || c.LaborCommissionRate < 0 {
		return false
	}
	return c.TotalDeductionRate() < 1
}
