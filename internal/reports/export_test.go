package reports

import (
	"strings"
	"testing"
	"time"
)

func TestBuildSalesCSV(t *testing.T) {
	rows := []saleExportRow{
		{
			Date:          time.Date(2025, 8, 3, 14, 30, 0, 0, time.UTC),
			SaleID:        12,
			Customer:      "Maria Souza",
			Seller:        "Manu",
			PaymentMethod: "pix",
			ItemCount:     3,
			Total:         149.9,
		},
		{
			Date:          time.Date(2025, 8, 15, 9, 0, 0, 0, time.UTC),
			SaleID:        13,
			Customer:      "",
			Seller:        "Manu",
			PaymentMethod: "dinheiro",
			ItemCount:     1,
			Total:         25,
		},
	}

	out, err := buildSalesCSV(rows)
	if err != nil {
		t.Fatalf("buildSalesCSV: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("esperava cabeçalho + 2 linhas, veio %d: %q", len(lines), lines)
	}
	if lines[0] != "Data;Venda;Cliente;Vendedor;Pagamento;Itens;Total" {
		t.Errorf("cabeçalho errado: %q", lines[0])
	}
	if lines[1] != "03/08/2025;#12;Maria Souza;Manu;pix;3;149,90" {
		t.Errorf("linha 1 errada: %q", lines[1])
	}
	if lines[2] != "15/08/2025;#13;;Manu;dinheiro;1;25,00" {
		t.Errorf("linha 2 errada: %q", lines[2])
	}
}

func TestFormatAmount(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0,00"},
		{25, "25,00"},
		{149.9, "149,90"},
		{1234.567, "1234,57"},
	}
	for _, tc := range cases {
		if got := formatAmount(tc.in); got != tc.want {
			t.Errorf("formatAmount(%v) = %q, esperava %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildSalesCSVEmpty(t *testing.T) {
	out, err := buildSalesCSV(nil)
	if err != nil {
		t.Fatalf("buildSalesCSV: %v", err)
	}
	if got := strings.TrimRight(string(out), "\n"); got != "Data;Venda;Cliente;Vendedor;Pagamento;Itens;Total" {
		t.Errorf("CSV vazio deveria ter só o cabeçalho, veio %q", got)
	}
}
