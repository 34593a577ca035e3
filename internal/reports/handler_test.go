package reports

import (
	"math"
	"testing"
	"time"

	"sige-backend/internal/models"
)

func day(d int, hour int) time.Time {
	return time.Date(2025, 8, d, hour, 0, 0, 0, time.UTC)
}

func TestBuildSalesReport(t *testing.T) {
	capinha := models.Product{Name: "Capinha iPhone 13"}
	pelicula := models.Product{Name: "Película 3D"}

	sales := []models.Sale{
		{
			TotalNet:      100,
			PaymentMethod: "pix",
			CreatedAt:     day(1, 10),
			Items: []models.SaleItem{
				{ProductID: 1, Product: capinha, Quantity: 2, UnitPriceAtSale: 35},
				{ProductID: 2, Product: pelicula, Quantity: 1, UnitPriceAtSale: 30},
			},
		},
		{
			TotalNet:      70,
			PaymentMethod: "pix",
			CreatedAt:     day(1, 15),
			Items: []models.SaleItem{
				{ProductID: 1, Product: capinha, Quantity: 2, UnitPriceAtSale: 35},
			},
		},
		{
			TotalNet:      30,
			PaymentMethod: "dinheiro",
			CreatedAt:     day(2, 11),
			Items: []models.SaleItem{
				{ProductID: 2, Product: pelicula, Quantity: 1, UnitPriceAtSale: 30},
			},
		},
	}

	from := day(1, 0)
	to := day(31, 0)
	report := buildSalesReport(sales, from, to)

	if report.SalesCount != 3 {
		t.Errorf("SalesCount = %d, esperava 3", report.SalesCount)
	}
	if report.TotalRevenue != 200 {
		t.Errorf("TotalRevenue = %v, esperava 200", report.TotalRevenue)
	}
	if want := 66.67; report.AverageTicket != want {
		t.Errorf("AverageTicket = %v, esperava %v", report.AverageTicket, want)
	}
	if report.ProductsSold != 6 {
		t.Errorf("ProductsSold = %d, esperava 6", report.ProductsSold)
	}

	if len(report.TopProducts) != 2 {
		t.Fatalf("TopProducts = %d itens, esperava 2", len(report.TopProducts))
	}
	// capinha: 4 un x 35 = 140; película: 2 un x 30 = 60
	if report.TopProducts[0].Name != "Capinha iPhone 13" || report.TopProducts[0].Revenue != 140 {
		t.Errorf("top 1 errado: %+v", report.TopProducts[0])
	}
	if report.TopProducts[1].Quantity != 2 || report.TopProducts[1].Revenue != 60 {
		t.Errorf("top 2 errado: %+v", report.TopProducts[1])
	}

	if len(report.PaymentMethods) != 2 {
		t.Fatalf("PaymentMethods = %d, esperava 2", len(report.PaymentMethods))
	}
	if report.PaymentMethods[0].Method != "pix" || report.PaymentMethods[0].Count != 2 || report.PaymentMethods[0].Revenue != 170 {
		t.Errorf("pix errado: %+v", report.PaymentMethods[0])
	}

	if len(report.SalesByDay) != 2 {
		t.Fatalf("SalesByDay = %d, esperava 2", len(report.SalesByDay))
	}
	if report.SalesByDay[0].Date != "2025-08-01" || report.SalesByDay[0].Count != 2 || report.SalesByDay[0].Revenue != 170 {
		t.Errorf("dia 1 errado: %+v", report.SalesByDay[0])
	}
	if report.SalesByDay[1].Date != "2025-08-02" || report.SalesByDay[1].Revenue != 30 {
		t.Errorf("dia 2 errado: %+v", report.SalesByDay[1])
	}
}

func TestBuildSalesReportEmpty(t *testing.T) {
	report := buildSalesReport(nil, day(1, 0), day(31, 0))
	if report.SalesCount != 0 || report.TotalRevenue != 0 || report.AverageTicket != 0 {
		t.Errorf("relatório vazio com totais não zerados: %+v", report)
	}
	if report.TopProducts == nil || report.SalesByDay == nil {
		t.Error("listas devem vir vazias, não nulas")
	}
}

func TestBuildPipelineReport(t *testing.T) {
	stages := []models.DealStage{
		{ID: 1, Name: "Novo Lead", Slug: "novo-lead", OrderPosition: 1},
		{ID: 2, Name: "Negociação", Slug: "negociacao", OrderPosition: 4},
		{ID: 5, Name: "Ganhou", Slug: "won", OrderPosition: 5},
		{ID: 6, Name: "Perdeu", Slug: "lost", OrderPosition: 6},
	}

	created := day(1, 0)
	deals := []models.Deal{
		{StageID: 1, Value: 100, CreatedAt: created, UpdatedAt: created},
		{StageID: 2, Value: 250, CreatedAt: created, UpdatedAt: created},
		// fechado em 4 dias
		{StageID: 5, Value: 500, CreatedAt: created, UpdatedAt: day(5, 0)},
		// fechado em 6 dias
		{StageID: 5, Value: 300, CreatedAt: created, UpdatedAt: day(7, 0)},
		{StageID: 6, Value: 80, CreatedAt: created, UpdatedAt: day(3, 0)},
	}

	report := buildPipelineReport(stages, deals)

	if report.WonCount != 2 || report.LostCount != 1 {
		t.Errorf("won/lost = %d/%d, esperava 2/1", report.WonCount, report.LostCount)
	}
	// 2 ganhos de 3 fechados = 66.7%
	if want := 66.7; report.ConversionRate != want {
		t.Errorf("ConversionRate = %v, esperava %v", report.ConversionRate, want)
	}
	// média de (4 + 6) / 2 = 5 dias
	if math.Abs(report.AvgDaysToClose-5) > 0.05 {
		t.Errorf("AvgDaysToClose = %v, esperava 5", report.AvgDaysToClose)
	}
	if report.OpenDealsCount != 2 || report.OpenDealsValue != 350 {
		t.Errorf("abertos = %d / %v, esperava 2 / 350", report.OpenDealsCount, report.OpenDealsValue)
	}

	if len(report.Stages) != 4 {
		t.Fatalf("Stages = %d, esperava 4", len(report.Stages))
	}
	if report.Stages[2].Slug != "won" || report.Stages[2].Count != 2 || report.Stages[2].Value != 800 {
		t.Errorf("estágio won errado: %+v", report.Stages[2])
	}
}

func TestBuildPipelineReportNoClosedDeals(t *testing.T) {
	stages := []models.DealStage{{ID: 1, Slug: "novo-lead", Name: "Novo Lead"}}
	deals := []models.Deal{{StageID: 1, Value: 50}}

	report := buildPipelineReport(stages, deals)
	if report.ConversionRate != 0 || report.AvgDaysToClose != 0 {
		t.Errorf("sem fechados, taxas devem ser zero: %+v", report)
	}
	if report.OpenDealsCount != 1 {
		t.Errorf("OpenDealsCount = %d, esperava 1", report.OpenDealsCount)
	}
}
