package reports

import (
	"math"
	"sort"
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type topProduct struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type paymentMethodTotal struct {
	Method  string  `json:"method"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type dailyTotal struct {
	Date    string  `json:"date"`
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

type SalesReport struct {
	From           string               `json:"from"`
	To             string               `json:"to"`
	SalesCount     int                  `json:"sales_count"`
	TotalRevenue   float64              `json:"total_revenue"`
	AverageTicket  float64              `json:"average_ticket"`
	ProductsSold   int                  `json:"products_sold"`
	TopProducts    []topProduct         `json:"top_products"`
	PaymentMethods []paymentMethodTotal `json:"payment_methods"`
	SalesByDay     []dailyTotal         `json:"sales_by_day"`
}

func parsePeriod(c *fiber.Ctx) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	to := now
	if s := c.Query("from"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Parâmetro from inválido, use YYYY-MM-DD")
		}
		from = d
	}
	if s := c.Query("to"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return from, to, fiber.NewError(fiber.StatusBadRequest, "Parâmetro to inválido, use YYYY-MM-DD")
		}
		to = d.Add(24*time.Hour - time.Nanosecond)
	}
	if to.Before(from) {
		return from, to, fiber.NewError(fiber.StatusBadRequest, "Período inválido: to antes de from")
	}
	return from, to, nil
}

func buildSalesReport(sales []models.Sale, from, to time.Time) SalesReport {
	report := SalesReport{
		From:           from.Format("2006-01-02"),
		To:             to.Format("2006-01-02"),
		SalesCount:     len(sales),
		TopProducts:    []topProduct{},
		PaymentMethods: []paymentMethodTotal{},
		SalesByDay:     []dailyTotal{},
	}

	byProduct := map[uint]*topProduct{}
	byMethod := map[string]*paymentMethodTotal{}
	byDay := map[string]*dailyTotal{}

	for _, s := range sales {
		report.TotalRevenue += s.TotalNet

		pm, ok := byMethod[s.PaymentMethod]
		if !ok {
			pm = &paymentMethodTotal{Method: s.PaymentMethod}
			byMethod[s.PaymentMethod] = pm
		}
		pm.Count++
		pm.Revenue += s.TotalNet

		day := s.CreatedAt.Format("2006-01-02")
		dt, ok := byDay[day]
		if !ok {
			dt = &dailyTotal{Date: day}
			byDay[day] = dt
		}
		dt.Count++
		dt.Revenue += s.TotalNet

		for _, it := range s.Items {
			report.ProductsSold += it.Quantity
			tp, ok := byProduct[it.ProductID]
			if !ok {
				tp = &topProduct{ProductID: it.ProductID, Name: it.Product.Name}
				byProduct[it.ProductID] = tp
			}
			tp.Quantity += it.Quantity
			tp.Revenue += float64(it.Quantity) * it.UnitPriceAtSale
		}
	}

	if report.SalesCount > 0 {
		report.AverageTicket = round2(report.TotalRevenue / float64(report.SalesCount))
	}
	report.TotalRevenue = round2(report.TotalRevenue)

	for _, tp := range byProduct {
		tp.Revenue = round2(tp.Revenue)
		report.TopProducts = append(report.TopProducts, *tp)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		if report.TopProducts[i].Revenue != report.TopProducts[j].Revenue {
			return report.TopProducts[i].Revenue > report.TopProducts[j].Revenue
		}
		return report.TopProducts[i].ProductID < report.TopProducts[j].ProductID
	})
	if len(report.TopProducts) > 10 {
		report.TopProducts = report.TopProducts[:10]
	}

	for _, pm := range byMethod {
		pm.Revenue = round2(pm.Revenue)
		report.PaymentMethods = append(report.PaymentMethods, *pm)
	}
	sort.Slice(report.PaymentMethods, func(i, j int) bool {
		return report.PaymentMethods[i].Revenue > report.PaymentMethods[j].Revenue
	})

	for _, dt := range byDay {
		dt.Revenue = round2(dt.Revenue)
		report.SalesByDay = append(report.SalesByDay, *dt)
	}
	sort.Slice(report.SalesByDay, func(i, j int) bool {
		return report.SalesByDay[i].Date < report.SalesByDay[j].Date
	})

	return report
}

// GET /api/reports/sales?from=&to=&seller_id=
func SalesReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}
		from, to, err := parsePeriod(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Preload("Items.Product").
			Where("store_id = ? AND created_at BETWEEN ? AND ?", storeID, from, to)
		if sellerID := c.QueryInt("seller_id"); sellerID > 0 {
			dbq = dbq.Where("seller_id = ?", sellerID)
		}

		var sales []models.Sale
		if err := dbq.Find(&sales).Error; err != nil {
			logging.LogError("reports", "SalesReport", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o relatório de vendas")
		}

		return c.JSON(buildSalesReport(sales, from, to))
	}
}

type stageTotal struct {
	StageID uint    `json:"stage_id"`
	Name    string  `json:"name"`
	Slug    string  `json:"slug"`
	Count   int     `json:"count"`
	Value   float64 `json:"value"`
}

type PipelineReport struct {
	Stages          []stageTotal `json:"stages"`
	WonCount        int          `json:"won_count"`
	LostCount       int          `json:"lost_count"`
	ConversionRate  float64      `json:"conversion_rate"` // won / (won+lost), em %
	AvgDaysToClose  float64      `json:"avg_days_to_close"`
	OpenDealsCount  int          `json:"open_deals_count"`
	OpenDealsValue  float64      `json:"open_deals_value"`
}

func buildPipelineReport(stages []models.DealStage, deals []models.Deal) PipelineReport {
	report := PipelineReport{Stages: []stageTotal{}}

	byStage := map[uint]*stageTotal{}
	slugByStage := map[uint]string{}
	for _, st := range stages {
		byStage[st.ID] = &stageTotal{StageID: st.ID, Name: st.Name, Slug: st.Slug}
		slugByStage[st.ID] = st.Slug
	}

	var totalCloseDays float64
	var closedWithDate int

	for _, d := range deals {
		st, ok := byStage[d.StageID]
		if !ok {
			continue
		}
		st.Count++
		st.Value += d.Value

		switch slugByStage[d.StageID] {
		case "won":
			report.WonCount++
			totalCloseDays += d.UpdatedAt.Sub(d.CreatedAt).Hours() / 24
			closedWithDate++
		case "lost":
			report.LostCount++
		default:
			report.OpenDealsCount++
			report.OpenDealsValue += d.Value
		}
	}

	for _, st := range stages {
		total := byStage[st.ID]
		total.Value = round2(total.Value)
		report.Stages = append(report.Stages, *total)
	}

	closed := report.WonCount + report.LostCount
	if closed > 0 {
		report.ConversionRate = math.Round(float64(report.WonCount)/float64(closed)*1000) / 10
	}
	if closedWithDate > 0 {
		report.AvgDaysToClose = math.Round(totalCloseDays/float64(closedWithDate)*10) / 10
	}
	report.OpenDealsValue = round2(report.OpenDealsValue)

	return report
}

// GET /api/reports/pipeline
func PipelineReportHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		var stages []models.DealStage
		if err := database.DB.Where("store_id = ?", storeID).
			Order("order_position asc").Find(&stages).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar o funil")
		}

		var deals []models.Deal
		if err := database.DB.Where("store_id = ?", storeID).Find(&deals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível carregar os negócios")
		}

		return c.JSON(buildPipelineReport(stages, deals))
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
