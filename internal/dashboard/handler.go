package dashboard

import (
	"math"
	"time"

	"sige-backend/internal/auth"
	"sige-backend/internal/database"
	"sige-backend/internal/logging"
	"sige-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SummaryResponse struct {
	TodaySalesCount   int64   `json:"today_sales_count"`
	TodayRevenue      float64 `json:"today_revenue"`
	MonthRevenue      float64 `json:"month_revenue"`
	LowStockCount     int64   `json:"low_stock_count"`
	OpenDealsCount    int64   `json:"open_deals_count"`
	OpenDealsValue    float64 `json:"open_deals_value"`
	PendingTasksCount int64   `json:"pending_tasks_count"`
}

// GET /api/dashboard/summary
func SummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		now := time.Now()
		startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

		var res SummaryResponse

		if err := database.DB.Model(&models.Sale{}).
			Where("store_id = ? AND created_at >= ?", storeID, startOfDay).
			Count(&res.TodaySalesCount).Error; err != nil {
			logging.LogError("dashboard", "Summary", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o resumo")
		}

		database.DB.Model(&models.Sale{}).
			Where("store_id = ? AND created_at >= ?", storeID, startOfDay).
			Select("COALESCE(SUM(total_net), 0)").Scan(&res.TodayRevenue)

		database.DB.Model(&models.Sale{}).
			Where("store_id = ? AND created_at >= ?", storeID, startOfMonth).
			Select("COALESCE(SUM(total_net), 0)").Scan(&res.MonthRevenue)

		database.DB.Model(&models.Product{}).
			Where("store_id = ? AND current_stock <= min_stock", storeID).
			Count(&res.LowStockCount)

		// negócios fora dos estágios terminais
		database.DB.Model(&models.Deal{}).
			Joins("JOIN deal_stages ON deal_stages.id = deals.stage_id").
			Where("deals.store_id = ? AND deal_stages.slug NOT IN ?", storeID, []string{"won", "lost"}).
			Count(&res.OpenDealsCount)
		database.DB.Model(&models.Deal{}).
			Joins("JOIN deal_stages ON deal_stages.id = deals.stage_id").
			Where("deals.store_id = ? AND deal_stages.slug NOT IN ?", storeID, []string{"won", "lost"}).
			Select("COALESCE(SUM(deals.value), 0)").Scan(&res.OpenDealsValue)

		database.DB.Model(&models.Task{}).
			Where("store_id = ? AND status = ?", storeID, models.TaskStatusPending).
			Count(&res.PendingTasksCount)

		res.TodayRevenue = round2(res.TodayRevenue)
		res.MonthRevenue = round2(res.MonthRevenue)
		res.OpenDealsValue = round2(res.OpenDealsValue)

		return c.JSON(res)
	}
}

type chartPoint struct {
	Date string  `json:"date"`
	In   float64 `json:"in"`
	Out  float64 `json:"out"`
}

// GET /api/dashboard/cash-chart?days=30
// Série diária de entradas e saídas do caixa para o gráfico da visão geral.
func CashChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID, err := auth.StoreID(c)
		if err != nil {
			return err
		}

		days := c.QueryInt("days", 30)
		if days < 1 || days > 365 {
			return fiber.NewError(fiber.StatusBadRequest, "Parâmetro days deve ficar entre 1 e 365")
		}

		now := time.Now()
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).
			AddDate(0, 0, -(days - 1))

		var entries []models.CashFlowEntry
		if err := database.DB.
			Where("store_id = ? AND date >= ?", storeID, start).
			Find(&entries).Error; err != nil {
			logging.LogError("dashboard", "CashChart", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível montar o gráfico")
		}

		byDay := make(map[string]*chartPoint, days)
		points := make([]*chartPoint, 0, days)
		for i := 0; i < days; i++ {
			d := start.AddDate(0, 0, i).Format("2006-01-02")
			p := &chartPoint{Date: d}
			byDay[d] = p
			points = append(points, p)
		}

		for _, e := range entries {
			p, ok := byDay[e.Date.Format("2006-01-02")]
			if !ok {
				continue
			}
			if e.Direction == models.CashFlowIn {
				p.In += e.Amount
			} else {
				p.Out += e.Amount
			}
		}

		res := make([]chartPoint, 0, days)
		for _, p := range points {
			p.In = round2(p.In)
			p.Out = round2(p.Out)
			res = append(res, *p)
		}
		return c.JSON(res)
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
