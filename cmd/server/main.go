package main

import (
	"log"
	"strings"

	"sige-backend/internal/auth"
	"sige-backend/internal/cashflow"
	"sige-backend/internal/config"
	"sige-backend/internal/customers"
	"sige-backend/internal/dashboard"
	"sige-backend/internal/database"
	"sige-backend/internal/marketing"
	"sige-backend/internal/models"
	"sige-backend/internal/pipeline"
	"sige-backend/internal/products"
	"sige-backend/internal/purchases"
	"sige-backend/internal/quotes"
	"sige-backend/internal/reports"
	"sige-backend/internal/sales"
	"sige-backend/internal/settings"
	"sige-backend/internal/tasks"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Erro inesperado no servidor",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Api-Secret",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	var generator marketing.TextGenerator
	if cfg.GeminiAPIKey != "" {
		generator = marketing.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel)
	}

	api := app.Group("/api")

	// Public
	api.Post("/auth/register-owner", auth.RegisterOwnerHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))
	api.Post("/webhooks/leads", customers.LeadWebhookHandler(cfg.APISecretKey))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Produtos e estoque
	protected.Get("/products", products.ListProductsHandler())
	protected.Get("/products/:id", products.GetProductHandler())
	protected.Post("/products", products.CreateProductHandler())
	protected.Put("/products/:id", products.UpdateProductHandler())
	protected.Post("/products/price-preview", products.PricePreviewHandler())

	// Entradas de compra (rateio de custos + precificação)
	protected.Post("/purchases", purchases.CreatePurchaseHandler())
	protected.Get("/purchases", purchases.ListPurchasesHandler())

	// Vendas (PDV)
	protected.Post("/sales", sales.CreateSaleHandler())
	protected.Get("/sales", sales.ListSalesHandler())

	// Clientes
	protected.Get("/customers", customers.ListCustomersHandler())
	protected.Get("/customers/:id", customers.GetCustomerHandler())
	protected.Post("/customers", customers.CreateCustomerHandler())
	protected.Put("/customers/:id", customers.UpdateCustomerHandler())
	protected.Delete("/customers/:id", customers.DeleteCustomerHandler())

	// Funil de vendas (CRM)
	protected.Get("/pipeline/stages", pipeline.ListStagesHandler())
	protected.Get("/pipeline/board", pipeline.BoardHandler())
	protected.Post("/deals", pipeline.CreateDealHandler())
	protected.Put("/deals/:id", pipeline.UpdateDealHandler())
	protected.Post("/deals/:id/move", pipeline.MoveDealHandler())
	protected.Delete("/deals/:id", pipeline.DeleteDealHandler())
	protected.Get("/deals/:id/history", pipeline.DealHistoryHandler())

	// Tarefas
	protected.Get("/tasks", tasks.ListTasksHandler())
	protected.Post("/tasks", tasks.CreateTaskHandler())
	protected.Put("/tasks/:id", tasks.UpdateTaskHandler())
	protected.Delete("/tasks/:id", tasks.DeleteTaskHandler())

	// Orçamentos
	protected.Get("/quotes", quotes.ListQuotesHandler())
	protected.Get("/quotes/:id", quotes.GetQuoteHandler())
	protected.Post("/quotes", quotes.CreateQuoteHandler())
	protected.Post("/quotes/:id/items", quotes.AddQuoteItemHandler())
	protected.Delete("/quotes/:id/items/:itemId", quotes.RemoveQuoteItemHandler())
	protected.Put("/quotes/:id/status", quotes.UpdateQuoteStatusHandler())
	protected.Put("/quotes/:id/discount", quotes.UpdateQuoteDiscountHandler())
	protected.Post("/quotes/:id/convert", quotes.ConvertQuoteHandler())

	// Fluxo de caixa
	protected.Get("/cashflow", cashflow.ListEntriesHandler())
	protected.Post("/cashflow", cashflow.CreateEntryHandler())
	protected.Delete("/cashflow/:id", cashflow.DeleteEntryHandler())
	protected.Get("/cashflow/summary/monthly", cashflow.MonthlySummaryHandler())

	// Relatórios
	protected.Get("/reports/sales", reports.SalesReportHandler())
	protected.Get("/reports/sales/export", reports.ExportSalesHandler())
	protected.Get("/reports/pipeline", reports.PipelineReportHandler())

	// Dashboard
	protected.Get("/dashboard/summary", dashboard.SummaryHandler())
	protected.Get("/dashboard/cash-chart", dashboard.CashChartHandler())

	// Marketing (IA)
	protected.Post("/marketing/generate", marketing.GenerateContentHandler(generator))

	// Configurações de precificação
	protected.Get("/settings/pricing", settings.GetPricingSettingsHandler())

	// Rotas restritas ao dono
	ownerRoutes := protected.Group("")
	ownerRoutes.Use(auth.RequireRole(models.RoleOwner))
	ownerRoutes.Put("/settings/pricing", settings.UpdatePricingSettingsHandler())
	ownerRoutes.Delete("/products/:id", products.DeleteProductHandler())

	log.Println("Servidor rodando na porta:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
