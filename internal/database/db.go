package database

import (
	"log"

	"sige-backend/internal/config"
	"sige-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar no banco: %v", err)
	}

	err = DB.AutoMigrate(
		&models.Store{},
		&models.User{},
		&models.Product{},
		&models.Customer{},
		&models.Sale{},
		&models.SaleItem{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.DealStage{},
		&models.Deal{},
		&models.DealHistory{},
		&models.Task{},
		&models.Quote{},
		&models.QuoteItem{},
		&models.CashFlowEntry{},
		&models.PricingSettings{},
	)
	if err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco ok. Migration concluída.")
}

// defaultStages: funil padrão criado junto com a loja. "won" e "lost" são
// slugs fixos — os relatórios de conversão dependem deles.
var defaultStages = []models.DealStage{
	{Name: "Novo Lead", Slug: "novo-lead", OrderPosition: 1, Color: "#3B82F6"},
	{Name: "Em Contato", Slug: "contato", OrderPosition: 2, Color: "#8B5CF6"},
	{Name: "Proposta Enviada", Slug: "proposta", OrderPosition: 3, Color: "#F59E0B"},
	{Name: "Negociação", Slug: "negociacao", OrderPosition: 4, Color: "#F97316"},
	{Name: "Fechado (Ganho)", Slug: "won", OrderPosition: 5, Color: "#10B981"},
	{Name: "Perdido", Slug: "lost", OrderPosition: 6, Color: "#6B7280"},
}

// SeedDealStages cria o funil padrão para uma loja recém registrada.
// Idempotente: não faz nada se a loja já tem estágios.
func SeedDealStages(db *gorm.DB, storeID uint) error {
	var count int64
	if err := db.Model(&models.DealStage{}).Where("store_id = ?", storeID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, s := range defaultStages {
		s.StoreID = storeID
		if err := db.Create(&s).Error; err != nil {
			return err
		}
	}
	return nil
}
