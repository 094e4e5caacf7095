// ABOUTME: Repository interface for nutrition data storage.
// ABOUTME: Defines the contract for products, logs, entries, supplements, templates.
package storage

import (
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

// Targets holds the default macro targets applied when a daily log is
// first created for a day.
type Targets struct {
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
}

// Repository defines the storage interface for nutrition data.
// This interface allows swapping implementations (e.g., for testing).
type Repository interface {
	// Product operations
	CreateProduct(p *models.Product) error
	GetProduct(idOrPrefix string) (*models.Product, error)
	ListProducts(limit int) ([]*models.Product, error)
	UpdateProduct(p *models.Product) error
	DeleteProduct(idOrPrefix string) error
	FindProductByBarcode(barcode string) (*models.Product, error)
	FindProductByNameBrand(name string, brand *string) (*models.Product, error)

	// Supplement operations
	CreateSupplement(s *models.Supplement) error
	GetSupplement(idOrPrefix string) (*models.Supplement, error)
	ListSupplements(limit int) ([]*models.Supplement, error)
	DeleteSupplement(idOrPrefix string) error
	FindSupplementByBarcode(barcode string) (*models.Supplement, error)
	FindSupplementByNameBrand(name string, brand *string) (*models.Supplement, error)

	// Daily log operations
	GetOrCreateDailyLog(t time.Time, defaults Targets) (*models.DailyLog, error)
	GetDailyLogByDate(t time.Time) (*models.DailyLog, error)
	ListDailyLogs(limit int) ([]*models.DailyLog, error)
	UpdateDailyLogTargets(log *models.DailyLog) error
	DeleteDailyLog(idOrPrefix string) error

	// Food entry operations
	CreateFoodEntry(e *models.FoodEntry) error
	GetFoodEntry(idOrPrefix string) (*models.FoodEntry, error)
	ListFoodEntriesForLog(logID uuid.UUID) ([]*models.FoodEntry, error)
	ListFoodEntries(limit int) ([]*models.FoodEntry, error)
	UpdateFoodEntry(e *models.FoodEntry) error
	DeleteFoodEntry(idOrPrefix string) error

	// Supplement entry operations
	CreateSupplementEntry(e *models.SupplementEntry) error
	ListSupplementEntriesForLog(logID uuid.UUID) ([]*models.SupplementEntry, error)
	ListSupplementEntries(limit int) ([]*models.SupplementEntry, error)
	DeleteSupplementEntry(idOrPrefix string) error

	// Template operations
	CreateTemplate(t *models.AIFoodTemplate) error
	GetTemplate(idOrPrefix string) (*models.AIFoodTemplate, error)
	ListTemplates(limit int) ([]*models.AIFoodTemplate, error)
	FindTemplateByName(name string) (*models.AIFoodTemplate, error)
	UpdateTemplate(t *models.AIFoodTemplate) error

	// Backup
	Export(at time.Time) ([]byte, error)
	Import(data []byte) (*ImportSummary, error)

	// Lifecycle
	Close() error
}

// compile-time check
var _ Repository = (*DB)(nil)
