// ABOUTME: Backup document wire types and versioned decoding.
// ABOUTME: Field declarations follow sorted json-tag order for deterministic output.
package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/nutrition/internal/models"
)

// BackupVersion is the schema version this codec reads and writes.
const BackupVersion = 1

// BackupDocument is the self-contained export of the whole store: one
// flat list per entity type, cross-referenced by textual UUID only,
// never by nested objects. Struct fields are declared in sorted
// json-tag order; together with encoding/json's sorted map keys this
// makes repeated exports of an unchanged store byte-identical.
type BackupDocument struct {
	AITemplates       []BackupTemplate       `json:"aiTemplates"`
	DailyLogs         []BackupDailyLog       `json:"dailyLogs"`
	ExportDate        string                 `json:"exportDate"`
	FoodEntries       []BackupFoodEntry      `json:"foodEntries"`
	Products          []BackupProduct        `json:"products"`
	SupplementEntries []BackupSupplementEntry `json:"supplementEntries"`
	Supplements       []BackupSupplement     `json:"supplements"`
	Version           int                    `json:"version"`
}

// BackupProduct is the wire form of a Product. Values are per 100 g.
type BackupProduct struct {
	AddedSugar          *float64           `json:"addedSugar,omitempty"`
	Barcode             *string            `json:"barcode,omitempty"`
	Brand               *string            `json:"brand,omitempty"`
	Calories            float64            `json:"calories"`
	Carbohydrates       float64            `json:"carbohydrates"`
	Cholesterol         *float64           `json:"cholesterol,omitempty"`
	DateAdded           string             `json:"dateAdded"`
	Fat                 float64            `json:"fat"`
	Fibre               *float64           `json:"fibre,omitempty"`
	ID                  string             `json:"id"`
	ImageDataBase64     []byte             `json:"imageDataBase64,omitempty"`
	IsCustom            bool               `json:"isCustom"`
	MainImageDataBase64 []byte             `json:"mainImageDataBase64,omitempty"`
	Name                string             `json:"name"`
	NaturalSugar        *float64           `json:"naturalSugar,omitempty"`
	Notes               *string            `json:"notes,omitempty"`
	Nutrients           models.NutrientMap `json:"nutrients"`
	PortionSize         *float64           `json:"portionSize,omitempty"`
	PortionsPerPackage  *int               `json:"portionsPerPackage,omitempty"`
	Protein             float64            `json:"protein"`
	SaturatedFat        *float64           `json:"saturatedFat,omitempty"`
	ServingSize         float64            `json:"servingSize"`
	ServingSizeUnit     string             `json:"servingSizeUnit"`
	Sodium              *float64           `json:"sodium,omitempty"`
	Sugar               *float64           `json:"sugar,omitempty"`
	TransFat            *float64           `json:"transFat,omitempty"`
}

// BackupDailyLog is the wire form of a DailyLog.
type BackupDailyLog struct {
	CalorieTarget float64 `json:"calorieTarget"`
	CarbTarget    float64 `json:"carbTarget"`
	Date          string  `json:"date"`
	FatTarget     float64 `json:"fatTarget"`
	ID            string  `json:"id"`
	ProteinTarget float64 `json:"proteinTarget"`
}

// BackupFoodEntry is the wire form of a FoodEntry, snapshot included.
type BackupFoodEntry struct {
	AddedSugar     *float64           `json:"addedSugar,omitempty"`
	AIGenerated    bool               `json:"aiGenerated"`
	AIPrompt       *string            `json:"aiPrompt,omitempty"`
	Amount         float64            `json:"amount"`
	Calories       float64            `json:"calories"`
	Carbohydrates  float64            `json:"carbohydrates"`
	Cholesterol    *float64           `json:"cholesterol,omitempty"`
	CustomFoodName string             `json:"customFoodName"`
	DailyLogID     *string            `json:"dailyLogId,omitempty"`
	Fat            float64            `json:"fat"`
	Fibre          *float64           `json:"fibre,omitempty"`
	ID             string             `json:"id"`
	NaturalSugar   *float64           `json:"naturalSugar,omitempty"`
	Nutrients      models.NutrientMap `json:"nutrients"`
	ProductID      *string            `json:"productId,omitempty"`
	Protein        float64            `json:"protein"`
	SaturatedFat   *float64           `json:"saturatedFat,omitempty"`
	Sodium         *float64           `json:"sodium,omitempty"`
	Sugar          *float64           `json:"sugar,omitempty"`
	Timestamp      string             `json:"timestamp"`
	TransFat       *float64           `json:"transFat,omitempty"`
	Unit           string             `json:"unit"`
}

// BackupSupplement is the wire form of a Supplement.
type BackupSupplement struct {
	Barcode              *string            `json:"barcode,omitempty"`
	Brand                *string            `json:"brand,omitempty"`
	DateAdded            string             `json:"dateAdded"`
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	Notes                *string            `json:"notes,omitempty"`
	Nutrients            models.NutrientMap `json:"nutrients"`
	ServingsPerContainer float64            `json:"servingsPerContainer"`
}

// BackupSupplementEntry is the wire form of a SupplementEntry.
type BackupSupplementEntry struct {
	CustomSupplementName string             `json:"customSupplementName"`
	DailyLogID           *string            `json:"dailyLogId,omitempty"`
	ID                   string             `json:"id"`
	Nutrients            models.NutrientMap `json:"nutrients"`
	Servings             float64            `json:"servings"`
	SupplementID         *string            `json:"supplementId,omitempty"`
	Timestamp            string             `json:"timestamp"`
}

// BackupTemplate is the wire form of an AIFoodTemplate.
type BackupTemplate struct {
	AddedSugar    *float64           `json:"addedSugar,omitempty"`
	AIPrompt      *string            `json:"aiPrompt,omitempty"`
	Amount        float64            `json:"amount"`
	Calories      float64            `json:"calories"`
	Carbohydrates float64            `json:"carbohydrates"`
	Cholesterol   *float64           `json:"cholesterol,omitempty"`
	DateAdded     string             `json:"dateAdded"`
	Fat           float64            `json:"fat"`
	Fibre         *float64           `json:"fibre,omitempty"`
	ID            string             `json:"id"`
	LastUsed      *string            `json:"lastUsed,omitempty"`
	Name          string             `json:"name"`
	NaturalSugar  *float64           `json:"naturalSugar,omitempty"`
	Nutrients     models.NutrientMap `json:"nutrients"`
	Protein       float64            `json:"protein"`
	SaturatedFat  *float64           `json:"saturatedFat,omitempty"`
	Sodium        *float64           `json:"sodium,omitempty"`
	Sugar         *float64           `json:"sugar,omitempty"`
	Timestamp     string             `json:"timestamp"`
	TransFat      *float64           `json:"transFat,omitempty"`
	Unit          string             `json:"unit"`
	UseCount      int                `json:"useCount"`
	WeightInGrams float64            `json:"weightInGrams"`
}

// DecodeBackup deserializes a backup document without touching the
// store. Garbage or a document missing its version field is
// ErrMalformedBackup; a recognized document with a version this codec
// does not handle is ErrUnsupportedVersion.
func DecodeBackup(data []byte) (*BackupDocument, error) {
	var probe struct {
		Version *int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	if probe.Version == nil {
		return nil, fmt.Errorf("%w: missing version field", ErrMalformedBackup)
	}
	if *probe.Version != BackupVersion {
		return nil, fmt.Errorf("%w: version %d", ErrUnsupportedVersion, *probe.Version)
	}

	var doc BackupDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBackup, err)
	}
	return &doc, nil
}

// Wire conversions. The to* functions never fail; the from* functions
// validate uuids and timestamps because the document is foreign input.

func toBackupProduct(p *models.Product) BackupProduct {
	return BackupProduct{
		AddedSugar:          p.AddedSugarPer100g,
		Barcode:             p.Barcode,
		Brand:               p.Brand,
		Calories:            p.CaloriesPer100g,
		Carbohydrates:       p.CarbsPer100g,
		Cholesterol:         p.CholesterolPer100g,
		DateAdded:           formatTime(p.DateAdded),
		Fat:                 p.FatPer100g,
		Fibre:               p.FibrePer100g,
		ID:                  p.ID.String(),
		ImageDataBase64:     p.ImageData,
		IsCustom:            p.IsCustom,
		MainImageDataBase64: p.MainImageData,
		Name:                p.Name,
		NaturalSugar:        p.NaturalSugarPer100g,
		Notes:               p.Notes,
		Nutrients:           ensureNutrients(p.Nutrients),
		PortionSize:         p.PortionGrams,
		PortionsPerPackage:  p.PortionsPerPackage,
		Protein:             p.ProteinPer100g,
		SaturatedFat:        p.SaturatedFatPer100g,
		ServingSize:         p.ServingSize,
		ServingSizeUnit:     p.ServingSizeUnit,
		Sodium:              p.SodiumPer100g,
		Sugar:               p.SugarPer100g,
		TransFat:            p.TransFatPer100g,
	}
}

func fromBackupProduct(b BackupProduct) (*models.Product, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: product id %q", ErrMalformedBackup, b.ID)
	}
	dateAdded, err := parseBackupTime(b.DateAdded)
	if err != nil {
		return nil, fmt.Errorf("%w: product dateAdded %q", ErrMalformedBackup, b.DateAdded)
	}
	return &models.Product{
		ID:                  id,
		Name:                b.Name,
		Barcode:             b.Barcode,
		Brand:               b.Brand,
		CaloriesPer100g:     b.Calories,
		ProteinPer100g:      b.Protein,
		CarbsPer100g:        b.Carbohydrates,
		FatPer100g:          b.Fat,
		SugarPer100g:        b.Sugar,
		NaturalSugarPer100g: b.NaturalSugar,
		AddedSugarPer100g:   b.AddedSugar,
		FibrePer100g:        b.Fibre,
		SodiumPer100g:       b.Sodium,
		CholesterolPer100g:  b.Cholesterol,
		SaturatedFatPer100g: b.SaturatedFat,
		TransFatPer100g:     b.TransFat,
		Nutrients:           ensureNutrients(b.Nutrients),
		ServingSize:         b.ServingSize,
		ServingSizeUnit:     b.ServingSizeUnit,
		PortionGrams:        b.PortionSize,
		PortionsPerPackage:  b.PortionsPerPackage,
		ImageData:           b.ImageDataBase64,
		MainImageData:       b.MainImageDataBase64,
		Notes:               b.Notes,
		IsCustom:            b.IsCustom,
		DateAdded:           dateAdded,
	}, nil
}

func toBackupDailyLog(l *models.DailyLog) BackupDailyLog {
	return BackupDailyLog{
		CalorieTarget: l.CalorieTarget,
		CarbTarget:    l.CarbTarget,
		Date:          formatTime(l.Date),
		FatTarget:     l.FatTarget,
		ID:            l.ID.String(),
		ProteinTarget: l.ProteinTarget,
	}
}

func fromBackupDailyLog(b BackupDailyLog) (*models.DailyLog, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: daily log id %q", ErrMalformedBackup, b.ID)
	}
	date, err := parseBackupTime(b.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: daily log date %q", ErrMalformedBackup, b.Date)
	}
	return &models.DailyLog{
		ID:            id,
		Date:          models.DayStart(date),
		CalorieTarget: b.CalorieTarget,
		ProteinTarget: b.ProteinTarget,
		CarbTarget:    b.CarbTarget,
		FatTarget:     b.FatTarget,
	}, nil
}

func toBackupFoodEntry(e *models.FoodEntry) BackupFoodEntry {
	return BackupFoodEntry{
		AddedSugar:     e.Snapshot.AddedSugar,
		AIGenerated:    e.AIGenerated,
		AIPrompt:       e.AIPrompt,
		Amount:         e.Amount,
		Calories:       e.Snapshot.Calories,
		Carbohydrates:  e.Snapshot.Carbs,
		Cholesterol:    e.Snapshot.Cholesterol,
		CustomFoodName: e.SourceName,
		DailyLogID:     optUUIDStr(e.DailyLogID),
		Fat:            e.Snapshot.Fat,
		Fibre:          e.Snapshot.Fibre,
		ID:             e.ID.String(),
		NaturalSugar:   e.Snapshot.NaturalSugar,
		Nutrients:      ensureNutrients(e.Snapshot.Nutrients),
		ProductID:      optUUIDStr(e.ProductID),
		Protein:        e.Snapshot.Protein,
		SaturatedFat:   e.Snapshot.SaturatedFat,
		Sodium:         e.Snapshot.Sodium,
		Sugar:          e.Snapshot.Sugar,
		Timestamp:      formatTime(e.Timestamp),
		TransFat:       e.Snapshot.TransFat,
		Unit:           e.Unit,
	}
}

// fromBackupFoodEntry converts the wire entry. Foreign keys stay raw
// strings here; the reconciler re-homes them through its id maps.
func fromBackupFoodEntry(b BackupFoodEntry) (*models.FoodEntry, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: food entry id %q", ErrMalformedBackup, b.ID)
	}
	ts, err := parseBackupTime(b.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: food entry timestamp %q", ErrMalformedBackup, b.Timestamp)
	}
	return &models.FoodEntry{
		ID:         id,
		SourceName: b.CustomFoodName,
		Amount:     b.Amount,
		Unit:       b.Unit,
		Timestamp:  ts,
		Snapshot: models.Snapshot{
			Calories:     b.Calories,
			Protein:      b.Protein,
			Carbs:        b.Carbohydrates,
			Fat:          b.Fat,
			Sugar:        b.Sugar,
			NaturalSugar: b.NaturalSugar,
			AddedSugar:   b.AddedSugar,
			Fibre:        b.Fibre,
			Sodium:       b.Sodium,
			Cholesterol:  b.Cholesterol,
			SaturatedFat: b.SaturatedFat,
			TransFat:     b.TransFat,
			Nutrients:    ensureNutrients(b.Nutrients),
		},
		AIGenerated: b.AIGenerated,
		AIPrompt:    b.AIPrompt,
	}, nil
}

func toBackupSupplement(s *models.Supplement) BackupSupplement {
	return BackupSupplement{
		Barcode:              s.Barcode,
		Brand:                s.Brand,
		DateAdded:            formatTime(s.DateAdded),
		ID:                   s.ID.String(),
		Name:                 s.Name,
		Notes:                s.Notes,
		Nutrients:            ensureNutrients(s.Nutrients),
		ServingsPerContainer: s.ServingsPerContainer,
	}
}

func fromBackupSupplement(b BackupSupplement) (*models.Supplement, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: supplement id %q", ErrMalformedBackup, b.ID)
	}
	dateAdded, err := parseBackupTime(b.DateAdded)
	if err != nil {
		return nil, fmt.Errorf("%w: supplement dateAdded %q", ErrMalformedBackup, b.DateAdded)
	}
	return &models.Supplement{
		ID:                   id,
		Name:                 b.Name,
		Brand:                b.Brand,
		Barcode:              b.Barcode,
		ServingsPerContainer: b.ServingsPerContainer,
		Nutrients:            ensureNutrients(b.Nutrients),
		Notes:                b.Notes,
		DateAdded:            dateAdded,
	}, nil
}

func toBackupSupplementEntry(e *models.SupplementEntry) BackupSupplementEntry {
	return BackupSupplementEntry{
		CustomSupplementName: e.SourceName,
		DailyLogID:           optUUIDStr(e.DailyLogID),
		ID:                   e.ID.String(),
		Nutrients:            ensureNutrients(e.Nutrients),
		Servings:             e.Servings,
		SupplementID:         optUUIDStr(e.SupplementID),
		Timestamp:            formatTime(e.Timestamp),
	}
}

func fromBackupSupplementEntry(b BackupSupplementEntry) (*models.SupplementEntry, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: supplement entry id %q", ErrMalformedBackup, b.ID)
	}
	ts, err := parseBackupTime(b.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: supplement entry timestamp %q", ErrMalformedBackup, b.Timestamp)
	}
	return &models.SupplementEntry{
		ID:         id,
		SourceName: b.CustomSupplementName,
		Servings:   b.Servings,
		Timestamp:  ts,
		Nutrients:  ensureNutrients(b.Nutrients),
	}, nil
}

func toBackupTemplate(t *models.AIFoodTemplate) BackupTemplate {
	var lastUsed *string
	if t.LastUsed != nil {
		lu := formatTime(*t.LastUsed)
		lastUsed = &lu
	}
	return BackupTemplate{
		AddedSugar:    t.Snapshot.AddedSugar,
		AIPrompt:      t.AIPrompt,
		Amount:        t.Amount,
		Calories:      t.Snapshot.Calories,
		Carbohydrates: t.Snapshot.Carbs,
		Cholesterol:   t.Snapshot.Cholesterol,
		DateAdded:     formatTime(t.DateAdded),
		Fat:           t.Snapshot.Fat,
		Fibre:         t.Snapshot.Fibre,
		ID:            t.ID.String(),
		LastUsed:      lastUsed,
		Name:          t.Name,
		NaturalSugar:  t.Snapshot.NaturalSugar,
		Nutrients:     ensureNutrients(t.Snapshot.Nutrients),
		Protein:       t.Snapshot.Protein,
		SaturatedFat:  t.Snapshot.SaturatedFat,
		Sodium:        t.Snapshot.Sodium,
		Sugar:         t.Snapshot.Sugar,
		Timestamp:     formatTime(t.DateAdded),
		TransFat:      t.Snapshot.TransFat,
		Unit:          t.Unit,
		UseCount:      t.UseCount,
		WeightInGrams: t.WeightGrams,
	}
}

func fromBackupTemplate(b BackupTemplate) (*models.AIFoodTemplate, error) {
	id, err := uuid.Parse(b.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: template id %q", ErrMalformedBackup, b.ID)
	}
	dateAdded, err := parseBackupTime(b.DateAdded)
	if err != nil {
		return nil, fmt.Errorf("%w: template dateAdded %q", ErrMalformedBackup, b.DateAdded)
	}
	var lastUsed *time.Time
	if b.LastUsed != nil {
		lu, err := parseBackupTime(*b.LastUsed)
		if err != nil {
			return nil, fmt.Errorf("%w: template lastUsed %q", ErrMalformedBackup, *b.LastUsed)
		}
		lastUsed = &lu
	}
	return &models.AIFoodTemplate{
		ID:          id,
		Name:        b.Name,
		Amount:      b.Amount,
		Unit:        b.Unit,
		WeightGrams: b.WeightInGrams,
		Snapshot: models.Snapshot{
			Calories:     b.Calories,
			Protein:      b.Protein,
			Carbs:        b.Carbohydrates,
			Fat:          b.Fat,
			Sugar:        b.Sugar,
			NaturalSugar: b.NaturalSugar,
			AddedSugar:   b.AddedSugar,
			Fibre:        b.Fibre,
			Sodium:       b.Sodium,
			Cholesterol:  b.Cholesterol,
			SaturatedFat: b.SaturatedFat,
			TransFat:     b.TransFat,
			Nutrients:    ensureNutrients(b.Nutrients),
		},
		AIPrompt:  b.AIPrompt,
		UseCount:  b.UseCount,
		LastUsed:  lastUsed,
		DateAdded: dateAdded,
	}, nil
}

func optUUIDStr(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func ensureNutrients(nm models.NutrientMap) models.NutrientMap {
	if nm == nil {
		return models.NutrientMap{}
	}
	return nm
}

// parseBackupTime accepts RFC3339 with or without fractional seconds.
func parseBackupTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
