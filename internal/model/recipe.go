package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

// JSONBStringArray is a custom type for handling string arrays in JSONB
type JSONBStringArray []string

// Value implements the driver.Valuer interface
func (a JSONBStringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface
func (a *JSONBStringArray) Scan(value interface{}) error {
	if value == nil {
		*a = JSONBStringArray{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for JSONBStringArray", value)
	}

	return json.Unmarshal(bytes, a)
}

// Recipe is a catalog entry. Original recipes describe the craving itself,
// the others are healthier upgrades within the same category.
type Recipe struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
	DeletedAt   gorm.DeletedAt   `gorm:"index" json:"-"`
	Title       string           `gorm:"size:255;not null;uniqueIndex" json:"title"`
	CravingKey  string           `gorm:"size:100;index" json:"craving_key"`
	Category    string           `gorm:"size:50;index" json:"category"`
	Region      string           `gorm:"size:100" json:"region"`
	Continent   string           `gorm:"size:50" json:"continent"`
	Original    bool             `gorm:"not null;default:false" json:"original"`
	Calories    float64          `gorm:"type:float" json:"calories"`
	Protein     float64          `gorm:"type:float" json:"protein"`
	Carbs       float64          `gorm:"type:float" json:"carbs"`
	Fat         float64          `gorm:"type:float" json:"fat"`
	Fiber       float64          `gorm:"type:float" json:"fiber"`
	Sugar       float64          `gorm:"type:float" json:"sugar"`
	HealthScore float64          `gorm:"type:float;index" json:"health_score"`
	Ingredients JSONBStringArray `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Embedding   pgvector.Vector  `gorm:"type:vector(3)" json:"-"`
}

// BeforeCreate assigns an ID so the model works on databases without gen_random_uuid().
func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeSave keeps the embedding in sync with the searchable text.
func (r *Recipe) BeforeSave(tx *gorm.DB) error {
	r.Embedding = GenerateEmbedding(r.SearchText())
	return nil
}

// SearchText is the text the embedding is derived from.
func (r *Recipe) SearchText() string {
	return strings.Join([]string{r.Title, r.CravingKey, r.Category}, " ")
}

// Alternative is the shape returned to decode clients.
type Alternative struct {
	Title       string   `json:"title"`
	Calories    float64  `json:"calories"`
	Region      string   `json:"region"`
	Continent   string   `json:"continent"`
	HealthScore float64  `json:"health_score"`
	Ingredients []string `json:"ingredients"`
}

// ToAlternative converts a stored recipe into its decode response form.
func (r *Recipe) ToAlternative() Alternative {
	ingredients := []string(r.Ingredients)
	if ingredients == nil {
		ingredients = []string{}
	}
	return Alternative{
		Title:       r.Title,
		Calories:    r.Calories,
		Region:      r.Region,
		Continent:   r.Continent,
		HealthScore: r.HealthScore,
		Ingredients: ingredients,
	}
}
