package testhelpers

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/craveq/backend/internal/database"
	"github.com/pageza/craveq/backend/internal/model"
)

// SetupTestDatabase opens an isolated in-memory SQLite database with the catalog schema.
func SetupTestDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, database.RunMigrations(db))

	t.Cleanup(func() {
		if err := database.Close(db); err != nil {
			t.Logf("Error closing test database: %v", err)
		}
	})
	return db
}

// InsertRecipes stores recipes directly, bypassing the service layer.
// Health scores left at zero are derived from nutrition.
func InsertRecipes(t *testing.T, db *gorm.DB, recipes ...model.Recipe) []model.Recipe {
	t.Helper()

	for i := range recipes {
		if recipes[i].HealthScore == 0 {
			recipes[i].HealthScore = recipes[i].Nutrition().HealthScore()
		}
		if recipes[i].CravingKey == "" {
			recipes[i].CravingKey = recipes[i].Category
		}
		require.NoError(t, db.Create(&recipes[i]).Error)
	}
	return recipes
}

// BurgerCatalog is a small catalog with one original burger and three upgrades,
// one of which is less healthy than the original.
func BurgerCatalog() []model.Recipe {
	return []model.Recipe{
		{
			Title: "Classic Burger", CravingKey: "burger", Category: "burger", Original: true,
			Region: "United States", Continent: "North America",
			Calories: 540, Protein: 25, Carbs: 40, Fat: 30, Fiber: 2, Sugar: 8,
			Ingredients: model.JSONBStringArray{"Beef patty", "White flour bun", "Processed cheese"},
		},
		{
			Title: "Umami Mushroom Stack", CravingKey: "burger", Category: "burger",
			Region: "California", Continent: "North America",
			Calories: 310, Protein: 22, Carbs: 28, Fat: 12, Fiber: 7, Sugar: 4,
			Ingredients: model.JSONBStringArray{"Portobello mushroom cap", "Whole grain oat bun", "Cashew-miso spread"},
		},
		{
			Title: "Black Bean Quinoa Burger", CravingKey: "burger", Category: "burger",
			Region: "Mexico", Continent: "North America",
			Calories: 360, Protein: 18, Carbs: 45, Fat: 10, Fiber: 11, Sugar: 5,
			Ingredients: model.JSONBStringArray{"Black beans", "Quinoa", "Smoked paprika"},
		},
		{
			Title: "Double Bacon Cheeseburger", CravingKey: "burger", Category: "burger",
			Region: "United States", Continent: "North America",
			Calories: 980, Protein: 45, Carbs: 42, Fat: 65, Fiber: 2, Sugar: 10,
			Ingredients: model.JSONBStringArray{"Beef patty", "Bacon", "Cheddar"},
		},
	}
}
