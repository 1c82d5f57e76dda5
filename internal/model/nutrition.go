package model

import "math"

// Nutrition represents per-serving nutrition information for a recipe.
type Nutrition struct {
	Calories float64 `json:"calories" yaml:"calories"`
	Protein  float64 `json:"protein" yaml:"protein"`
	Carbs    float64 `json:"carbs" yaml:"carbs"`
	Fat      float64 `json:"fat" yaml:"fat"`
	Fiber    float64 `json:"fiber" yaml:"fiber"`
	Sugar    float64 `json:"sugar" yaml:"sugar"`
}

// HealthScore rates the nutrition on a 0-100 scale. Higher is healthier.
func (n Nutrition) HealthScore() float64 {
	score := 100 - n.Calories/8 + n.Protein + 1.5*n.Fiber - n.Sugar - 0.5*n.Fat
	score = math.Max(0, math.Min(100, score))
	return math.Round(score*10) / 10
}

// Nutrition returns the recipe's nutrition values.
func (r *Recipe) Nutrition() Nutrition {
	return Nutrition{
		Calories: r.Calories,
		Protein:  r.Protein,
		Carbs:    r.Carbs,
		Fat:      r.Fat,
		Fiber:    r.Fiber,
		Sugar:    r.Sugar,
	}
}

// DeriveHealthScore sets the health score from the recipe's nutrition.
func (r *Recipe) DeriveHealthScore() {
	r.HealthScore = r.Nutrition().HealthScore()
}
