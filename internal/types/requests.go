package types

// DecodeRequest is the body of POST /api/decode.
// Craving is a pointer so that a missing field and an explicit null are both detectable.
type DecodeRequest struct {
	Craving *string `json:"craving"`
}

// TokenRequest is the body of POST /api/v1/auth/token
type TokenRequest struct {
	Password string `json:"password" binding:"required"`
}

// TokenResponse is returned after a successful admin login
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// RecipeRequest represents the request body for creating or updating a catalog recipe.
// A nil HealthScore is derived from the nutrition fields.
type RecipeRequest struct {
	Title       string   `json:"title" binding:"required"`
	CravingKey  string   `json:"craving_key"`
	Category    string   `json:"category" binding:"required"`
	Region      string   `json:"region"`
	Continent   string   `json:"continent"`
	Original    bool     `json:"original"`
	Calories    float64  `json:"calories"`
	Protein     float64  `json:"protein"`
	Carbs       float64  `json:"carbs"`
	Fat         float64  `json:"fat"`
	Fiber       float64  `json:"fiber"`
	Sugar       float64  `json:"sugar"`
	HealthScore *float64 `json:"health_score" binding:"omitempty,gte=0,lte=100"`
	Ingredients []string `json:"ingredients" binding:"required"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}
