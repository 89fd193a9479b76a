package domain

import "context"

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// DrinkService defines the remote operations the catalog depends on
type DrinkService interface {
	ListDrinks(ctx context.Context) ([]Recipe, error)
	CreateDrink(ctx context.Context, drink Recipe) (*Recipe, error)
	ToggleFavorite(ctx context.Context, id string) (*Recipe, error)
	GenerateDrink(ctx context.Context, ingredients []string) (*Recipe, error)
	RandomDrink(ctx context.Context) (*Recipe, error)
	ListIngredients(ctx context.Context) ([]IngredientChoice, error)
}

// ImageSearcher defines the remote stock photo search
type ImageSearcher interface {
	SearchImages(ctx context.Context, req ImageSearchRequest) ([]ImageRef, error)
}
