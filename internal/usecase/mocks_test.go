package usecase

import (
	"context"
	"strconv"
	"sync"

	"github.com/drinkbook/client/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string]interface{}
	getError  error
	setError  error
	getCalled int
	setCalled int
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{
		data: make(map[string]interface{}),
	}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) (interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.getCalled++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrCacheMiss
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	return nil
}

// MockDrinkService is a mock implementation of domain.DrinkService
type MockDrinkService struct {
	mu sync.Mutex

	listResult  []domain.Recipe
	listError   error
	listCalls   int
	created     []domain.Recipe
	createError error
	nextID      int

	favoriteResult map[string]*domain.Recipe
	favoriteError  error

	generateResult *domain.Recipe
	generateError  error
	generateInput  []string

	randomResult *domain.Recipe
	randomError  error

	ingredients     []domain.IngredientChoice
	ingredientError error
}

func NewMockDrinkService() *MockDrinkService {
	return &MockDrinkService{favoriteResult: make(map[string]*domain.Recipe)}
}

func (m *MockDrinkService) ListDrinks(ctx context.Context) ([]domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listError != nil {
		return nil, m.listError
	}
	return m.listResult, nil
}

func (m *MockDrinkService) CreateDrink(ctx context.Context, recipe domain.Recipe) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, recipe)
	if m.createError != nil {
		return nil, m.createError
	}
	m.nextID++
	persisted := recipe.Clone()
	persisted.ID = "new-" + strconv.Itoa(m.nextID)
	return &persisted, nil
}

func (m *MockDrinkService) ToggleFavorite(ctx context.Context, id string) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.favoriteError != nil {
		return nil, m.favoriteError
	}
	if r, ok := m.favoriteResult[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *MockDrinkService) GenerateDrink(ctx context.Context, ingredients []string) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateInput = ingredients
	if m.generateError != nil {
		return nil, m.generateError
	}
	return m.generateResult, nil
}

func (m *MockDrinkService) RandomDrink(ctx context.Context) (*domain.Recipe, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.randomError != nil {
		return nil, m.randomError
	}
	return m.randomResult, nil
}

func (m *MockDrinkService) ListIngredients(ctx context.Context) ([]domain.IngredientChoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ingredientError != nil {
		return nil, m.ingredientError
	}
	return m.ingredients, nil
}

// MockImageSearcher is a mock implementation of domain.ImageSearcher. A
// request blocks while a gate is registered for its query.
type MockImageSearcher struct {
	mu       sync.Mutex
	results  map[string][]domain.ImageRef
	err      error
	requests []domain.ImageSearchRequest
	gates    map[string]chan struct{}
}

func NewMockImageSearcher() *MockImageSearcher {
	return &MockImageSearcher{
		results: make(map[string][]domain.ImageRef),
		gates:   make(map[string]chan struct{}),
	}
}

func (m *MockImageSearcher) SearchImages(ctx context.Context, req domain.ImageSearchRequest) ([]domain.ImageRef, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	gate := m.gates[req.Query]
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return m.results[req.Query], nil
}

func (m *MockImageSearcher) hold(query string) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	gate := make(chan struct{})
	m.gates[query] = gate
	return gate
}

func (m *MockImageSearcher) setResult(query string, refs []domain.ImageRef) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[query] = refs
}

func (m *MockImageSearcher) setError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockImageSearcher) calls() []domain.ImageSearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ImageSearchRequest, len(m.requests))
	copy(out, m.requests)
	return out
}
