package usecase

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/drinkbook/client/internal/domain"
	"github.com/drinkbook/client/internal/events"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MinGenerateIngredients is the fewest distinct ingredients a drink can be
// generated from
const MinGenerateIngredients = 3

// DrinkStoreConfig holds configuration for the drink store
type DrinkStoreConfig struct {
	// Locale is the BCP 47 tag used to order recipe names. Defaults to "en".
	Locale string
}

// DrinkStore owns the canonical in-memory recipe collection. The collection
// is kept sorted by name (case-insensitive, locale-aware, stable) and ids are
// unique. Callers only ever see copies.
type DrinkStore struct {
	remote domain.DrinkService
	errors *ErrorChannel
	broker *events.Broker
	log    *zap.Logger

	mu       sync.RWMutex
	drinks   []domain.Recipe
	loaded   bool
	collator *collate.Collator
}

// NewDrinkStore creates an empty store. Use OpenDrinkStore to also start the
// initial load.
func NewDrinkStore(
	remote domain.DrinkService,
	errs *ErrorChannel,
	broker *events.Broker,
	config DrinkStoreConfig,
	log *zap.Logger,
) *DrinkStore {
	if log == nil {
		log = zap.NewNop()
	}
	if broker == nil {
		broker = events.NewBroker()
	}
	if errs == nil {
		errs = NewErrorChannel(broker, log)
	}

	tag, err := language.Parse(config.Locale)
	if err != nil {
		if config.Locale != "" {
			log.Warn("unknown locale, falling back to English", zap.String("locale", config.Locale))
		}
		tag = language.English
	}

	return &DrinkStore{
		remote:   remote,
		errors:   errs,
		broker:   broker,
		log:      log.Named("store"),
		collator: collate.New(tag, collate.IgnoreCase),
	}
}

// OpenDrinkStore creates a store and triggers the initial Load in the background
func OpenDrinkStore(
	ctx context.Context,
	remote domain.DrinkService,
	errs *ErrorChannel,
	broker *events.Broker,
	config DrinkStoreConfig,
	log *zap.Logger,
) *DrinkStore {
	s := NewDrinkStore(remote, errs, broker, config, log)
	go s.Load(ctx)
	return s
}

// Load replaces the collection with the service's list. On failure the
// current collection is kept and the global error is set. It reports
// whether the load succeeded.
func (s *DrinkStore) Load(ctx context.Context) bool {
	drinks, err := s.remote.ListDrinks(ctx)
	if err != nil {
		s.log.Error("loading drinks failed", zap.Error(err))
		s.errors.Set(MsgFetchDrinksFailed)
		return false
	}

	sorted := make([]domain.Recipe, 0, len(drinks))
	seen := make(map[string]int, len(drinks))
	for _, d := range drinks {
		// Keep ids unique; a later duplicate replaces the earlier entry.
		if i, ok := seen[d.ID]; ok && d.ID != "" {
			sorted[i] = d.Clone()
			continue
		}
		seen[d.ID] = len(sorted)
		sorted = append(sorted, d.Clone())
	}

	s.mu.Lock()
	s.sortLocked(sorted)
	s.drinks = sorted
	s.loaded = true
	s.publishLocked()
	s.mu.Unlock()

	s.errors.Clear()
	s.log.Info("drinks loaded", zap.Int("count", len(sorted)))
	return true
}

// Create validates the candidate, sends it to the service and inserts the
// persisted recipe at its sorted position. Validation failures are returned
// untouched; transport failures also set the global error.
func (s *DrinkStore) Create(ctx context.Context, candidate domain.Recipe) (domain.Recipe, error) {
	if err := candidate.Validate(); err != nil {
		return domain.Recipe{}, err
	}

	created, err := s.remote.CreateDrink(ctx, candidate.ForCreate())
	if err != nil {
		s.log.Error("creating drink failed", zap.String("name", candidate.Name), zap.Error(err))
		s.errors.Set(MsgAddDrinkFailed)
		return domain.Recipe{}, err
	}

	s.upsert(*created)
	s.log.Info("drink created", zap.String("id", created.ID), zap.String("name", created.Name))
	return created.Clone(), nil
}

// ToggleFavorite asks the service to flip the favorite flag and stores the
// state it returns. Failures only set the global error.
func (s *DrinkStore) ToggleFavorite(ctx context.Context, id string) (domain.Recipe, bool) {
	updated, err := s.remote.ToggleFavorite(ctx, id)
	if err != nil {
		s.log.Error("toggling favorite failed", zap.String("id", id), zap.Error(err))
		s.errors.Set(MsgToggleFavoriteFailed)
		return domain.Recipe{}, false
	}

	s.mu.Lock()
	idx := slices.IndexFunc(s.drinks, func(d domain.Recipe) bool { return d.ID == updated.ID })
	if idx < 0 {
		s.mu.Unlock()
		s.log.Warn("toggled drink is not in the collection", zap.String("id", updated.ID))
		return updated.Clone(), true
	}
	next := slices.Clone(s.drinks)
	next[idx] = updated.Clone()
	s.sortLocked(next)
	s.drinks = next
	s.publishLocked()
	s.mu.Unlock()

	return updated.Clone(), true
}

// GenerateFromIngredients asks the service to invent a recipe from a set of
// ingredient names and inserts it. Errors are returned to the caller only;
// the global error is left alone because the picker shows them inline.
func (s *DrinkStore) GenerateFromIngredients(ctx context.Context, names []string) (domain.Recipe, error) {
	ingredients := normalizeIngredientNames(names)
	if len(ingredients) < MinGenerateIngredients {
		return domain.Recipe{}, fmt.Errorf("%w: select at least %d ingredients, got %d",
			domain.ErrValidation, MinGenerateIngredients, len(ingredients))
	}

	generated, err := s.remote.GenerateDrink(ctx, ingredients)
	if err != nil {
		s.log.Warn("generating drink failed", zap.Strings("ingredients", ingredients), zap.Error(err))
		return domain.Recipe{}, err
	}

	s.upsert(*generated)
	s.log.Info("drink generated", zap.String("id", generated.ID), zap.String("name", generated.Name))
	return generated.Clone(), nil
}

// FetchRandom returns a recipe chosen by the service without storing it.
// Failures set the global error.
func (s *DrinkStore) FetchRandom(ctx context.Context) (domain.Recipe, bool) {
	drink, err := s.remote.RandomDrink(ctx)
	if err != nil {
		s.log.Error("fetching random drink failed", zap.Error(err))
		s.errors.Set(MsgRandomDrinkFailed)
		return domain.Recipe{}, false
	}
	return drink.Clone(), true
}

// IngredientChoices returns the ingredients offered by the ingredient picker
func (s *DrinkStore) IngredientChoices(ctx context.Context) ([]domain.IngredientChoice, error) {
	return s.remote.ListIngredients(ctx)
}

// Lookup returns the stored recipe with the given id
func (s *DrinkStore) Lookup(id string) (domain.Recipe, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.drinks {
		if d.ID == id {
			return d.Clone(), true
		}
	}
	return domain.Recipe{}, false
}

// Drinks returns a copy of the sorted collection
func (s *DrinkStore) Drinks() []domain.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneRecipes(s.drinks)
}

// Loaded reports whether a Load has succeeded at least once
func (s *DrinkStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Subscribe returns a subscription receiving a []domain.Recipe snapshot after
// every change to the collection
func (s *DrinkStore) Subscribe() *events.Subscription {
	return s.broker.Subscribe(events.TopicDrinksUpdated)
}

// Unsubscribe releases a subscription obtained from Subscribe
func (s *DrinkStore) Unsubscribe(sub *events.Subscription) {
	s.broker.Unsubscribe(sub)
}

// upsert inserts r at its sorted position, replacing any entry with the same id
func (s *DrinkStore) upsert(r domain.Recipe) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Recipe, 0, len(s.drinks)+1)
	for _, d := range s.drinks {
		if r.ID != "" && d.ID == r.ID {
			continue
		}
		next = append(next, d)
	}

	// Insert after any equal names so earlier entries keep their position.
	idx := sort.Search(len(next), func(i int) bool {
		return s.collator.CompareString(next[i].Name, r.Name) > 0
	})
	s.drinks = slices.Insert(next, idx, r.Clone())
	s.publishLocked()
}

// sortLocked stable-sorts drinks by name; s.mu must be held for writing
// because the collator is not safe for concurrent use
func (s *DrinkStore) sortLocked(drinks []domain.Recipe) {
	slices.SortStableFunc(drinks, func(a, b domain.Recipe) int {
		return s.collator.CompareString(a.Name, b.Name)
	})
}

// publishLocked announces the current collection; s.mu must be held
func (s *DrinkStore) publishLocked() {
	s.broker.Publish(events.TopicDrinksUpdated, cloneRecipes(s.drinks))
}

func cloneRecipes(in []domain.Recipe) []domain.Recipe {
	out := make([]domain.Recipe, len(in))
	for i, d := range in {
		out[i] = d.Clone()
	}
	return out
}

// normalizeIngredientNames trims names, drops blanks and removes
// case-insensitive duplicates while keeping the first spelling and order
func normalizeIngredientNames(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, name)
	}
	return out
}
