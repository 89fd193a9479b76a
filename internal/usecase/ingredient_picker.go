package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/drinkbook/client/internal/domain"
	"go.uber.org/zap"
)

// MsgGenerateFailed is shown inline when drink generation fails
const MsgGenerateFailed = "Failed to generate a drink. Please try again!"

// IngredientPicker backs the "make a drink from what I have" flow: it lists
// ingredient choices, narrows them by a search query and generates a recipe
// from the selection.
type IngredientPicker struct {
	store *DrinkStore
	log   *zap.Logger

	mu        sync.Mutex
	choices   []domain.IngredientChoice
	query     string
	selected  []string
	inlineErr string
}

// NewIngredientPicker creates an empty picker generating through store
func NewIngredientPicker(store *DrinkStore, log *zap.Logger) *IngredientPicker {
	if log == nil {
		log = zap.NewNop()
	}
	return &IngredientPicker{store: store, log: log.Named("picker")}
}

// Load replaces the choices with the ingredients offered by the service
func (p *IngredientPicker) Load(ctx context.Context) error {
	choices, err := p.store.IngredientChoices(ctx)
	if err != nil {
		p.log.Warn("loading ingredients failed", zap.Error(err))
		return err
	}
	p.SetChoices(choices)
	return nil
}

// SetChoices replaces the available ingredients
func (p *IngredientPicker) SetChoices(choices []domain.IngredientChoice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.choices = slices.Clone(choices)
}

// SetQuery narrows Visible to choices containing query, case-insensitively
func (p *IngredientPicker) SetQuery(query string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.query = query
}

// Visible returns the choices matching the current query
func (p *IngredientPicker) Visible() []domain.IngredientChoice {
	p.mu.Lock()
	defer p.mu.Unlock()

	query := strings.ToLower(strings.TrimSpace(p.query))
	out := make([]domain.IngredientChoice, 0, len(p.choices))
	for _, c := range p.choices {
		if query == "" || strings.Contains(strings.ToLower(c.Name), query) {
			out = append(out, c)
		}
	}
	return out
}

// Toggle selects or deselects an ingredient and reports whether it is
// selected afterwards
func (p *IngredientPicker) Toggle(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if i := slices.Index(p.selected, name); i >= 0 {
		p.selected = slices.Delete(p.selected, i, i+1)
		return false
	}
	p.selected = append(p.selected, name)
	return true
}

// Selected returns the selected ingredient names in selection order
func (p *IngredientPicker) Selected() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.selected)
}

// Error returns the inline error from the last Submit, "" when none
func (p *IngredientPicker) Error() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inlineErr
}

// Submit generates a recipe from the selection. On success the selection
// and inline error are cleared; on a service failure the inline error is set
// and the selection is kept for a retry.
func (p *IngredientPicker) Submit(ctx context.Context) (domain.Recipe, error) {
	p.mu.Lock()
	selected := slices.Clone(p.selected)
	p.mu.Unlock()

	if len(selected) < MinGenerateIngredients {
		return domain.Recipe{}, fmt.Errorf("%w: select at least %d ingredients", domain.ErrValidation, MinGenerateIngredients)
	}

	recipe, err := p.store.GenerateFromIngredients(ctx, selected)

	p.mu.Lock()
	defer p.mu.Unlock()
	if err != nil {
		if !errors.Is(err, domain.ErrValidation) {
			p.inlineErr = MsgGenerateFailed
		}
		return domain.Recipe{}, err
	}
	p.inlineErr = ""
	p.selected = nil
	return recipe, nil
}
