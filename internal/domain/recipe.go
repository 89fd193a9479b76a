package domain

import (
	"fmt"
	"strings"
)

// Unit is the measurement unit of a recipe ingredient
type Unit string

// Known ingredient units. UnitTopUp means "fill to taste" and makes the
// ingredient amount meaningless.
const (
	UnitMl    Unit = "ml"
	UnitCl    Unit = "cl"
	UnitOz    Unit = "oz"
	UnitTsp   Unit = "tsp"
	UnitTbsp  Unit = "tbsp"
	UnitDash  Unit = "dash"
	UnitPiece Unit = "piece"
	UnitSlice Unit = "slice"
	UnitCup   Unit = "cup"
	UnitTopUp Unit = "top_up"
)

var knownUnits = map[Unit]bool{
	UnitMl: true, UnitCl: true, UnitOz: true, UnitTsp: true, UnitTbsp: true,
	UnitDash: true, UnitPiece: true, UnitSlice: true, UnitCup: true, UnitTopUp: true,
}

// Valid reports whether u is one of the known units
func (u Unit) Valid() bool {
	return knownUnits[u]
}

// Label returns the human readable unit label
func (u Unit) Label() string {
	if u == UnitTopUp {
		return "top up"
	}
	return string(u)
}

// DrinkType is the server-defined drink category. The set is open ended;
// the constants below are the values the service currently knows about.
type DrinkType string

const (
	DrinkTypeCocktail     DrinkType = "Cocktail"
	DrinkTypeMocktail     DrinkType = "Mocktail"
	DrinkTypeShot         DrinkType = "Shot"
	DrinkTypeSmoothie     DrinkType = "Smoothie"
	DrinkTypeMilkshake    DrinkType = "Milkshake"
	DrinkTypePunch        DrinkType = "Punch"
	DrinkTypeCoffeeDrink  DrinkType = "Coffee Drink"
	DrinkTypeTeaDrink     DrinkType = "Tea Drink"
	DrinkTypeHotChocolate DrinkType = "Hot Chocolate"
)

// Ingredient is a single line of a recipe
type Ingredient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   Unit    `json:"unit"`
}

// Recipe is a drink entry. ID is assigned by the remote service and is
// empty until the recipe has been persisted.
type Recipe struct {
	ID             string       `json:"id,omitempty"`
	Name           string       `json:"name"`
	Ingredients    []Ingredient `json:"ingredients"`
	Instructions   []string     `json:"instructions"`
	AlcoholContent bool         `json:"alcoholContent"`
	Type           DrinkType    `json:"type"`
	ImageID        *int64       `json:"imageId"`
	IsFavorite     bool         `json:"isFavorite"`
}

// Clone returns a deep copy so callers can never alias store-owned slices
func (r Recipe) Clone() Recipe {
	out := r
	out.Ingredients = append([]Ingredient(nil), r.Ingredients...)
	out.Instructions = append([]string(nil), r.Instructions...)
	if r.ImageID != nil {
		id := *r.ImageID
		out.ImageID = &id
	}
	return out
}

// Validate checks a candidate recipe before it is sent for creation.
// Returned errors wrap ErrValidation.
func (r Recipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(r.Instructions) == 0 || strings.TrimSpace(r.Instructions[0]) == "" {
		return fmt.Errorf("%w: at least one instruction is required", ErrValidation)
	}
	for i, ing := range r.Ingredients {
		if len([]rune(strings.TrimSpace(ing.Name))) < 2 {
			return fmt.Errorf("%w: ingredient %d name must be at least 2 characters", ErrValidation, i+1)
		}
		if !ing.Unit.Valid() {
			return fmt.Errorf("%w: ingredient %d has unknown unit %q", ErrValidation, i+1, ing.Unit)
		}
		if ing.Unit != UnitTopUp && ing.Amount <= 0 {
			return fmt.Errorf("%w: ingredient %d amount must be > 0", ErrValidation, i+1)
		}
	}
	return nil
}

// ForCreate returns the payload sent to the service when creating a recipe:
// no id, blank instructions dropped and top-up amounts normalised.
func (r Recipe) ForCreate() Recipe {
	out := r.Clone()
	out.ID = ""

	instructions := out.Instructions[:0]
	for _, step := range out.Instructions {
		if strings.TrimSpace(step) != "" {
			instructions = append(instructions, step)
		}
	}
	out.Instructions = instructions

	for i := range out.Ingredients {
		if out.Ingredients[i].Unit == UnitTopUp {
			out.Ingredients[i].Amount = 1
		}
	}
	return out
}

// IngredientChoice is an ingredient offered by the ingredient picker
type IngredientChoice struct {
	Name    string `json:"name"`
	ImageID *int64 `json:"imageId"`
}
