package usecase

import (
	"errors"
	"testing"

	"github.com/drinkbook/client/internal/domain"
)

func sampleCatalog() []domain.Recipe {
	return []domain.Recipe{
		{
			ID: "1", Name: "Espresso Martini", AlcoholContent: true, Type: domain.DrinkTypeCocktail,
			Ingredients: []domain.Ingredient{{Name: "Vodka"}, {Name: "Coffee Liqueur"}, {Name: "Espresso"}},
		},
		{
			ID: "2", Name: "Strawberry Smoothie", Type: domain.DrinkTypeSmoothie,
			Ingredients: []domain.Ingredient{{Name: "Strawberries"}, {Name: "Yogurt"}},
		},
		{
			ID: "3", Name: "Mojito", AlcoholContent: true, Type: domain.DrinkTypeCocktail,
			Ingredients: []domain.Ingredient{{Name: "White Rum"}, {Name: "Mint"}, {Name: "Lime"}},
		},
		{
			ID: "4", Name: "Virgin Mojito", Type: domain.DrinkTypeMocktail,
			Ingredients: []domain.Ingredient{{Name: "Mint"}, {Name: "Lime"}, {Name: "Soda Water"}},
		},
	}
}

func filteredIDs(drinks []domain.Recipe) []string {
	ids := make([]string, len(drinks))
	for i, d := range drinks {
		ids[i] = d.ID
	}
	return ids
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewCatalogFilter(t *testing.T) {
	t.Run("uses default edit distance when zero", func(t *testing.T) {
		f := NewCatalogFilter(FilterConfig{})
		if f.fuzzyEditDistance != 1 {
			t.Errorf("fuzzyEditDistance = %v, want 1 (default)", f.fuzzyEditDistance)
		}
	})

	t.Run("keeps provided edit distance", func(t *testing.T) {
		f := NewCatalogFilter(FilterConfig{FuzzyEditDistance: 2})
		if f.fuzzyEditDistance != 2 {
			t.Errorf("fuzzyEditDistance = %v, want 2", f.fuzzyEditDistance)
		}
	})
}

func TestCatalogFilter_Filter(t *testing.T) {
	f := NewCatalogFilter(FilterConfig{EnableFuzzyMatching: true})

	testCases := []struct {
		name string
		opts FilterOptions
		want []string
	}{
		{"no filters", FilterOptions{}, []string{"1", "2", "3", "4"}},
		{"name substring", FilterOptions{Search: "mojito"}, []string{"3", "4"}},
		{"case insensitive", FilterOptions{Search: "  ESPRESSO "}, []string{"1"}},
		{"ingredient substring", FilterOptions{Search: "mint"}, []string{"3", "4"}},
		{"alcoholic only", FilterOptions{Alcohol: AlcoholAlcoholic}, []string{"1", "3"}},
		{"non-alcoholic only", FilterOptions{Alcohol: AlcoholNonAlcoholic}, []string{"2", "4"}},
		{"by type", FilterOptions{Type: "cocktail"}, []string{"1", "3"}},
		{"type all", FilterOptions{Type: "all"}, []string{"1", "2", "3", "4"}},
		{"combined", FilterOptions{Search: "mint", Alcohol: AlcoholNonAlcoholic}, []string{"4"}},
		{"fuzzy typo", FilterOptions{Search: "mojto"}, []string{"3", "4"}},
		{"fuzzy multi token", FilterOptions{Search: "strawbery yogurt"}, []string{"2"}},
		{"partial ingredient", FilterOptions{Search: "soda wat"}, []string{"4"}},
		{"no match", FilterOptions{Search: "tequila"}, []string{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := filteredIDs(f.Filter(sampleCatalog(), tc.opts))
			if !equalIDs(got, tc.want) {
				t.Errorf("Filter(%+v) = %v, want %v", tc.opts, got, tc.want)
			}
		})
	}
}

func TestCatalogFilter_FuzzyDisabled(t *testing.T) {
	f := NewCatalogFilter(FilterConfig{EnableFuzzyMatching: false})

	got := f.Filter(sampleCatalog(), FilterOptions{Search: "mojto"})
	if len(got) != 0 {
		t.Errorf("expected no fuzzy matches when disabled, got %v", filteredIDs(got))
	}
}

func TestCatalogFilter_Types(t *testing.T) {
	f := NewCatalogFilter(FilterConfig{})

	got := f.Types(sampleCatalog())
	want := []domain.DrinkType{domain.DrinkTypeCocktail, domain.DrinkTypeSmoothie, domain.DrinkTypeMocktail}
	if len(got) != len(want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestParseAlcoholFilter(t *testing.T) {
	testCases := []struct {
		in      string
		want    AlcoholFilter
		wantErr bool
	}{
		{"", AlcoholAll, false},
		{"all", AlcoholAll, false},
		{"Alcoholic", AlcoholAlcoholic, false},
		{"non-alcoholic", AlcoholNonAlcoholic, false},
		{"boozy", "", true},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAlcoholFilter(tc.in)
			if tc.wantErr {
				if !errors.Is(err, domain.ErrValidation) {
					t.Errorf("error = %v, want ErrValidation", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("ParseAlcoholFilter(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestTokenize(t *testing.T) {
	t.Run("converts to lowercase", func(t *testing.T) {
		tokens := tokenize("WHITE RUM")
		for _, token := range tokens {
			if token != "white" && token != "rum" {
				t.Errorf("unexpected token: %v", token)
			}
		}
	})

	t.Run("removes punctuation", func(t *testing.T) {
		tokens := tokenize("rum, white (aged)")
		for _, token := range tokens {
			if token == "," || token == "(" || token == ")" {
				t.Errorf("punctuation should be removed: %v", token)
			}
		}
	})

	t.Run("filters stop words", func(t *testing.T) {
		tokens := tokenize("gin and tonic with a lime")
		stopWords := map[string]bool{"with": true, "and": true, "a": true}
		for _, token := range tokens {
			if stopWords[token] {
				t.Errorf("stop word should be filtered: %v", token)
			}
		}
	})

	t.Run("returns empty slice for empty string", func(t *testing.T) {
		tokens := tokenize("")
		if len(tokens) != 0 {
			t.Errorf("expected empty slice, got %v", tokens)
		}
	})
}

func TestLevenshteinDistance(t *testing.T) {
	testCases := []struct {
		s1   string
		s2   string
		want int
	}{
		{"", "", 0},
		{"a", "", 1},
		{"", "a", 1},
		{"abc", "abc", 0},
		{"abc", "abd", 1},        // substitution
		{"abc", "abcd", 1},       // insertion
		{"abcd", "abc", 1},       // deletion
		{"kitten", "sitting", 3}, // classic example
		{"mint", "mnit", 2},      // transposition (2 edits)
		{"mojito", "mojto", 1},   // missing letter
		{"café", "cafe", 1},      // multibyte rune
	}

	for _, tc := range testCases {
		t.Run(tc.s1+"_"+tc.s2, func(t *testing.T) {
			got := levenshteinDistance(tc.s1, tc.s2)
			if got != tc.want {
				t.Errorf("levenshteinDistance(%q, %q) = %v, want %v", tc.s1, tc.s2, got, tc.want)
			}
		})
	}
}

func TestFuzzyTokenMatch(t *testing.T) {
	testCases := []struct {
		token1    string
		token2    string
		threshold int
		want      bool
	}{
		{"mint", "mint", 1, true},            // identical
		{"rum", "rim", 1, false},             // short token, fuzzy disabled
		{"mojito", "mojto", 1, true},         // edit distance 1
		{"mojito", "mohito", 1, true},        // edit distance 1
		{"mojito", "mohitto", 1, false},      // edit distance 2
		{"mojito", "mohitto", 2, true},       // within threshold 2
		{"lime", "lima", 1, true},            // 4 chars, edit distance 1
		{"strawberry", "strawbery", 1, true}, // missing letter
	}

	for _, tc := range testCases {
		t.Run(tc.token1+"_"+tc.token2, func(t *testing.T) {
			got := fuzzyTokenMatch(tc.token1, tc.token2, tc.threshold)
			if got != tc.want {
				t.Errorf("fuzzyTokenMatch(%q, %q, %d) = %v, want %v",
					tc.token1, tc.token2, tc.threshold, got, tc.want)
			}
		})
	}
}
