package usecase

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/drinkbook/client/internal/domain"
)

// Package-level compiled regex pattern for performance
var punctuationRegex = regexp.MustCompile(`[^\w\s]`)

// filterStopWords are dropped from search queries and recipe text before
// fuzzy matching
var filterStopWords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true,
	"of": true, "in": true, "on": true, "with": true, "de": true,
	"la": true, "le": true, "el": true,
}

// AlcoholFilter restricts a catalog listing by alcohol content
type AlcoholFilter string

const (
	AlcoholAll          AlcoholFilter = "all"
	AlcoholAlcoholic    AlcoholFilter = "alcoholic"
	AlcoholNonAlcoholic AlcoholFilter = "non-alcoholic"
)

// ParseAlcoholFilter parses the alcohol filter from user input. Empty input
// means AlcoholAll.
func ParseAlcoholFilter(s string) (AlcoholFilter, error) {
	switch f := AlcoholFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return AlcoholAll, nil
	case AlcoholAll, AlcoholAlcoholic, AlcoholNonAlcoholic:
		return f, nil
	default:
		return "", fmt.Errorf("%w: unknown alcohol filter %q", domain.ErrValidation, s)
	}
}

// FilterOptions selects which drinks a listing shows
type FilterOptions struct {
	// Search matches drink names and ingredient names
	Search  string
	Alcohol AlcoholFilter
	// Type is a drink type, or "" / "all" for every type
	Type string
}

// FilterConfig holds configuration for the catalog filter
type FilterConfig struct {
	EnableFuzzyMatching bool
	FuzzyEditDistance   int
}

// CatalogFilter narrows a recipe collection for display
type CatalogFilter struct {
	enableFuzzyMatching bool
	fuzzyEditDistance   int
}

// NewCatalogFilter creates a new catalog filter with the given configuration
func NewCatalogFilter(config FilterConfig) *CatalogFilter {
	fuzzyDist := config.FuzzyEditDistance
	if fuzzyDist <= 0 {
		fuzzyDist = 1 // Default edit distance of 1
	}

	return &CatalogFilter{
		enableFuzzyMatching: config.EnableFuzzyMatching,
		fuzzyEditDistance:   fuzzyDist,
	}
}

// Filter returns the drinks matching opts, preserving their order
func (f *CatalogFilter) Filter(drinks []domain.Recipe, opts FilterOptions) []domain.Recipe {
	query := strings.ToLower(strings.TrimSpace(opts.Search))
	queryTokens := tokenize(query)

	out := make([]domain.Recipe, 0, len(drinks))
	for _, d := range drinks {
		if !matchesAlcohol(d, opts.Alcohol) || !matchesType(d, opts.Type) {
			continue
		}
		if query != "" && !f.matchesSearch(d, query, queryTokens) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// Types returns the distinct drink types in the order they first appear
func (f *CatalogFilter) Types(drinks []domain.Recipe) []domain.DrinkType {
	seen := make(map[domain.DrinkType]bool)
	var types []domain.DrinkType
	for _, d := range drinks {
		if d.Type == "" || seen[d.Type] {
			continue
		}
		seen[d.Type] = true
		types = append(types, d.Type)
	}
	return types
}

func matchesAlcohol(d domain.Recipe, filter AlcoholFilter) bool {
	switch filter {
	case AlcoholAlcoholic:
		return d.AlcoholContent
	case AlcoholNonAlcoholic:
		return !d.AlcoholContent
	default:
		return true
	}
}

func matchesType(d domain.Recipe, drinkType string) bool {
	drinkType = strings.TrimSpace(drinkType)
	if drinkType == "" || strings.EqualFold(drinkType, string(AlcoholAll)) {
		return true
	}
	return strings.EqualFold(drinkType, string(d.Type))
}

// matchesSearch checks the name and ingredient names for the query as a
// substring, then falls back to per-token fuzzy matching
func (f *CatalogFilter) matchesSearch(d domain.Recipe, query string, queryTokens []string) bool {
	if strings.Contains(strings.ToLower(d.Name), query) {
		return true
	}
	for _, ing := range d.Ingredients {
		if strings.Contains(strings.ToLower(ing.Name), query) {
			return true
		}
	}

	if !f.enableFuzzyMatching || len(queryTokens) == 0 {
		return false
	}

	recipeTokens := tokenize(d.Name)
	for _, ing := range d.Ingredients {
		recipeTokens = append(recipeTokens, tokenize(ing.Name)...)
	}

	// Every query token must hit some recipe token.
	for _, qt := range queryTokens {
		hit := false
		for _, rt := range recipeTokens {
			if qt == rt || strings.HasPrefix(rt, qt) || fuzzyTokenMatch(qt, rt, f.fuzzyEditDistance) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

// tokenize splits a string into normalized lowercase tokens.
// Removes punctuation, stop words and single characters.
func tokenize(s string) []string {
	// Remove punctuation and convert to lowercase
	cleaned := punctuationRegex.ReplaceAllString(strings.ToLower(s), " ")

	var tokens []string
	for _, word := range strings.Fields(cleaned) {
		if len([]rune(word)) <= 1 || filterStopWords[word] {
			continue
		}
		tokens = append(tokens, word)
	}
	return tokens
}

// fuzzyTokenMatch checks if two tokens are similar within the edit distance threshold
func fuzzyTokenMatch(token1, token2 string, threshold int) bool {
	if token1 == token2 {
		return true
	}

	r1, r2 := []rune(token1), []rune(token2)

	// Only apply fuzzy matching to tokens of 4+ chars to avoid false positives
	if len(r1) < 4 || len(r2) < 4 {
		return false
	}

	// Quick length check - if lengths differ by more than threshold, can't match
	lenDiff := len(r1) - len(r2)
	if lenDiff < 0 {
		lenDiff = -lenDiff
	}
	if lenDiff > threshold {
		return false
	}

	return levenshteinDistance(token1, token2) <= threshold
}

// levenshteinDistance calculates the edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	r1 := []rune(s1)
	r2 := []rune(s2)
	m := len(r1)
	n := len(r2)

	if m == 0 {
		return n
	}
	if n == 0 {
		return m
	}

	// Two rows instead of a full matrix
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
