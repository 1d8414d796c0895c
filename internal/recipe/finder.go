package recipe

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"whattocook/internal/platform/spoonacular"
)

// Searcher defines the interface for the recipe search API.
type Searcher interface {
	FindByIngredients(ctx context.Context, apiKey string, q spoonacular.Query) ([]spoonacular.Match, error)
}

// KeyFunc returns the current API key, or "" when none is configured.
type KeyFunc func() string

// SearchOptions are the fixed parameters sent with every search.
type SearchOptions struct {
	Number       int
	Ranking      int
	IgnorePantry bool
}

// DefaultSearchOptions returns the options the finder uses when none are given.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{Number: 10, Ranking: 1, IgnorePantry: true}
}

// Finder looks up recipes for a canonical ingredient list.
type Finder struct {
	searcher Searcher
	apiKey   KeyFunc
	opts     SearchOptions
}

// NewFinder creates a new Finder.
func NewFinder(searcher Searcher, apiKey KeyFunc, opts SearchOptions) *Finder {
	return &Finder{searcher: searcher, apiKey: apiKey, opts: opts}
}

// Find validates ingredients, calls the search API once and returns the
// transformed recipes. Every failure is returned as *Error; no partial
// results are returned alongside an error.
func (f *Finder) Find(ctx context.Context, ingredients string) (recipes []Recipe, err error) {
	defer func() {
		if r := recover(); r != nil {
			recipes = nil
			err = Internal(fmt.Errorf("panic during recipe lookup: %v", r))
		}
	}()

	if strings.TrimSpace(ingredients) == "" {
		return nil, newError(KindClient, nil)
	}

	var key string
	if f.apiKey != nil {
		key = f.apiKey()
	}
	if key == "" {
		return nil, newError(KindConfiguration, errors.New("spoonacular api key is not set"))
	}

	matches, err := f.searcher.FindByIngredients(ctx, key, spoonacular.Query{
		Ingredients:  ingredients,
		Number:       f.opts.Number,
		Ranking:      f.opts.Ranking,
		IgnorePantry: f.opts.IgnorePantry,
	})
	if err != nil {
		return nil, classify(err)
	}

	return Transform(matches), nil
}

// classify maps a search error onto the lookup error taxonomy.
func classify(err error) *Error {
	var statusErr *spoonacular.StatusError
	if !errors.As(err, &statusErr) {
		return Internal(err)
	}

	switch statusErr.StatusCode {
	case http.StatusUnauthorized:
		return newError(KindAuth, err)
	case http.StatusPaymentRequired:
		return newError(KindQuota, err)
	default:
		return newError(KindUpstream, err)
	}
}
