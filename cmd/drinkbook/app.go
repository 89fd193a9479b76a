package main

import (
	"context"

	"github.com/drinkbook/client/config"
	httpDelivery "github.com/drinkbook/client/internal/delivery/http"
	"github.com/drinkbook/client/internal/domain"
	"github.com/drinkbook/client/internal/events"
	"github.com/drinkbook/client/internal/infrastructure/cache"
	"github.com/drinkbook/client/internal/infrastructure/drinkapi"
	"github.com/drinkbook/client/internal/usecase"
	"go.uber.org/zap"
)

// app is the wired catalog: one remote client, one store and the
// components built on top of it
type app struct {
	log        *zap.Logger
	errors     *usecase.ErrorChannel
	store      *usecase.DrinkStore
	imageCache *cache.MemoryCache
	images     *usecase.ImageSearchCache
	sessions   *usecase.SearchSessions
	lookup     *usecase.RecipeLookup
	filter     *usecase.CatalogFilter
}

type storeFactory func(domain.DrinkService, *usecase.ErrorChannel, *events.Broker, usecase.DrinkStoreConfig, *zap.Logger) *usecase.DrinkStore

// newApp wires every component around an empty store. Commands load it
// themselves.
func newApp(c *config.Config, log *zap.Logger) *app {
	return buildApp(c, log, usecase.NewDrinkStore)
}

// openApp wires every component and starts the initial catalog load in the
// background
func openApp(ctx context.Context, c *config.Config, log *zap.Logger) *app {
	return buildApp(c, log, func(remote domain.DrinkService, errs *usecase.ErrorChannel, broker *events.Broker, sc usecase.DrinkStoreConfig, l *zap.Logger) *usecase.DrinkStore {
		return usecase.OpenDrinkStore(ctx, remote, errs, broker, sc, l)
	})
}

func buildApp(c *config.Config, log *zap.Logger, newStore storeFactory) *app {
	client := drinkapi.NewClient(c.Remote.BaseURL, log,
		drinkapi.WithTimeout(c.Remote.Timeout),
		drinkapi.WithRateLimit(c.Remote.RequestsPerSecond, c.Remote.Burst),
		drinkapi.WithMaxRetries(c.Remote.MaxRetries),
	)

	// Enable debug mode in development environment
	if c.IsDevelopment() {
		client.SetDebug(true)
	}

	broker := events.NewBroker()
	errs := usecase.NewErrorChannel(broker, log)

	store := newStore(client, errs, broker, usecase.DrinkStoreConfig{Locale: c.Search.Locale}, log)

	imageCache := cache.NewMemoryCache()
	images := usecase.NewImageSearchCache(client, imageCache, c.Search.PageSize, log)

	return &app{
		log:        log,
		errors:     errs,
		store:      store,
		imageCache: imageCache,
		images:     images,
		sessions: usecase.NewSearchSessions(images, usecase.SearchSessionConfig{
			Debounce: c.Search.Debounce,
			MaxPage:  c.Search.MaxPage,
		}, log),
		lookup: usecase.NewRecipeLookup(store, usecase.RecipeLookupConfig{Timeout: c.Lookup.Timeout}, log),
		filter: usecase.NewCatalogFilter(usecase.FilterConfig{
			EnableFuzzyMatching: c.Filter.FuzzyMatching,
			FuzzyEditDistance:   c.Filter.FuzzyEditDistance,
		}),
	}
}

// handler exposes the app over HTTP
func (a *app) handler() *httpDelivery.Handler {
	return httpDelivery.NewHandler(httpDelivery.Services{
		Store:      a.store,
		Lookup:     a.lookup,
		Errors:     a.errors,
		Sessions:   a.sessions,
		Filter:     a.filter,
		ImageCache: a.imageCache,
	}, Version, a.log)
}

func (a *app) close() {
	a.sessions.CloseAll()
}
