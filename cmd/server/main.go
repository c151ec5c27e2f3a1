package main

import (
	"fmt"
	"log"
	"os"

	"github.com/medifarma/backend/config"
	httpDelivery "github.com/medifarma/backend/internal/delivery/http"
	"github.com/medifarma/backend/internal/infrastructure/basestore"
	"github.com/medifarma/backend/internal/infrastructure/cache"
	"github.com/medifarma/backend/internal/infrastructure/pharmacy"
	"github.com/medifarma/backend/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting medifarma backend")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Base dataset: %s", cfg.Base.Path)
	log.Printf("Cache TTL: %s, adapter timeout: %s, concurrency: %d",
		cfg.Cache.TTL, cfg.Scrape.AdapterTimeout, cfg.Scrape.Concurrency)

	db, err := basestore.Open(cfg.Base.Path)
	if err != nil {
		log.Fatalf("Failed to open base dataset: %v", err)
	}
	defer db.Close()

	store, err := basestore.NewStore(db)
	if err != nil {
		log.Fatalf("Failed to initialize base store: %v", err)
	}

	resultCache := cache.NewResultCache(cfg.Cache.TTL)
	// Any admin mutation of the dataset drops every cached result set.
	store.OnChange(resultCache.InvalidateAll)

	client := pharmacy.NewClient(cfg.Scrape.PerHostRate)
	webAdapters := pharmacy.Adapters(client)
	log.Printf("Registered %d pharmacy sources", len(webAdapters))

	searchService := usecase.NewSearchService(
		basestore.NewAdapter(store),
		webAdapters,
		resultCache,
		usecase.SearchConfig{
			AdapterTimeout: cfg.Scrape.AdapterTimeout,
			Concurrency:    cfg.Scrape.Concurrency,
		},
	)
	viewService := usecase.NewViewService()

	pharmacies := make([]httpDelivery.PharmacyInfo, 0, len(pharmacy.KnownSites))
	for _, site := range pharmacy.KnownSites {
		pharmacies = append(pharmacies, httpDelivery.PharmacyInfo{
			Name:    site.Name,
			BaseURL: site.BaseURL,
		})
	}

	handler := httpDelivery.NewHandler(searchService, viewService, store, pharmacies)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
