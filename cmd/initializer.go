package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"engmarket/internal/catalog"
	"engmarket/internal/config"
	"engmarket/internal/handlers"
	"engmarket/internal/media"
	"engmarket/internal/models"
	"engmarket/internal/repositories"
	"engmarket/internal/services"
	"engmarket/utils"
)

type application struct {
	errorLog *log.Logger
	infoLog  *log.Logger
	logger   *zap.Logger

	tokens         *utils.Manager
	sessionTTL     time.Duration
	signupLimiter  *RateLimiter
	wsManager      *WebSocketManager
	listingService *services.ListingService
	listingDefault models.ListingQuery

	serviceHandler  *handlers.ServiceHandler
	categoryHandler *handlers.CategoryHandler
	serviceFavorite *handlers.ServiceFavoriteHandler
	signupHandler   *handlers.SignupHandler
	siteHandler     *handlers.SiteHandler
}

// stores holds the per-session state backends. close releases whatever
// the backends own.
type stores struct {
	favorites repositories.FavoritesRepository
	drafts    repositories.SignupDraftRepository
	close     func()
}

func initializeApp(cfg config.Config, cat *catalog.Catalog, st stores, resolver media.Resolver, tokens *utils.Manager, logger *zap.Logger, errorLog, infoLog *log.Logger) *application {
	defaults := models.DefaultListingQuery()
	defaults.MinPrice = cfg.Listing.MinPrice
	defaults.MaxPrice = cfg.Listing.MaxPrice
	if key := models.SortKey(cfg.Listing.DefaultSort); key.Valid() {
		defaults.Sort = key
	}
	defaults.Limit = cfg.Listing.DefaultLimit

	// Services
	listingService := &services.ListingService{Catalog: cat, Favorites: st.favorites, Media: resolver, MaxLimit: cfg.Listing.MaxLimit}
	serviceService := &services.ServiceService{Catalog: cat, Favorites: st.favorites, Media: resolver}
	categoryService := &services.CategoryService{Catalog: cat}
	serviceFavoriteService := &services.ServiceFavoriteService{Catalog: cat, ServiceFavoriteRepo: st.favorites, Media: resolver}
	signupService := &services.SignupService{Drafts: st.drafts, Log: logger.Named("signup"), BcryptCost: cfg.Signup.BcryptCost}
	siteService := &services.SiteService{
		Catalog:     cat,
		Media:       resolver,
		Brand:       cfg.Site.Brand,
		Title:       cfg.Site.Title,
		Description: cfg.Site.Description,
		BaseURL:     cfg.Site.BaseURL,
	}

	// Handlers
	handlerLog := logger.Named("http")
	serviceHandler := &handlers.ServiceHandler{Listing: listingService, Service: serviceService, Defaults: defaults, Log: handlerLog}
	categoryHandler := &handlers.CategoryHandler{Service: categoryService}
	serviceFavoriteHandler := &handlers.ServiceFavoriteHandler{Service: serviceFavoriteService, Log: handlerLog}
	signupHandler := &handlers.SignupHandler{Service: signupService, Log: handlerLog}
	siteHandler := &handlers.SiteHandler{Service: siteService}

	return &application{
		errorLog:        errorLog,
		infoLog:         infoLog,
		logger:          logger,
		tokens:          tokens,
		sessionTTL:      cfg.Session.TTL,
		signupLimiter:   NewRateLimiter(cfg.Signup.RatePerMinute, cfg.Signup.Burst),
		wsManager:       NewWebSocketManager(logger.Named("ws")),
		listingService:  listingService,
		listingDefault:  defaults,
		serviceHandler:  serviceHandler,
		categoryHandler: categoryHandler,
		serviceFavorite: serviceFavoriteHandler,
		signupHandler:   signupHandler,
		siteHandler:     siteHandler,
	}
}

// sqlDriverName maps the configured driver to the name registered with
// database/sql.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case "mysql", "mariadb":
		return "mysql", nil
	case "pgx", "postgres", "postgresql":
		return "pgx", nil
	case "sqlite", "sqlite3":
		return "sqlite", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", driver)
}

func openDB(driver, dsn string) (*sql.DB, error) {
	name, err := sqlDriverName(driver)
	if err != nil {
		return nil, err
	}
	db, err := sql.Open(name, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", name, err)
	}
	db.SetMaxIdleConns(5)
	return db, nil
}

// loadCatalog builds the catalog from the configured source and reports
// dangling references. In strict mode any issue aborts start-up.
func loadCatalog(ctx context.Context, cfg config.Config, logger *zap.Logger) (*catalog.Catalog, error) {
	var src catalog.Source
	switch cfg.Catalog.Source {
	case config.CatalogEmbedded:
		src = catalog.EmbeddedSource{}
	case config.CatalogFile:
		src = catalog.FileSource{Path: cfg.Catalog.Path}
	case config.CatalogSQL:
		db, err := openDB(cfg.Database.Driver, cfg.Database.URL)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		driver, _ := sqlDriverName(cfg.Database.Driver)
		src = &repositories.CatalogRepository{DB: db, Driver: driver}
	default:
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownSourceKind, cfg.Catalog.Source)
	}

	cat, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	issues := cat.Validate()
	for _, issue := range issues {
		logger.Warn("catalog integrity", zap.String("kind", string(issue.Kind)), zap.String("service_id", issue.ServiceID), zap.String("ref", issue.Ref))
	}
	if cfg.Catalog.Strict && len(issues) > 0 {
		return nil, fmt.Errorf("%w: %d issue(s)", models.ErrCatalogIntegrity, len(issues))
	}

	logger.Info("catalog loaded",
		zap.String("source", cfg.Catalog.Source),
		zap.Int("services", len(cat.Services())),
		zap.Int("providers", len(cat.Providers())),
		zap.Int("categories", len(cat.Categories())),
	)
	return cat, nil
}

// openStores uses redis when an address is configured and the in-process
// stores otherwise.
func openStores(ctx context.Context, cfg config.Config, logger *zap.Logger) (stores, error) {
	if cfg.Redis.Addr == "" {
		favorites := repositories.NewMemoryFavoritesRepository(cfg.Session.TTL, time.Minute)
		drafts := repositories.NewMemorySignupDraftRepository(cfg.Signup.DraftTTL, time.Minute)
		logger.Info("using in-memory session stores")
		return stores{
			favorites: favorites,
			drafts:    drafts,
			close: func() {
				favorites.Close()
				drafts.Close()
			},
		}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return stores{}, fmt.Errorf("redis ping %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("using redis session stores", zap.String("addr", cfg.Redis.Addr))
	return stores{
		favorites: &repositories.RedisFavoritesRepository{RDB: rdb, TTL: cfg.Session.TTL},
		drafts:    &repositories.RedisSignupDraftRepository{RDB: rdb, TTL: cfg.Signup.DraftTTL},
		close:     func() { rdb.Close() },
	}, nil
}

func newResolver(cfg config.Config) (media.Resolver, error) {
	if cfg.Media.S3Bucket != "" {
		r, err := media.NewS3Resolver(media.S3Config{
			Bucket:    cfg.Media.S3Bucket,
			Endpoint:  cfg.Media.S3Endpoint,
			Region:    cfg.Media.S3Region,
			AccessKey: cfg.Media.AccessKey,
			SecretKey: cfg.Media.SecretKey,
			Expiry:    cfg.Media.URLExpiry,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	if cfg.Media.BaseURL != "" {
		return media.PublicResolver{BaseURL: cfg.Media.BaseURL}, nil
	}
	return nil, nil
}

func addSecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cross-Origin-Opener-Policy", "same-origin")
		w.Header().Set("Cross-Origin-Resource-Policy", "same-origin")
		next.ServeHTTP(w, r)
	})
}
