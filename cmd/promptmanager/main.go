package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/favicon"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/ManuelReschke/PromptManager/app/controllers"
	apiv1 "github.com/ManuelReschke/PromptManager/internal/api/v1"
	"github.com/ManuelReschke/PromptManager/internal/pkg/billing"
	"github.com/ManuelReschke/PromptManager/internal/pkg/cache"
	"github.com/ManuelReschke/PromptManager/internal/pkg/config"
	"github.com/ManuelReschke/PromptManager/internal/pkg/constants"
	"github.com/ManuelReschke/PromptManager/internal/pkg/customer"
	"github.com/ManuelReschke/PromptManager/internal/pkg/database"
	"github.com/ManuelReschke/PromptManager/internal/pkg/env"
	"github.com/ManuelReschke/PromptManager/internal/pkg/logger"
	"github.com/ManuelReschke/PromptManager/internal/pkg/membership"
	"github.com/ManuelReschke/PromptManager/internal/pkg/oauth"
	"github.com/ManuelReschke/PromptManager/internal/pkg/router"
	"github.com/ManuelReschke/PromptManager/internal/pkg/session"
	"github.com/ManuelReschke/PromptManager/views"
)

func main() {
	app, cfg, zl := NewApplication()
	defer func() { _ = zl.Sync() }()

	err := app.Listen(fmt.Sprintf("%s:%s", cfg.Host, cfg.Port))
	log.Fatal(err)
}

func NewApplication() (*fiber.App, *config.Config, *zap.Logger) {
	env.SetupEnvFile()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	zl := logger.New(cfg.Log)

	db := database.SetupDatabase(cfg.Database, zl)
	redisClient := cache.SetupCache(cfg.Cache, zl)
	secure := !cfg.IsDev

	// services
	customers := customer.NewServiceFromDB(db, zl)
	resolver := membership.NewResolver(customers, cache.NewRedisStore(redisClient), zl)
	billingSvc := billing.NewServiceFromDB(db, customers, resolver, cfg.Stripe.WebhookSecret, zl)
	if cfg.Stripe.WebhookSecret == "" {
		zl.Warn("STRIPE_WEBHOOK_SECRET is empty, stripe webhooks will be rejected")
	}

	// sessions and oauth providers
	sessions := session.NewSessionStore(cfg.Cache, secure)
	providers := oauth.Setup(cfg, session.NewOAuthSessionStore(cfg.Cache, oauth.StateCookieName, secure))
	signInPath := ""
	if len(providers) > 0 {
		signInPath = constants.AuthRoute + "/" + providers[0]
	} else {
		zl.Warn("no oauth provider configured, sign-in is unavailable")
	}

	// Define possible base paths
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/promptmanager to project root
		"../../../", // Fallback
	}

	// Find the correct base path
	basePath := ""
	for _, path := range basePaths {
		if _, err := os.Stat(path + "public"); !os.IsNotExist(err) {
			basePath = path
			break
		}
	}

	if basePath == "" {
		panic("Could not find project root directory")
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		Views:     views.NewEngine(),
		BodyLimit: 1 << 20,
	})

	// ignore and cache favicon
	app.Use(favicon.New(favicon.Config{
		File:         basePath + "public/assets/icons/favicon.ico",
		URL:          "/favicon.ico",
		CacheControl: "public, max-age=604800",
	}))

	// recovery and logging
	app.Use(recover.New(), fiberlogger.New())

	// fiber metrics
	if cfg.Metrics.Password != "" {
		app.Get(constants.MetricsRoute, basicauth.New(basicauth.Config{
			Users: map[string]string{
				cfg.Metrics.User: cfg.Metrics.Password,
			},
		}), monitor.New())
	}

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	openAPICfg := swagger.Config{
		BasePath: constants.DocsRoute + "/",
		FilePath: basePath + "public/docs/v1/openapi.yml",
		Path:     "v1",
	}
	app.Use(swagger.New(openAPICfg))

	// ROUTER
	router.InstallRouter(app, router.Dependencies{
		Sessions:     sessions,
		SecureCookie: secure,
		Pages:        controllers.NewPageController(resolver, cfg.CheckoutBaseURL, signInPath, zl),
		Auth:         controllers.NewAuthController(customers, sessions, nil, zl),
		Webhooks:     controllers.NewWebhookController(billingSvc),
		API:          apiv1.NewAPIServer(resolver),
	})

	zl.Info("application initialised",
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("oauth_providers", providers),
		zap.Bool("checkout_enabled", cfg.CheckoutBaseURL != ""),
	)
	return app, cfg, zl
}
