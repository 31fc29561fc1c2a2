// @title        Farm Directory API
// @version      1.0
// @description  Public directory of local farms with moderated submissions.
// @BasePath     /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/jhoicas/farm-directory-api/docs"
	"github.com/jhoicas/farm-directory-api/internal/application/auth"
	"github.com/jhoicas/farm-directory-api/internal/application/usecase"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/kml"
	infrapdf "github.com/jhoicas/farm-directory-api/internal/infrastructure/pdf"
	"github.com/jhoicas/farm-directory-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/farm-directory-api/internal/interfaces/http"
	"github.com/jhoicas/farm-directory-api/pkg/config"
	"github.com/jhoicas/farm-directory-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("starting")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()
	store, err := storage.Open(ctx, cfg.DB, log.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer store.Close()

	authUC := auth.NewAuthUseCase(store.Users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, cfg.Auth.BcryptCost)

	if cfg.Seed.AdminPassword != "" {
		created, err := authUC.EnsureAdmin(ctx, auth.SeedAccount{
			Email:    cfg.Seed.AdminEmail,
			Password: cfg.Seed.AdminPassword,
			Name:     cfg.Seed.AdminName,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("seed admin")
		}
		if created {
			log.Info().Str("email", cfg.Seed.AdminEmail).Msg("bootstrap admin created")
		}
	}

	farmUC := usecase.NewFarmUseCase(store.Farms, kml.NewExporter(cfg.App.Name), usecase.FarmOptions{
		ApprovedOnly: cfg.Directory.ApprovedOnly,
		Locale:       cfg.Directory.Locale,
	})
	adminUC := usecase.NewAdminUseCase(store.Users, store.Farms, infrapdf.NewDirectoryReportGenerator("Farm directory"))

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(httpRouter.RequestLogger(log.Zerolog()))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.ReplaceAll(cfg.HTTP.CORSOrigins, " ", ""),
		AllowCredentials: true,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
	}))

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Farm Directory API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:  authUC,
		FarmUC:  farmUC,
		AdminUC: adminUC,
		Cookie: httpRouter.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		},
		AuthLimit: httpRouter.RateLimit{Max: cfg.RateLimit.AuthMax, Window: cfg.RateLimit.Window},
		APILimit:  httpRouter.RateLimit{Max: cfg.RateLimit.APIMax, Window: cfg.RateLimit.Window},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("stopped")
}
