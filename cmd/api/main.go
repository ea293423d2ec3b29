package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/catalogo-api/internal/application/usecase"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/localfs"
	"github.com/jhoicas/catalogo-api/internal/infrastructure/mongodb"
	httpRouter "github.com/jhoicas/catalogo-api/internal/interfaces/http"
	"github.com/jhoicas/catalogo-api/pkg/config"
	"github.com/jhoicas/catalogo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	client, db, err := mongodb.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a MongoDB")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	store, err := localfs.New(cfg.Storage.UploadDir)
	if err != nil {
		log.Fatal().Err(err).Msg("almacén de imágenes")
	}

	productRepo := mongodb.NewProductRepository(db)
	productUC := usecase.NewProductUseCase(productRepo, store)

	// Barrido de staging: al arrancar y luego en un ticker. Elimina subidas
	// cuya creación de registro nunca llegó a confirmarse.
	stagingMaxAge := time.Duration(cfg.Storage.StagingMaxAgeMin) * time.Minute
	if n, err := store.ReconcileOrphans(stagingMaxAge); err != nil {
		log.Warn().Err(err).Msg("reconciliación inicial de staging")
	} else if n > 0 {
		log.Info().Int("removed", n).Msg("staging huérfano eliminado")
	}
	reconcileDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(time.Duration(cfg.Storage.ReconcileMin) * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := store.ReconcileOrphans(stagingMaxAge)
				if err != nil {
					log.Warn().Err(err).Msg("reconciliación de staging")
					continue
				}
				if n > 0 {
					log.Info().Int("removed", n).Msg("staging huérfano eliminado")
				}
			case <-reconcileDone:
				return
			}
		}
	}()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    32 * 1024 * 1024, // imágenes subidas por multipart
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Catálogo API",
	}))

	// Las imágenes confirmadas se sirven tal cual (miniaturas del cliente)
	app.Static("/uploads", store.Dir())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")
	close(reconcileDone)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
