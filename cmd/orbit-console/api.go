// Package main provides the Orbit console API server implementation.
package main

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/orbithq/orbit/pkg/eventbus"
	"github.com/orbithq/orbit/pkg/executor"
	"github.com/orbithq/orbit/pkg/ingest"
	"github.com/orbithq/orbit/pkg/persistence"
	"github.com/orbithq/orbit/pkg/service"
	"github.com/orbithq/orbit/pkg/store"
	"github.com/orbithq/orbit/pkg/web"
)

const shutdownTimeout = 10 * time.Second

type Console struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	eventBus    eventbus.EventBus
	store       *store.Store
	service     *service.Service
	ingestor    *ingest.Ingestor
	hydrator    *ingest.Hydrator
	validate    *validator.Validate
}

func NewConsole(
	logger *slog.Logger,
	persist persistence.Persistence,
	eventBus eventbus.EventBus,
	backendURL string,
	serviceOpts ...service.Option,
) *Console {
	st := store.New(persist, eventBus, logger)

	executorClient := executor.NewClient(backendURL, logger)
	svc := service.New(st, executorClient, persist, logger, serviceOpts...)

	people := ingest.NewPeopleClient(backendURL, logger)
	hydrator := ingest.NewHydrator(st, persist, people, logger)

	ingestor, err := ingest.NewIngestor(st, backendURL, ingest.DefaultPollInterval, logger)
	if err != nil {
		panic(err)
	}

	return &Console{
		logger:      logger,
		persistence: persist,
		eventBus:    eventBus,
		store:       st,
		service:     svc,
		ingestor:    ingestor,
		hydrator:    hydrator,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Hydrate seeds the store from the people cache and the persisted snapshot.
func (c *Console) Hydrate(ctx context.Context) {
	c.hydrator.Hydrate(ctx)
}

// StartIngestor begins polling the backend for materialized workflows.
func (c *Console) StartIngestor(ctx context.Context) {
	go c.ingestor.Run(ctx)
}

func (c *Console) App() *fiber.App {
	handlers := web.NewAPIHandlers(c.service, c.persistence, c.validate)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Orbit Console API")
	})

	w := app.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/generate", handlers.GenerateWorkflow)
	w.Delete("/", handlers.ClearAllData)
	w.Get("/:id", handlers.GetWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/activate", handlers.ActivateWorkflow)
	w.Post("/:id/complete", handlers.CompleteWorkflow)
	w.Post("/:id/duplicate", handlers.DuplicateWorkflow)

	w.Get("/:id/tasks", handlers.GetTasks)
	w.Get("/:id/tasks/next", handlers.GetNextTask)
	w.Post("/:id/tasks", handlers.AddTask)
	w.Delete("/:id/tasks/:taskId", handlers.RemoveTask)
	w.Patch("/:id/tasks/:taskId/status", handlers.UpdateTaskStatus)
	w.Patch("/:id/tasks/:taskId/config", handlers.UpdateTaskConfig)
	w.Patch("/:id/tasks/:taskId/position", handlers.UpdateTaskPosition)
	w.Post("/:id/tasks/:taskId/execute", handlers.ExecuteTask)

	w.Get("/:id/notes", handlers.GetNotes)
	w.Post("/:id/notes", handlers.AddNote)
	w.Patch("/:id/notes/:noteId", handlers.UpdateNote)
	w.Delete("/:id/notes/:noteId", handlers.DeleteNote)

	app.Get("/health", handlers.HealthCheck)

	return app
}

// Start serves the API until the context is canceled, then shuts the server
// down gracefully, letting in-flight requests finish.
func (c *Console) Start(ctx context.Context, port int) error {
	app := c.App()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			c.logger.Error("Failed to shut down console API", "error", err)
		}
	}()

	return app.Listen(":" + strconv.Itoa(port))
}
