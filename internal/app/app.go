package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/storefront/storefront-service/config"
	"github.com/storefront/storefront-service/internal/controller"
	"github.com/storefront/storefront-service/internal/event"
	"github.com/storefront/storefront-service/internal/infrastructure/message-queue/kafka"
	"github.com/storefront/storefront-service/internal/infrastructure/tracing"
	appmiddleware "github.com/storefront/storefront-service/internal/middleware"
	"github.com/storefront/storefront-service/internal/repository"
	"github.com/storefront/storefront-service/internal/service"
	"github.com/storefront/storefront-service/pkg/response"
	"github.com/storefront/storefront-service/pkg/storage"
	"go.mongodb.org/mongo-driver/mongo"
	oteltrace "go.opentelemetry.io/otel/trace"
)

type App struct {
	DB     *mongo.Database
	Config *config.Config
	Server *echo.Echo
}

func spanMiddleware(tracer oteltrace.Tracer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, span := tracer.Start(c.Request().Context(), fmt.Sprintf("[%s] %s", c.Request().Method, c.Path()))
			defer span.End()

			req := c.Request()
			c.SetRequest(req.WithContext(ctx))

			return next(c)
		}
	}
}

func (app *App) Start() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = logger

	e := echo.New()
	e.Validator = NewValidator()

	response.Debug = app.Config.Environment != "production"

	traceProvider, err := tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize tracing, spans disabled")
	} else {
		defer func() {
			if err := traceProvider.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown tracing")
			}
		}()

		e.Use(spanMiddleware(traceProvider.Tracer("storefront-service")))
	}

	// Empty prefix so metrics aggregate cleanly across services.
	e.Use(echoprometheus.NewMiddleware(""))

	go func() {
		metrics := echo.New()
		metrics.GET("/metrics", echoprometheus.NewHandler())
		if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start metrics server")
		}
	}()

	g := e.Group("/api")
	g.Use(appmiddleware.Logger)

	isLoggedIn := middleware.JWTWithConfig(middleware.JWTConfig{
		SigningKey: []byte(app.Config.JWTSecret),
		ErrorHandlerWithContext: func(err error, c echo.Context) error {
			errorResponse := map[string]interface{}{
				"status":  "error",
				"message": "Invalid or expired JWT",
				"errors":  nil,
			}
			return c.JSON(http.StatusUnauthorized, errorResponse)
		},
	})
	isAdmin := echo.MiddlewareFunc(appmiddleware.AdminOnly)

	kafkaProducer := kafka.CreateKafkaProducer(app.Config)
	eventProducer := event.CreateKafkaProducer(kafkaProducer)
	uploads := storage.NewLocalDisk(app.Config.UploadsDir)

	productRepo := repository.CreateNewMongoDBProductRepository(app.DB)
	userRepo := repository.CreateNewMongoDBUserRepository(app.DB)

	productSvc := service.CreateProductService(productRepo, *app.Config, eventProducer, uploads)
	userSvc := service.CreateUserService(userRepo, *app.Config, eventProducer)

	controller.CreateProductController(g, productSvc, isLoggedIn, isAdmin)
	controller.CreateUserController(g, userSvc, isLoggedIn, isAdmin)

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	app.Server = e

	e.Logger.Fatal(e.Start(fmt.Sprintf(":%s", app.Config.ServicePort)))
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return app.Server.Shutdown(ctx)
}
