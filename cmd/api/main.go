package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/application/dto"
	"github.com/jhoicas/tours-api/internal/application/usecase"
	"github.com/jhoicas/tours-api/internal/domain/repository"
	"github.com/jhoicas/tours-api/internal/infrastructure/email"
	"github.com/jhoicas/tours-api/internal/infrastructure/memory"
	"github.com/jhoicas/tours-api/internal/infrastructure/metrics"
	"github.com/jhoicas/tours-api/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/tours-api/internal/infrastructure/redis"
	httpRouter "github.com/jhoicas/tours-api/internal/interfaces/http"
	"github.com/jhoicas/tours-api/pkg/config"
	"github.com/jhoicas/tours-api/pkg/jwt"
	"github.com/jhoicas/tours-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("storage", cfg.App.Storage).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var (
		userRepo repository.UserRepository
		tourRepo repository.TourRepository
	)
	switch cfg.App.Storage {
	case "memory":
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
		userRepo = memory.NewUserRepository()
		tourRepo = memory.NewTourRepository()
	default:
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		if cfg.DB.AutoMigrate {
			if err := postgres.Migrate(ctx, pool); err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Msg("migraciones aplicadas")
		}
		userRepo = postgres.NewUserRepository(pool)
		tourRepo = postgres.NewTourRepository(pool)
	}

	var limiter auth.LoginLimiter = auth.NoopLimiter{}
	if cfg.Redis.Addr != "" {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		limiter = infraredis.NewLoginLimiter(rdb, cfg.Auth.MaxSigninAttempts, cfg.Auth.SigninLockout)
	} else {
		log.Warn().Msg("REDIS_ADDR vacío: sin límite de intentos de login")
	}

	var mailer auth.EmailSender
	if cfg.SMTP.Host != "" {
		mailer = email.NewSMTPSender(cfg.SMTP)
	} else {
		log.Warn().Msg("SMTP_HOST vacío: los emails solo se registran en el log")
		mailer = email.NewLogSender(log)
	}

	codec, err := jwt.NewCodec(cfg.JWT.Secret, cfg.JWT.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("codec JWT")
	}
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hasher de contraseñas")
	}
	validator := dto.NewValidator()

	authUC := auth.NewAuthUseCase(auth.Deps{
		Users:     userRepo,
		Hasher:    hasher,
		Codec:     codec,
		Resets:    auth.NewResetTokenGenerator(cfg.Auth.ResetWindow, nil),
		Mailer:    mailer,
		Limiter:   limiter,
		Validator: validator,
		Log:       log,
	}, auth.Config{
		TokenTTL:     cfg.JWT.Expiration,
		EmailTimeout: cfg.Auth.EmailTimeout,
	})
	userUC := usecase.NewUserUseCase(userRepo)
	tourUC := usecase.NewTourUseCase(tourRepo, validator)

	m := metrics.New(prometheus.DefaultRegisterer)
	errs := httpRouter.NewErrorWriter(log, cfg.App.IsProduction())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    16 * 1024,
		ErrorHandler: errs.Handler(),
	})
	app.Use(recover.New())
	app.Use(httpRouter.RequestLogger(log))
	app.Use(m.Middleware())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Tours API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	guard := httpRouter.NewSessionGuard(auth.NewSessionAuthenticator(userRepo, codec), cfg.JWT.CookieName, errs, m)
	httpRouter.Router(app, httpRouter.RouterDeps{
		Auth: httpRouter.NewAuthHandler(authUC, httpRouter.CookieConfig{
			Name:   cfg.JWT.CookieName,
			TTL:    cfg.JWT.CookieTTL,
			Secure: cfg.App.IsProduction(),
		}, cfg.App.PublicURL, m),
		Users:     httpRouter.NewUserHandler(userUC),
		Tours:     httpRouter.NewTourHandler(tourUC),
		Guard:     guard,
		AuthLimit: httpRouter.NewIPRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
