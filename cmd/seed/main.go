// seed crea el usuario administrador inicial y tours de ejemplo en PostgreSQL.
//
// Uso: go run ./cmd/seed --admin-email admin@natours.io --admin-password 'secreto123'
// Los flags también se leen de SEED_ADMIN_EMAIL, SEED_ADMIN_PASSWORD, SEED_ADMIN_NAME y SEED_TOURS.
package main

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/jhoicas/tours-api/internal/application/auth"
	"github.com/jhoicas/tours-api/internal/domain"
	"github.com/jhoicas/tours-api/internal/domain/entity"
	"github.com/jhoicas/tours-api/internal/domain/repository"
	"github.com/jhoicas/tours-api/internal/infrastructure/postgres"
	"github.com/jhoicas/tours-api/pkg/config"
	"github.com/jhoicas/tours-api/pkg/logger"
)

type sampleTour struct {
	name       string
	days, size int
	difficulty string
	price      string
	summary    string
}

var sampleTours = []sampleTour{
	{"The Forest Hiker", 5, 25, entity.DifficultyEasy, "397", "Breathtaking hike through the Canadian Banff National Park"},
	{"The Sea Explorer", 7, 15, entity.DifficultyMedium, "497", "Exploring the jaw-dropping US east coast by foot and by boat"},
	{"The Snow Adventurer", 4, 10, entity.DifficultyDifficult, "997", "Exciting adventure in the snow with snowboarding and skiing"},
	{"The City Wanderer", 9, 20, entity.DifficultyEasy, "1197", "Living the life of Wanderlust in the US' most beatiful cities"},
}

func main() {
	flags := pflag.NewFlagSet("seed", pflag.ExitOnError)
	flags.String("admin-email", "", "email del administrador")
	flags.String("admin-password", "", "contraseña del administrador")
	flags.String("admin-name", "Admin", "nombre del administrador")
	flags.Bool("tours", true, "insertar tours de ejemplo")
	_ = flags.Parse(os.Args[1:])

	v := viper.New()
	v.SetEnvPrefix("SEED")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindPFlags(flags)

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}

	users := postgres.NewUserRepository(pool)
	hasher, err := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hasher de contraseñas")
	}
	admin, err := seedAdmin(ctx, users, hasher, v.GetString("admin-email"), v.GetString("admin-password"), v.GetString("admin-name"))
	if err != nil {
		log.Fatal().Err(err).Msg("crear administrador")
	}
	log.Info().Str("email", admin.Email).Str("id", admin.ID).Msg("administrador listo")

	if !v.GetBool("tours") {
		return
	}
	created, err := seedTours(ctx, postgres.NewTourRepository(pool), admin.ID)
	if err != nil {
		log.Fatal().Err(err).Msg("crear tours")
	}
	log.Info().Int("created", created).Int("total", len(sampleTours)).Msg("tours de ejemplo")
}

// seedAdmin crea el administrador o devuelve el existente si el email ya está registrado.
func seedAdmin(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, email, password, name string) (*entity.User, error) {
	email = entity.NormalizeEmail(email)
	if email == "" {
		return nil, domain.ErrInvalidInput.WithMessage("admin-email es requerido")
	}
	existing, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if err := auth.ValidatePassword(password); err != nil {
		return nil, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	admin := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Name:         strings.TrimSpace(name),
		Photo:        entity.DefaultPhoto,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// seedTours inserta los tours de ejemplo; los que ya existen se omiten.
func seedTours(ctx context.Context, tours repository.TourRepository, createdBy string) (int, error) {
	created := 0
	for _, s := range sampleTours {
		now := time.Now()
		err := tours.Create(ctx, &entity.Tour{
			ID:           uuid.New().String(),
			Name:         s.name,
			DurationDays: s.days,
			MaxGroupSize: s.size,
			Difficulty:   s.difficulty,
			Price:        decimal.RequireFromString(s.price),
			Summary:      s.summary,
			CreatedBy:    createdBy,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}
