package cmd

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/viper"

	"github.com/chrisdamba/webdiner/internal/app"
	"github.com/chrisdamba/webdiner/internal/factories"
	"github.com/chrisdamba/webdiner/internal/models"
	"github.com/chrisdamba/webdiner/internal/repositories/memory"
	"github.com/chrisdamba/webdiner/internal/repositories/postgres"
)

func openPool(ctx context.Context, cfg *models.Config) (*pgxpool.Pool, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}
	return pool, nil
}

func postgresRepositories(pool *pgxpool.Pool) app.Repositories {
	return app.Repositories{
		Users:       postgres.NewUserRepository(pool),
		Departments: postgres.NewDepartmentRepository(pool),
		Vendors:     postgres.NewVendorRepository(pool),
		MenuItems:   postgres.NewMenuItemRepository(pool),
		SpecialDays: postgres.NewSpecialDayRepository(pool),
		Orders:      postgres.NewOrderRepository(pool),
	}
}

func memoryRepositories(store *memory.Store) app.Repositories {
	return app.Repositories{
		Users:       store.Users,
		Departments: store.Departments,
		Vendors:     store.Vendors,
		MenuItems:   store.MenuItems,
		SpecialDays: store.SpecialDays,
		Orders:      store.Orders,
	}
}

func seedTargets(repos app.Repositories) factories.Repositories {
	return factories.Repositories{
		Departments: repos.Departments,
		Vendors:     repos.Vendors,
		MenuItems:   repos.MenuItems,
		Users:       repos.Users,
		SpecialDays: repos.SpecialDays,
	}
}

// openRepositories returns the configured backend and a function releasing
// it.
func openRepositories(ctx context.Context, cfg *models.Config) (app.Repositories, func(), error) {
	switch backend := viper.GetString("storage"); backend {
	case "", "postgres":
		pool, err := openPool(ctx, cfg)
		if err != nil {
			return app.Repositories{}, nil, err
		}
		return postgresRepositories(pool), pool.Close, nil
	case "memory":
		return memoryRepositories(memory.NewStore()), func() {}, nil
	default:
		return app.Repositories{}, nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}
