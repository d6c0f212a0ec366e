package app

import (
	"context"
	"fmt"
	"time"

	"Taskboard/internal/config"
	"Taskboard/internal/middleware"
	"Taskboard/internal/repo"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

type App struct {
	cfg    config.Config
	db     *pgxpool.Pool
	redis  *redis.Client
	router *gin.Engine
}

// stores bundles the two halves of the storage engine.
type stores struct {
	tasks repo.TaskRepo
	users repo.UserRepo
}

func New(cfg config.Config) (*App, error) {
	a := &App{cfg: cfg}

	var st stores
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := newPostgres(cfg.PG.DSN)
		if err != nil {
			return nil, err
		}
		if err := runMigrations(cfg.PG.DSN, cfg.PG.MigrationsDir); err != nil {
			db.Close()
			return nil, err
		}
		a.db = db
		st = stores{tasks: repo.NewPGTaskRepo(db), users: repo.NewPGUserRepo(db)}
		log.Info().Msg("using postgres store")
	default:
		mem := repo.NewMemoryStore()
		st = stores{tasks: mem, users: mem}
		log.Info().Msg("using in-memory store")
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(cfg.Redis)
		if err != nil {
			_ = a.Close(context.Background())
			return nil, err
		}
		a.redis = rdb
		log.Info().Str("addr", cfg.Redis.Addr).Msg("task view cache enabled")
	}

	a.router = newRouter(cfg, st, a.redis)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	_ = ctx
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
	return nil
}

func newPostgres(dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg parse config: %w", err)
	}
	cfg.MaxConns = 10
	cfg.MinConns = 2
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("pg connect: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg ping: %w", err)
	}

	return pool, nil
}

func newRedis(cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func runMigrations(dsn string, migrationsDir string) error {
	db, err := goose.OpenDBWithDriver("pgx", dsn)
	if err != nil {
		return fmt.Errorf("goose open db: %w", err)
	}
	defer db.Close()

	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func newRouter(cfg config.Config, st stores, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(), middleware.RecoveryWithLog())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Accept-Language"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	if cfg.RateLimit.RPS > 0 {
		r.Use(middleware.RateLimiter(rate.Limit(cfg.RateLimit.RPS), cfg.RateLimit.Burst))
	}

	Setup(r, cfg, st, rdb)
	return r
}
