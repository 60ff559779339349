package main

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/recipeapp/recipe-api/internal/core/ports"
	"github.com/recipeapp/recipe-api/internal/core/service"
	"github.com/recipeapp/recipe-api/internal/infrastructure/config"
	mongodb "github.com/recipeapp/recipe-api/internal/infrastructure/db/mongo"
	"github.com/recipeapp/recipe-api/internal/infrastructure/db/redis"
	"github.com/recipeapp/recipe-api/internal/infrastructure/storage"
	"github.com/recipeapp/recipe-api/pkg/logger"
)

// app holds the connections and use cases shared by the commands.
type app struct {
	mongo *mongo.Client
	db    *mongo.Database
	redis *goredis.Client

	users      *service.UserService
	attributes ports.AttributeService
	recipes    *service.RecipeService
}

func (a *app) close(ctx context.Context) {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	_ = a.mongo.Disconnect(ctx)
}

// connectMongo opens the database and makes sure its indexes exist.
func connectMongo(ctx context.Context, cfg *config.Config) (*mongo.Client, *mongo.Database, error) {
	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, nil, err
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, err
	}
	return client, db, nil
}

// newUserService builds the account use cases. rdb may be nil, which
// disables login throttling.
func newUserService(cfg *config.Config, db *mongo.Database, rdb *goredis.Client) *service.UserService {
	var throttle service.LoginThrottle
	if rdb != nil {
		throttle = redis.NewLoginThrottle(rdb, cfg.Throttle.Attempts, cfg.Throttle.Window)
	}
	return service.NewUserService(
		mongodb.NewUserRepository(db),
		throttle,
		cfg.JWTSecret,
		cfg.TokenTTL,
		logger.Component("users"),
	)
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	client, db, err := connectMongo(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("connect redis: %w", err)
		}
	}

	recipeRepo := mongodb.NewRecipeRepository(db)
	attrRepo := mongodb.NewAttributeRepository(db)
	images := storage.NewLocalImageStore(cfg.Media.Root, cfg.Media.URL)

	return &app{
		mongo:      client,
		db:         db,
		redis:      rdb,
		users:      newUserService(cfg, db, rdb),
		attributes: service.NewAttributeService(attrRepo, recipeRepo, logger.Component("attributes")),
		recipes:    service.NewRecipeService(recipeRepo, attrRepo, images, logger.Component("recipes")),
	}, nil
}
