package main

import (
	"context"
	"flag"
	"os"
	"strings"

	"estate_portal_backend/internal/catalog"
	"estate_portal_backend/internal/events"
	"estate_portal_backend/internal/shared/caller"
	"estate_portal_backend/platform/config"
	"estate_portal_backend/platform/db"
	"estate_portal_backend/platform/logger"
	"estate_portal_backend/platform/validator"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

func main() {
	path := flag.String("file", "fixtures/catalog.yaml", "YAML fixture to import")
	dryRun := flag.Bool("dry-run", false, "validate the fixture without writing")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting catalog import", "file", *path, "dryRun", *dryRun)

	file, err := os.Open(*path)
	if err != nil {
		log.Error("failed to open fixture", "error", err)
		panic("failed to open fixture: " + err.Error())
	}
	data, err := decodeFixture(file)
	_ = file.Close()
	if err != nil {
		log.Error("invalid fixture", "error", err)
		panic("invalid fixture: " + err.Error())
	}

	val := validator.New()
	for i, p := range data.Properties {
		if err := val.Struct(p.request()); err != nil {
			log.Error("invalid property", "index", i, "title", p.Title, "error", err)
			panic("invalid property: " + err.Error())
		}
	}
	if *dryRun {
		log.Info("fixture is valid", "agents", len(data.Agents), "properties", len(data.Properties))
		return
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	// The API shares the query cache, so imported listings must evict it.
	var rdb redis.UniversalClient
	if client, err := db.NewRedisClient(ctx, cfg); err != nil {
		log.Warn("redis unavailable; cached search results may be stale until TTL", "error", err)
	} else if client != nil {
		defer func() { _ = client.Close() }()
		rdb = client
	}

	agents, err := upsertAgents(ctx, pool, data.Agents)
	if err != nil {
		log.Error("failed to import agents", "error", err)
		panic("failed to import agents: " + err.Error())
	}

	eventBus := events.NewInMemoryBus(log)
	catalogModule := catalog.NewModule(pool, rdb, eventBus, val, cfg, log)
	catalogModule.RegisterHandlers(eventBus)

	importer := caller.New(uuid.New(), caller.RoleAdmin)
	created := 0
	for i, p := range data.Properties {
		property, err := catalogModule.Service().Create(ctx, importer, p.request())
		if err != nil {
			log.Error("failed to import property", "index", i, "title", p.Title, "error", err)
			continue
		}
		created++
		log.Debug("imported property", "id", property.ID, "title", property.Title)
	}
	eventBus.Wait()

	log.Info("catalog import complete", "agents", agents, "properties", created, "failed", len(data.Properties)-created)
}

func upsertAgents(ctx context.Context, pool *pgxpool.Pool, agents []agentRecord) (int, error) {
	for _, a := range agents {
		var phone *string
		if p := strings.TrimSpace(a.Phone); p != "" {
			phone = &p
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO agents (id, name, email, phone)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (id) DO UPDATE
			SET name = EXCLUDED.name, email = EXCLUDED.email, phone = EXCLUDED.phone, updated_at = now()`,
			a.ID, strings.TrimSpace(a.Name), strings.ToLower(strings.TrimSpace(a.Email)), phone,
		)
		if err != nil {
			return 0, err
		}
	}
	return len(agents), nil
}
