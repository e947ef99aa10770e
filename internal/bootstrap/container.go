package bootstrap

import (
	"context"
	"log"

	"canvas-studio-be/internal/config"
	"canvas-studio-be/internal/controller"
	"canvas-studio-be/internal/pkg/logger"
	"canvas-studio-be/internal/registry"
	"canvas-studio-be/internal/service"
	"canvas-studio-be/internal/websocket"
	"canvas-studio-be/pkg/database"
	"canvas-studio-be/pkg/storage"
	storagememory "canvas-studio-be/pkg/storage/memory"
	storagepostgres "canvas-studio-be/pkg/storage/postgres"
	storageredis "canvas-studio-be/pkg/storage/redis"

	pktNats "canvas-studio-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const stateEventsTopic = "canvas_state_events"

type Container struct {
	// Controllers
	CanvasController controller.ICanvasController
	StateController  controller.IStateController
	ThreadController controller.IThreadController

	// Background Services (Exposed for main.go to run)
	SyncService service.ISyncService

	// WebSockets & workspace state
	WebSocketHub *websocket.Hub
	Workspaces   *registry.WorkspaceRegistry
}

func NewContainer(cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	var rdb *redis.Client
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb = redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		if cfg.Storage.Backend != "redis" {
			rdb = nil
		}
	}

	// Bounded state storage, backend per config
	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "redis":
		backend = storageredis.NewBackend(rdb, cfg.Storage.KeyPrefix)
		log.Printf("[INFO] Using Storage Backend: REDIS (%s)", cfg.Storage.KeyPrefix)
	case "postgres":
		gormDB, err := database.NewGormDBFromDSN(cfg.Storage.DatabaseDSN)
		if err != nil {
			log.Fatalf("[FATAL] Unable to connect to GORM DB: %v", err)
		}
		backend, err = storagepostgres.NewBackend(gormDB)
		if err != nil {
			log.Fatalf("[FATAL] Unable to prepare Postgres storage: %v", err)
		}
		log.Printf("[INFO] Using Storage Backend: POSTGRES")
	default:
		backend = storagememory.NewBackend()
		log.Printf("[INFO] Using Storage Backend: MEMORY")
	}
	bounded := storage.NewBounded(backend, cfg.Storage.CapacityBytes)

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/sync.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 3. Services
	publisherService := service.NewPublisherService(stateEventsTopic, pubSub, sysLogger)
	workspaces := registry.NewWorkspaceRegistry(bounded, publisherService.PublishChange, sysLogger)

	syncService := service.NewSyncService(pubSub, stateEventsTopic, wsHub, natsPub, wsLogger)

	canvasService := service.NewCanvasService(workspaces)
	stateService := service.NewStateService(workspaces)
	threadService := service.NewThreadService(workspaces)

	// 4. Controllers
	return &Container{
		CanvasController: controller.NewCanvasController(canvasService),
		StateController:  controller.NewStateController(stateService),
		ThreadController: controller.NewThreadController(threadService),
		SyncService:      syncService,
		WebSocketHub:     wsHub,
		Workspaces:       workspaces,
	}
}
