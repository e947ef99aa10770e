package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"canvas-studio-be/internal/config"
	"canvas-studio-be/pkg/canvas"
	"canvas-studio-be/pkg/database"
	"canvas-studio-be/pkg/storage"
	storagememory "canvas-studio-be/pkg/storage/memory"
	storagepostgres "canvas-studio-be/pkg/storage/postgres"
	storageredis "canvas-studio-be/pkg/storage/redis"

	"github.com/fatih/color"
	"github.com/redis/go-redis/v9"
)

// Operator tool: lists the persisted workspace entries in the configured
// storage backend, with sizes and eviction timestamps, and optionally dumps
// one workspace's snapshot.
func main() {
	workspace := flag.String("workspace", "", "dump this workspace's snapshot")
	flag.Parse()

	cfg := config.Load()
	ctx := context.Background()

	backend := openBackend(cfg)

	keys, err := backend.Keys(ctx)
	if err != nil {
		log.Fatalf("list keys: %v", err)
	}

	header := color.New(color.FgCyan, color.Bold)
	header.Printf("Backend: %s  Capacity: %d bytes  Entries: %d\n\n", cfg.Storage.Backend, cfg.Storage.CapacityBytes, len(keys))

	var total int64
	for _, key := range keys {
		raw, found, err := backend.Get(ctx, key)
		if err != nil || !found {
			color.Red("  %-24s <unreadable: %v>", key, err)
			continue
		}
		var env struct {
			LastUsedAt time.Time `json:"lastUsedAt"`
		}
		_ = json.Unmarshal(raw, &env)
		total += int64(len(raw))
		fmt.Printf("  %-24s %8d bytes  last used %s\n", key, len(raw), env.LastUsedAt.Format(time.RFC3339))
	}
	fmt.Printf("\nTotal: %d / %d bytes\n", total, cfg.Storage.CapacityBytes)

	if *workspace == "" {
		return
	}

	bounded := storage.NewBounded(backend, cfg.Storage.CapacityBytes)
	payload, found, err := bounded.Get(ctx, *workspace)
	if err != nil {
		log.Fatalf("get workspace %q: %v", *workspace, err)
	}
	if !found {
		color.Yellow("\nWorkspace %q has no persisted snapshot", *workspace)
		return
	}

	var snap canvas.Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		log.Fatalf("decode snapshot: %v", err)
	}

	header.Printf("\nWorkspace %q\n", *workspace)
	fmt.Printf("  currentCanvasId: %s\n", snap.CurrentCanvasID)
	fmt.Printf("  thread messages: %d\n", len(snap.LinearThreadMessages))
	for id, c := range snap.Config {
		fmt.Printf("  canvas %s (%d previews, last used %s)\n", id, len(c.NodePreviews), c.LastUsedAt.Format(time.RFC3339))
		for i, p := range c.NodePreviews {
			pin := " "
			if p.IsPinned {
				pin = "*"
			}
			fmt.Printf("    [%d]%s %s (%s)\n", i, pin, p.ID, p.Kind)
		}
	}
}

func openBackend(cfg *config.Config) storage.Backend {
	switch cfg.Storage.Backend {
	case "redis":
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Fatalf("parse redis url: %v", err)
		}
		return storageredis.NewBackend(redis.NewClient(opt), cfg.Storage.KeyPrefix)
	case "postgres":
		db, err := database.NewGormDBFromDSN(cfg.Storage.DatabaseDSN)
		if err != nil {
			log.Fatalf("connect postgres: %v", err)
		}
		backend, err := storagepostgres.NewBackend(db)
		if err != nil {
			log.Fatalf("prepare postgres storage: %v", err)
		}
		return backend
	default:
		// Nothing persisted in-process to inspect, but the tool still runs.
		return storagememory.NewBackend()
	}
}
