package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"canvas-studio-be/internal/config"
	"canvas-studio-be/pkg/events"
	pktNats "canvas-studio-be/pkg/nats"

	"github.com/fatih/color"
)

// Operator tool: tails state-change events off the NATS stream. Useful to
// watch what a running deployment is doing without attaching a websocket.
func main() {
	subject := flag.String("subject", "canvas.>", "subject filter")
	durable := flag.String("durable", "canvas-tail", "durable consumer name")
	flag.Parse()

	cfg := config.Load()

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Fatalf("connect to NATS: %v", err)
	}
	defer sub.Close()

	opColor := color.New(color.FgGreen, color.Bold)

	err = sub.Subscribe(*subject, *durable, func(_ context.Context, ev events.Event) error {
		data := ev.Payload()
		opColor.Printf("%s ", data["op"])
		fmt.Printf("workspace=%v canvas=%v node=%v at %s\n",
			data["workspace_id"], data["canvas_id"], data["node_id"],
			ev.Timestamp().Format(time.RFC3339))
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	log.Printf("✅ Tailing %s (durable %s), Ctrl-C to stop", *subject, *durable)
	select {}
}
