package main

import (
	"flag"
	"log"
	"os"

	"SwingPull/internal/di"
	"SwingPull/pkg/config"
	"SwingPull/pkg/server"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	runOnce := flag.Bool("run-once", false, "run one refresh cycle and exit")
	webOnly := flag.Bool("web-only", false, "serve the dashboard without scheduled refreshes")
	noEmail := flag.Bool("no-email", false, "never send the dashboard email")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	log.Printf("env=%s symbols=%d timezone=%s", cfg.Environment, len(cfg.Watchlist.Symbols), cfg.Schedule.Timezone)

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	opts := server.Options{
		RunOnce: *runOnce,
		WebOnly: *webOnly,
		NoEmail: *noEmail,
	}
	if err := app.Run(opts); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
