package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/mailpilot/console/internal/api"
	"github.com/mailpilot/console/internal/channel"
	"github.com/mailpilot/console/internal/config"
	"github.com/mailpilot/console/internal/db"
	"github.com/mailpilot/console/internal/selection"
	"github.com/mailpilot/console/internal/services"
	"github.com/mailpilot/console/internal/state"
	"github.com/mailpilot/console/internal/version"
)

func main() {
	// Essential command line flags only (GNU-style double dashes)
	configPathFlag := flag.String("config", "", "Path to JSON configuration file (default: ~/.config/mailpilot/config.json)")
	serverFlag := flag.String("server", "", "Backend base URL (overrides config)")
	versionFlag := flag.Bool("version", false, "Show version information and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "%s\n\n", version.GetVersionString())
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s                                  # Run with default configuration\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --server http://10.0.0.5:8000    # Use a different backend\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --version                        # Show version information\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --config custom.json             # Use custom configuration\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  --config string\n        %s\n", "Path to JSON configuration file (default: ~/.config/mailpilot/config.json)")
		fmt.Fprintf(os.Stderr, "  --server string\n        %s\n", "Backend base URL (overrides config)")
		fmt.Fprintf(os.Stderr, "  --version\n        %s\n\n", "Show version information and exit")
		fmt.Fprintf(os.Stderr, "Environment Variables:\n")
		fmt.Fprintf(os.Stderr, "  MAILPILOT_CONFIG  Override default config file path\n")
		fmt.Fprintf(os.Stderr, "  MAILPILOT_SERVER  Override backend base URL\n\n")
		fmt.Fprintf(os.Stderr, "For all other settings (pagination, notifications, cache), edit the config file.\n")
	}

	flag.Parse()

	if *versionFlag {
		fmt.Println(version.GetDetailedVersionString())
		return
	}

	configPath := getConfigPath(*configPathFlag)

	manager := config.NewManager()
	if err := manager.LoadFromFile(configPath); err != nil {
		log.Printf("Warning: could not load configuration: %v", err)
	}
	cfg := manager.GetConfig()

	if server := getServerURL(*serverFlag); server != "" {
		cfg.ServerURL = server
	}

	// Optional log file; the console itself stays on stdout
	var logger *log.Logger
	if cfg.LogFile != "" {
		path := expandPath(cfg.LogFile)
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600); err == nil {
				defer f.Close()
				logger = log.New(f, "", log.LstdFlags)
			}
		}
		if logger == nil {
			log.Printf("Warning: could not open log file %s", cfg.LogFile)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Optional: open the persistent snapshot cache for cold-start rendering
	var store *db.Store
	var snapshots *db.SnapshotStore
	if cfg.Cache.Enabled && cfg.Cache.Path != "" {
		if st, err := db.Open(ctx, expandPath(cfg.Cache.Path)); err == nil {
			store = st
			snapshots = db.NewSnapshotStore(st)
		} else {
			log.Printf("Warning: could not open cache store: %v", err)
		}
	}
	if store != nil {
		defer store.Close()
	}

	// State store hydrates from the cache so queues render before connect
	var cachePort state.CachePort
	if snapshots != nil {
		cachePort = snapshots
	}
	queues := state.NewStore(cachePort)
	if logger != nil {
		queues.SetLogger(logger)
	}
	queues.Hydrate(ctx)

	client := api.NewClient(api.ClientOptions{
		BaseURL:    cfg.ServerURL,
		HTTPClient: &http.Client{Timeout: cfg.GetRequestTimeout()},
		UserAgent:  "mailpilot-console/" + version.Version,
	})
	if logger != nil {
		client.SetLogger(logger)
	}

	live := channel.NewClient(channel.Options{
		URL:            cfg.Channel.SocketURL,
		ReconnectDelay: cfg.GetReconnectDelay(),
	}, queues)
	if logger != nil {
		live.SetLogger(logger)
	}

	settingsSvc := services.NewSettingsService(client)
	knowledgeSvc := services.NewKnowledgeService(client, queues)
	labelSvc := services.NewLabelService(client, snapshots)

	notifier := services.NewNotifierService(settingsSvc)
	if logger != nil {
		notifier.SetLogger(logger)
	}
	notifier.OnNotification(func(n services.Notification) {
		fmt.Printf("[%s] %s\n", n.Level, n.Message)
	})
	notifier.WatchStore(queues)

	tabs := selection.NewController(queues, selection.Services{
		Drafts:   services.NewDraftService(client, queues),
		Priority: services.NewPriorityService(client, queues),
		Learning: services.NewLearningService(client, queues),
		Stars:    services.NewStarService(client, queues),
	}, notifier, cfg.Pagination.QueuePageSize)

	queues.Watch(func(c state.Change) {
		switch c.Kind {
		case state.ChangeStatus:
			fmt.Printf("agent status: %s\n", queues.Status())
		case state.ChangeQueue:
			// Ids that left their queue must leave the selection too
			tabs.Reconcile()
		}
	})

	if err := live.Start(ctx); err != nil {
		log.Fatalf("Could not start live channel: %v", err)
	}
	defer live.Close()

	// Bootstrap fetches; failures are non-fatal, the push channel will
	// deliver the canonical state once connected
	if _, err := settingsSvc.Get(ctx); err != nil {
		log.Printf("Warning: could not fetch settings: %v", err)
	}
	if _, err := knowledgeSvc.ListFacts(ctx); err != nil {
		log.Printf("Warning: could not fetch knowledge base: %v", err)
	}
	if labels, err := labelSvc.ListLabels(ctx); err != nil {
		cached := labelSvc.CachedLabels(ctx)
		log.Printf("Warning: could not fetch labels (%d cached): %v", len(cached), err)
	} else if logger != nil {
		logger.Printf("loaded %d labels", len(labels))
	}

	fmt.Println(version.GetVersionString())
	fmt.Printf("backend: %s\n", cfg.ServerURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	fmt.Println("shutting down")
}

// getConfigPath returns the configuration file path using the following priority:
// 1. CLI flag
// 2. Environment variable MAILPILOT_CONFIG
// 3. Default path ~/.config/mailpilot/config.json
func getConfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envPath := os.Getenv("MAILPILOT_CONFIG"); envPath != "" {
		return expandPath(envPath)
	}
	return config.DefaultConfigPath()
}

// getServerURL returns the backend override from the CLI flag or the
// MAILPILOT_SERVER environment variable, empty when neither is set
func getServerURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("MAILPILOT_SERVER")
}

// expandPath expands a leading ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}
	return path
}
