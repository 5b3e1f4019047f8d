// Package main is the entry point for the FRACTURED narrative server. It
// only handles dependency injection and server initialization. NO business
// logic belongs here.
package main

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fractured-if/engine/internal/domain/story"
	"github.com/fractured-if/engine/internal/engine"
	"github.com/fractured-if/engine/internal/events"
	"github.com/fractured-if/engine/internal/infra/storage"
	"github.com/fractured-if/engine/internal/network"
	"github.com/fractured-if/engine/internal/platform/config"
	"github.com/fractured-if/engine/internal/platform/logger"
	"github.com/fractured-if/engine/internal/platform/metrics"
)

func main() {
	log.Println("[FRACTURED] Initializing narrative server...")

	appLogger := logger.NewLogger()

	cfg, err := config.Load()
	if err != nil {
		appLogger.Error("Failed to load configuration: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Loading storyline...")
	graph, err := story.Load(cfg.StoryPath)
	if err != nil {
		appLogger.Error("Failed to load storyline: " + err.Error())
		os.Exit(1)
	}

	appLogger.Info("Initializing SQLite database '" + cfg.DBPath + "'...")
	db, err := storage.InitSQLite(cfg.DBPath)
	if err != nil {
		appLogger.Error("Failed to initialize SQLite: " + err.Error())
		os.Exit(1)
	}
	defer db.Close()

	sessionRepo := storage.NewSQLiteSessionRepository(db)
	metaRepo := storage.NewSQLiteMetaRepository(db)
	journalRepo := storage.NewSQLiteJournalRepository(db)

	store := storage.NewStore(cfg.SessionID, sessionRepo, metaRepo, appLogger)
	journal := events.NewJournal(storage.NewJournalPersister(journalRepo))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appLogger.Info("Bootstrapping session '" + cfg.SessionID + "'...")
	meta := store.LoadMeta(ctx)
	sess := engine.NewSession(cfg.SessionID, graph, journal, store, appLogger,
		engine.WithMetaMemory(meta))
	defer sess.Close()

	if snapshot, ok := store.LoadSession(ctx); ok {
		appLogger.Info("Restoring session from database (scene " + snapshot.CurrentSceneID + ")")
		sess.Dispatch(engine.Load{Snapshot: snapshot})
	}

	appLogger.Info("Bootstrapping WebSocket Hub...")
	hub := network.NewHub(sess, appLogger)
	go hub.Run(ctx)
	hub.StartEventPoller(ctx, journal)
	hub.StartStateForwarder(ctx)

	pulse := engine.NewPulse(sess, journal, appLogger, cfg.PulseInterval)
	go pulse.Start(ctx)

	// API routes
	http.HandleFunc("/ws", hub.ServeWS)

	http.HandleFunc("/api/state", func(w http.ResponseWriter, r *http.Request) {
		scene := sess.CurrentScene()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"state":     sess.State(),
			"scene":     scene,
			"speaker":   scene.Speaker.DisplayName(),
			"choices":   sess.AvailableChoices(),
			"intensity": sess.Intensity(),
		})
	})

	http.HandleFunc("/api/choice", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		type requestParams struct {
			ChoiceID string `json:"choice_id"`
		}
		var req requestParams
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}

		if err := sess.ResolveChoice(req.ChoiceID); err != nil {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	http.HandleFunc("/api/reset", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		sess.Dispatch(engine.Reset{})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	http.HandleFunc("/metrics", metrics.Handler())
	http.HandleFunc("/metrics/prom", metrics.PrometheusHandler())

	go func() {
		log.Println("[FRACTURED] HTTP API & WS Server listening on " + cfg.Addr)
		if err := http.ListenAndServe(cfg.Addr, nil); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	log.Println("[FRACTURED] Server running. Press Ctrl+C to exit.")

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[FRACTURED] Shutting down...")
}
