package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"driftwood/internal/config"
	"driftwood/internal/engine"
	"driftwood/internal/handlers"
	"driftwood/internal/middleware"
	"driftwood/internal/models"
	"driftwood/internal/storage"
	"driftwood/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	adapter, err := newAdapter(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	defer adapter.Close(context.Background())

	if !adapter.Durable() {
		log.Printf("WARNING: running with an ephemeral backend; data will not survive a restart")
	}

	metrics := utils.NewMetricsCollector()

	// Initialize actor system and the content store actor
	system := actor.NewActorSystem()
	forumEngine := engine.NewEngine(system, cfg.Store.AuthMode, adapter, metrics)

	var tokens *middleware.TokenIssuer
	if cfg.Store.AuthMode == models.AuthModeAuthenticated {
		tokens = middleware.NewTokenIssuer(cfg.JWTSecret)
	}

	server := handlers.NewServer(system, forumEngine, metrics, cfg.Store.AuthMode, tokens, adapter.Durable())
	corsConfig := middleware.DefaultCORSConfig(cfg.AllowedOrigins)

	// route applies CORS and, in authenticated mode, token extraction.
	route := func(pattern string, handler http.HandlerFunc, requireAuth bool) {
		if tokens != nil {
			if requireAuth {
				handler = tokens.RequireIdentity(handler)
			} else {
				handler = tokens.OptionalIdentity(handler)
			}
		}
		if cfg.Debug {
			handler = middleware.LogRequests(handler)
		}
		http.HandleFunc(pattern, middleware.ApplyCORS(handler, corsConfig))
	}

	route("/health", server.HandleHealth(), false)
	route("/posts", server.HandleListPosts(), false)
	route("/post", server.HandlePost(), false)
	route("/post/comments", server.HandleGetPostComments(), false)
	route("/post/like", server.HandlePostLike(), false)
	route("/post/flags", server.HandlePostFlags(), true)
	route("/comment", server.HandleComment(), false)
	route("/comment/like", server.HandleCommentLike(), false)

	// User routes exist only when a user collection exists.
	if cfg.Store.AuthMode == models.AuthModeAuthenticated {
		route("/user/register", server.HandleUserRegistration(), false)
		route("/user/login", server.HandleUserLogin(), false)
		route("/user/profile", server.HandleUserProfile(), false)
	}

	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Starting server on %s (mode=%s, backend=%s)", serverAddr, cfg.Store.AuthMode, cfg.Store.Backend)
	if err := http.ListenAndServe(serverAddr, nil); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func newAdapter(cfg *config.StoreConfig) (storage.Adapter, error) {
	switch cfg.Backend {
	case config.BackendFile:
		return storage.NewFileAdapter(cfg.DataFile)
	case config.BackendMemory:
		return storage.NewMemoryAdapter(), nil
	case config.BackendMongo:
		return storage.NewMongoAdapter(cfg.MongoURI)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
