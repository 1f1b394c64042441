package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"driftwood/internal/engine"
	"driftwood/internal/middleware"
	"driftwood/internal/models"
	"driftwood/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Server holds all server dependencies, including the actor system and engine
type Server struct {
	System         *actor.ActorSystem
	Context        *actor.RootContext
	Engine         *engine.Engine
	Metrics        *utils.MetricsCollector
	Mode           models.AuthMode
	Tokens         *middleware.TokenIssuer // nil in anonymous mode
	Durable        bool
	RequestTimeout time.Duration
}

// NewServer creates a new Server instance with the given components
func NewServer(
	system *actor.ActorSystem,
	forumEngine *engine.Engine,
	metrics *utils.MetricsCollector,
	mode models.AuthMode,
	tokens *middleware.TokenIssuer,
	durable bool,
) *Server {
	return &Server{
		System:         system,
		Context:        system.Root,
		Engine:         forumEngine,
		Metrics:        metrics,
		Mode:           mode,
		Tokens:         tokens,
		Durable:        durable,
		RequestTimeout: 5 * time.Second, // Default timeout for actor requests
	}
}

// ask sends a message to the content store actor and waits for the reply.
func (s *Server) ask(msg interface{}) (interface{}, error) {
	future := s.Context.RequestFuture(s.Engine.GetContentActor(), msg, s.RequestTimeout)
	result, err := future.Result()
	if err != nil {
		return nil, utils.NewActorTimeoutError("content store")
	}
	return result, nil
}

// writeResult encodes an operation result, mapping AppError codes to HTTP
// statuses. The store returns structured errors; surfacing them is our job.
func (s *Server) writeResult(w http.ResponseWriter, result interface{}, err error) {
	s.Metrics.IncrementRequests()

	if err == nil {
		if appErr, ok := result.(*utils.AppError); ok {
			err = appErr
		}
	}
	if err != nil {
		s.Metrics.IncrementErrors()
		code := utils.ErrStorage
		if appErr, ok := err.(*utils.AppError); ok {
			code = appErr.Code
		}
		writeJSON(w, utils.AppErrorToHTTPStatus(code), map[string]string{
			"code":    code,
			"message": err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// identity returns the caller identity extracted by the JWT middleware, or
// nil for anonymous deployments and unauthenticated requests.
func (s *Server) identity(r *http.Request) *models.Identity {
	return middleware.IdentityFromContext(r.Context())
}
