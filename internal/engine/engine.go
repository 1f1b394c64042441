package engine

import (
	"driftwood/internal/engine/actors"
	"driftwood/internal/models"
	"driftwood/internal/storage"
	"driftwood/internal/utils"

	"github.com/asynkron/protoactor-go/actor"
)

// Engine owns the content store actor. One actor per backend instance: the
// mailbox is the single-writer region serializing load-transform-save.
type Engine struct {
	contentActor *actor.PID
}

func NewEngine(system *actor.ActorSystem, mode models.AuthMode, adapter storage.Adapter, metrics *utils.MetricsCollector) *Engine {
	context := system.Root

	contentProps := actor.PropsFromProducer(func() actor.Actor {
		return actors.NewContentActor(mode, adapter, metrics)
	})
	contentPID := context.Spawn(contentProps)

	return &Engine{
		contentActor: contentPID,
	}
}

// GetContentActor returns the PID of the content store actor
func (e *Engine) GetContentActor() *actor.PID {
	return e.contentActor
}
