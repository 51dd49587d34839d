package service

import (
	"labourhub/pkg/config"
	"labourhub/pkg/interfaces"
)

// Engine wires the coordination services over one store
type Engine struct {
	Store        interfaces.Store
	Logs         *LabourLogService
	Scorer       *ReliabilityScorer
	Router       *CoordinatorRouter
	Availability *AvailabilityResolver
	Assignment   *AssignmentManager
	Replacement  *ReplacementEngine
	Requests     *RequestService
	Coordinators *CoordinatorService
	Workers      *WorkerService
}

// NewEngine builds every service with cfg tunables
func NewEngine(store interfaces.Store, cfg config.EngineConfig) *Engine {
	logs := NewLabourLogService(store)
	scorer := NewReliabilityScorer(store)
	router := NewCoordinatorRouter(store)
	availability := NewAvailabilityResolver(store)
	assignment := NewAssignmentManager(store, availability, logs)
	replacement := NewReplacementEngine(store, availability, logs, scorer)
	replacement.SetMaxSuggestions(cfg.MaxSuggestions)

	return &Engine{
		Store:        store,
		Logs:         logs,
		Scorer:       scorer,
		Router:       router,
		Availability: availability,
		Assignment:   assignment,
		Replacement:  replacement,
		Requests:     NewRequestService(store, router, availability, assignment, replacement, scorer, logs, cfg),
		Coordinators: NewCoordinatorService(store),
		Workers:      NewWorkerService(store, availability),
	}
}

// SetPublisher forwards committed log entries to p
func (e *Engine) SetPublisher(p interfaces.EventPublisher) {
	e.Logs.SetPublisher(p)
}
