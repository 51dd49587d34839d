package router

import (
	"labourhub/app/handler"
	"labourhub/app/middleware"

	"github.com/gin-gonic/gin"
)

// Router Router
type Router struct {
	requestHandler     *handler.RequestHandler
	coordinatorHandler *handler.CoordinatorHandler
	workerHandler      *handler.WorkerHandler
	metaHandler        *handler.MetaHandler
	eventsHandler      *handler.EventsHandler
	apiKey             string
}

// NewRouter creates a new Router; eventsHandler may be nil
func NewRouter(
	requestHandler *handler.RequestHandler,
	coordinatorHandler *handler.CoordinatorHandler,
	workerHandler *handler.WorkerHandler,
	metaHandler *handler.MetaHandler,
	eventsHandler *handler.EventsHandler,
	apiKey string,
) *Router {
	return &Router{
		requestHandler:     requestHandler,
		coordinatorHandler: coordinatorHandler,
		workerHandler:      workerHandler,
		metaHandler:        metaHandler,
		eventsHandler:      eventsHandler,
		apiKey:             apiKey,
	}
}

// Setup sets up routes
func (r *Router) Setup(engine *gin.Engine) {
	engine.Use(middleware.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger())

	engine.GET("/health", r.metaHandler.Health)
	engine.GET("/work-types", r.metaHandler.WorkTypes)

	api := engine.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(r.apiKey))
	api.Use(middleware.Actor())
	{
		requests := api.Group("/requests")
		{
			requests.POST("", r.requestHandler.Create)
			requests.GET("/:id", r.requestHandler.Get)
			requests.GET("/:id/logs", r.requestHandler.Logs)

			// farmer
			requests.POST("/:id/cancel", r.requestHandler.Cancel)
			requests.POST("/:id/feedback", r.requestHandler.Feedback)
			requests.POST("/:id/confirm-completion", r.requestHandler.ConfirmCompletion)

			// coordinator
			requests.POST("/:id/accept", r.requestHandler.Accept)
			requests.POST("/:id/decline", r.requestHandler.Decline)
			requests.POST("/:id/assign", r.requestHandler.Assign)
			requests.GET("/:id/replacement-suggestions", r.requestHandler.ReplacementSuggestions)
			requests.POST("/:id/replace", r.requestHandler.Replace)
			requests.POST("/:id/start", r.requestHandler.Start)
			requests.POST("/:id/complete", r.requestHandler.Complete)
			requests.POST("/:id/fail", r.requestHandler.Fail)

			// per-slot
			requests.POST("/:id/workers/:worker_id/confirm", r.requestHandler.ConfirmWorker)
			requests.POST("/:id/workers/:worker_id/cancel", r.requestHandler.CancelWorker)
			requests.POST("/:id/workers/:worker_id/no-show", r.requestHandler.NoShow)
		}

		api.GET("/farmers/:farmer_id/requests", r.requestHandler.ListFarmerRequests)

		coordinators := api.Group("/coordinators")
		{
			coordinators.POST("", r.coordinatorHandler.Register)
			coordinators.GET("/nearby", r.coordinatorHandler.Nearby)
			coordinators.GET("/:id", r.coordinatorHandler.Get)
			coordinators.PATCH("/:id", r.coordinatorHandler.Update)
			coordinators.POST("/:id/verify", r.coordinatorHandler.Verify)
			coordinators.GET("/:id/stats", r.coordinatorHandler.Stats)
			coordinators.GET("/:id/logs", r.coordinatorHandler.Logs)
			coordinators.GET("/:id/requests", r.requestHandler.ListCoordinatorRequests)
			coordinators.GET("/:id/available-workers", r.requestHandler.GetAvailableWorkers)

			coordinators.GET("/:id/workers", r.workerHandler.List)
			coordinators.POST("/:id/workers", r.workerHandler.Add)
			coordinators.PATCH("/:id/workers/:worker_id", r.workerHandler.Update)
			coordinators.DELETE("/:id/workers/:worker_id", r.workerHandler.Remove)

			if r.eventsHandler != nil {
				coordinators.GET("/:id/events", r.eventsHandler.Stream)
			}
		}

		workers := api.Group("/workers")
		{
			workers.GET("/:worker_id", r.workerHandler.Get)
			workers.GET("/:worker_id/assignments", r.workerHandler.MyAssignments)
			workers.PUT("/:worker_id/availability", r.workerHandler.UpdateMyAvailability)
		}

		api.GET("/logs", r.metaHandler.LogsByEventType)
	}
}
