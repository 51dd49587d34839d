package middleware

import (
	"net/http"

	"labourhub/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	HeaderActorType = "X-Actor-Type"
	HeaderActorID   = "X-Actor-Id"

	actorContextKey = "labourhub.actor"
)

// Actor resolves the caller identity from headers. Requests without headers
// carry no actor; handlers that mutate state reject them.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		typ := c.GetHeader(HeaderActorType)
		id := c.GetHeader(HeaderActorID)
		if typ == "" && id == "" {
			c.Next()
			return
		}

		actor := model.Actor{Type: model.ActorType(typ), ID: id}
		switch actor.Type {
		case model.ActorSystem:
		case model.ActorFarmer, model.ActorCoordinator, model.ActorWorker:
			if id == "" {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error": HeaderActorID + " is required for actor type " + typ,
					"code":  string(model.CodeValidation),
				})
				return
			}
		default:
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"error": "unknown actor type " + typ,
				"code":  string(model.CodeValidation),
			})
			return
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// ActorFrom returns the actor resolved by Actor
func ActorFrom(c *gin.Context) (model.Actor, bool) {
	v, ok := c.Get(actorContextKey)
	if !ok {
		return model.Actor{}, false
	}
	actor, ok := v.(model.Actor)
	return actor, ok
}
