package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"laundry-cycle-backend/internal/auth"
)

const actorKey = "actor"

// Actor resolves the staff member behind each request and rejects requests
// without a valid session.
func Actor(resolver auth.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := resolver.CurrentActor(c.Request)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		c.Set(actorKey, actor)
		c.Request = c.Request.WithContext(auth.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

// CurrentActor returns the actor set by the Actor middleware.
func CurrentActor(c *gin.Context) *auth.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(*auth.Actor); ok {
			return a
		}
	}
	a := auth.Anonymous
	return &a
}
