package handler

import (
	"strings"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/models"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Authenticate resolves the bearer token, if any, into an auth.Actor.
// Requests without a token continue as auth.Anonymous; a bad token is
// refused. Once a user is mirrored locally, the stored role and status win
// over the token claims in both directions, and a restriction cached in redis
// wins over both. Suspensions and reinstatements apply to tokens already
// issued.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.Set(actorKey, auth.Anonymous)
			c.Next()
			return
		}
		if !strings.HasPrefix(header, "Bearer ") {
			h.fail(c, apperr.New(apperr.KindUnauthorized, "missing or invalid token"))
			return
		}

		actor, err := h.Tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			h.fail(c, err)
			return
		}

		ctx := c.Request.Context()
		user := &models.User{ID: actor.UserID, Role: actor.Role, Status: actor.Status}
		if err := h.Store.SaveUserIfNotExists(ctx, user); err != nil {
			h.fail(c, err)
			return
		}
		actor.Role = user.Role
		actor.Status = user.Status

		if restricted, err := h.Store.UserRestriction(ctx, actor.UserID); err != nil {
			h.Logger.Warn("restriction cache unavailable", "user_id", actor.UserID, "error", err.Error())
		} else if restricted != "" {
			actor.Status = restricted
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireAuth refuses anonymous requests.
func (h *Handler) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).Authenticated() {
			h.fail(c, apperr.New(apperr.KindUnauthorized, "authentication required"))
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) auth.Actor {
	if v, ok := c.Get(actorKey); ok {
		if a, ok := v.(auth.Actor); ok {
			return a
		}
	}
	return auth.Anonymous
}
