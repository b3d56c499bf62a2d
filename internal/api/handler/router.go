package handler

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// CORSMiddleware allows the configured front-end origins.
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins:  origins,
		AllowMethods:  []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Authorization", "Content-Type"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
	}
	return cors.New(cfg)
}

// Routes registers every endpoint on r.
func (h *Handler) Routes(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "status": "up"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/", h.Authenticate())

	caseRoutes := api.Group("/cases")
	caseRoutes.GET("", h.ListCases)
	caseRoutes.GET("/trending", h.TrendingCases)
	caseRoutes.GET("/:id", h.GetCase)
	caseRoutes.POST("", h.RequireAuth(), h.CreateCase)
	caseRoutes.PATCH("/:id/status", h.RequireAuth(), h.UpdateCaseStatus)
	caseRoutes.POST("/:id/updates", h.RequireAuth(), h.AddCaseUpdate)
	caseRoutes.POST("/:id/lawyer-comments", h.RequireAuth(), h.AddLawyerComment)

	voteRoutes := api.Group("/votes", h.RequireAuth())
	voteRoutes.POST("/:caseId", h.CastVote)
	voteRoutes.DELETE("/:caseId", h.RemoveVote)
	voteRoutes.GET("/:caseId", h.GetUserVote)

	mod := api.Group("/moderation", h.RequireAuth())
	mod.GET("/cases", h.ModerationQueue)
	mod.POST("/cases/:id/approve", h.ApproveCase)
	mod.POST("/cases/:id/reject", h.RejectCase)
	mod.POST("/cases/:id/flag", h.FlagCase)
	mod.POST("/users/:id/suspend", h.SuspendUser)
	mod.POST("/users/:id/ban", h.BanUser)
	mod.POST("/users/:id/unsuspend", h.UnsuspendUser)
	mod.GET("/logs", h.ModerationLogs)

	api.GET("/analytics/dashboard", h.RequireAuth(), h.Dashboard)

	users := api.Group("/users", h.RequireAuth())
	users.GET("", h.ListUsers)
	users.GET("/me", h.Me)
	users.GET("/stats", h.UserStats)
	users.GET("/:id", h.GetUser)
	users.PATCH("/:id/role", h.UpdateUserRole)
}

// NewRouter builds the gin engine with recovery, request logging and CORS.
func NewRouter(h *Handler, corsOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), gin.Logger(), CORSMiddleware(corsOrigins))
	h.Routes(r)
	return r
}
