package handler

import (
	"casewatch/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

type pageRequest struct {
	Status string `form:"status"`
	Page   int    `form:"page" binding:"omitempty,min=1"`
	Limit  int    `form:"limit" binding:"omitempty,min=1"`
}

// ModerationQueue handles GET /moderation/cases
func (h *Handler) ModerationQueue(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, apperr.Wrap(err, apperr.KindValidation, "invalid query parameters"))
		return
	}
	page, err := h.Cases.Queue(c.Request.Context(), actorFrom(c), req.Status, req.Page, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, page)
}

// ApproveCase handles POST /moderation/cases/:id/approve
func (h *Handler) ApproveCase(c *gin.Context) {
	updated, err := h.Cases.Approve(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, updated)
}

// RejectCase handles POST /moderation/cases/:id/reject
func (h *Handler) RejectCase(c *gin.Context) {
	var req reasonRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	updated, err := h.Cases.Reject(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, updated)
}

// FlagCase handles POST /moderation/cases/:id/flag
func (h *Handler) FlagCase(c *gin.Context) {
	var req reasonRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	updated, err := h.Cases.Flag(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, updated)
}

// SuspendUser handles POST /moderation/users/:id/suspend
func (h *Handler) SuspendUser(c *gin.Context) {
	var req reasonRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.Moderation.SuspendUser(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, user)
}

// BanUser handles POST /moderation/users/:id/ban
func (h *Handler) BanUser(c *gin.Context) {
	var req reasonRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.Moderation.BanUser(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, user)
}

// UnsuspendUser handles POST /moderation/users/:id/unsuspend
func (h *Handler) UnsuspendUser(c *gin.Context) {
	var req reasonRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.Moderation.UnsuspendUser(c.Request.Context(), actorFrom(c), c.Param("id"), req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, user)
}

// ModerationLogs handles GET /moderation/logs
func (h *Handler) ModerationLogs(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, apperr.Wrap(err, apperr.KindValidation, "invalid query parameters"))
		return
	}
	page, err := h.Moderation.Logs(c.Request.Context(), actorFrom(c), req.Page, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, page)
}

// Dashboard handles GET /analytics/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	d, err := h.Analytics.Dashboard(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, d)
}

// Me handles GET /users/me
func (h *Handler) Me(c *gin.Context) {
	actor := actorFrom(c)
	user, err := h.Store.GetUserByID(c.Request.Context(), actor.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, user)
}

type roleRequest struct {
	Role string `json:"role"`
}

// ListUsers handles GET /users
func (h *Handler) ListUsers(c *gin.Context) {
	var req pageRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, apperr.Wrap(err, apperr.KindValidation, "invalid query parameters"))
		return
	}
	page, err := h.Moderation.ListUsers(c.Request.Context(), actorFrom(c), req.Page, req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, page)
}

// GetUser handles GET /users/:id
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.Moderation.GetUser(c.Request.Context(), actorFrom(c), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, user)
}

// UserStats handles GET /users/stats
func (h *Handler) UserStats(c *gin.Context) {
	stats, err := h.Moderation.Stats(c.Request.Context(), actorFrom(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, stats)
}

// UpdateUserRole handles PATCH /users/:id/role
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req roleRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	user, err := h.Moderation.UpdateRole(c.Request.Context(), actorFrom(c), c.Param("id"), req.Role)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, user)
}
