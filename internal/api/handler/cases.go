package handler

import (
	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/cases"

	"github.com/gin-gonic/gin"
)

type listCasesRequest struct {
	Status   string `form:"status"`
	Category string `form:"category"`
	Location string `form:"location"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	Limit    int    `form:"limit" binding:"omitempty,min=1"`
}

type statusRequest struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type commentRequest struct {
	Explanation string `json:"explanation"`
}

// ListCases handles GET /cases
func (h *Handler) ListCases(c *gin.Context) {
	var req listCasesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, apperr.Wrap(err, apperr.KindValidation, "invalid query parameters"))
		return
	}
	page, err := h.Cases.List(c.Request.Context(), actorFrom(c), cases.ListQuery{
		Status:   req.Status,
		Category: req.Category,
		Location: req.Location,
		Search:   req.Search,
		Page:     req.Page,
		Limit:    req.Limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, page)
}

// TrendingCases handles GET /cases/trending
func (h *Handler) TrendingCases(c *gin.Context) {
	var req struct {
		Limit int `form:"limit" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindQuery(&req); err != nil {
		h.fail(c, apperr.Wrap(err, apperr.KindValidation, "invalid query parameters"))
		return
	}
	items, err := h.Cases.Trending(c.Request.Context(), req.Limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, items)
}

// GetCase handles GET /cases/:id
func (h *Handler) GetCase(c *gin.Context) {
	detail, err := h.Cases.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, detail)
}

// CreateCase handles POST /cases
func (h *Handler) CreateCase(c *gin.Context) {
	var in cases.CreateInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	newCase, err := h.Cases.Create(c.Request.Context(), actorFrom(c), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, newCase)
}

// UpdateCaseStatus handles PATCH /cases/:id/status
func (h *Handler) UpdateCaseStatus(c *gin.Context) {
	var req statusRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	updated, err := h.Cases.UpdateStatus(c.Request.Context(), actorFrom(c), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, updated)
}

// AddCaseUpdate handles POST /cases/:id/updates
func (h *Handler) AddCaseUpdate(c *gin.Context) {
	var in cases.UpdateInput
	if err := bindJSON(c, &in); err != nil {
		h.fail(c, err)
		return
	}
	update, err := h.Cases.AddUpdate(c.Request.Context(), actorFrom(c), c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, update)
}

// AddLawyerComment handles POST /cases/:id/lawyer-comments
func (h *Handler) AddLawyerComment(c *gin.Context) {
	var req commentRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	comment, err := h.Cases.AddLawyerComment(c.Request.Context(), actorFrom(c), c.Param("id"), req.Explanation)
	if err != nil {
		h.fail(c, err)
		return
	}
	created(c, comment)
}
