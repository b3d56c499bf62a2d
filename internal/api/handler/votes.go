package handler

import (
	"github.com/gin-gonic/gin"
)

type voteRequest struct {
	VoteType string `json:"voteType"`
}

// CastVote handles POST /votes/:caseId
func (h *Handler) CastVote(c *gin.Context) {
	var req voteRequest
	if err := bindJSON(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	tally, err := h.Votes.Cast(c.Request.Context(), actorFrom(c), c.Param("caseId"), req.VoteType)
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, tally)
}

// RemoveVote handles DELETE /votes/:caseId
func (h *Handler) RemoveVote(c *gin.Context) {
	tally, err := h.Votes.Remove(c.Request.Context(), actorFrom(c), c.Param("caseId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, tally)
}

// GetUserVote handles GET /votes/:caseId
func (h *Handler) GetUserVote(c *gin.Context) {
	vote, err := h.Votes.UserVote(c.Request.Context(), actorFrom(c), c.Param("caseId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	ok(c, gin.H{"voteType": vote})
}
