package handler

import (
	"errors"
	"io"
	"net/http"

	"casewatch/backend/internal/apperr"

	"github.com/gin-gonic/gin"
)

var statusByKind = map[apperr.Kind]int{
	apperr.KindValidation:       http.StatusBadRequest,
	apperr.KindMissingReference: http.StatusBadRequest,
	apperr.KindAbusiveContent:   http.StatusBadRequest,
	apperr.KindGuiltDeclaration: http.StatusBadRequest,
	apperr.KindUnauthorized:     http.StatusUnauthorized,
	apperr.KindForbidden:        http.StatusForbidden,
	apperr.KindNotFound:         http.StatusNotFound,
	apperr.KindConflict:         http.StatusConflict,
	apperr.KindStorage:          http.StatusInternalServerError,
}

// HTTPStatus maps an error kind to its response status.
func HTTPStatus(kind apperr.Kind) int {
	if code, ok := statusByKind[kind]; ok {
		return code
	}
	return http.StatusInternalServerError
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "data": data})
}

func created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, gin.H{"ok": true, "data": data})
}

// fail writes the error envelope and aborts the chain.
func (h *Handler) fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	status := HTTPStatus(kind)
	if status >= http.StatusInternalServerError {
		h.Logger.Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err.Error(),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{
		"ok": false,
		"error": gin.H{
			"code":    kind,
			"message": apperr.Message(err),
		},
	})
}

// bindJSON decodes an optional JSON body. An empty body leaves req zero.
func bindJSON(c *gin.Context, req any) error {
	if err := c.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		return apperr.Wrap(err, apperr.KindValidation, "malformed request body")
	}
	return nil
}
