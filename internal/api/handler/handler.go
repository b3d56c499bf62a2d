// Package handler exposes the case workflow over HTTP with gin.
package handler

import (
	"log/slog"

	"casewatch/backend/internal/analytics"
	"casewatch/backend/internal/auth"
	"casewatch/backend/internal/cases"
	"casewatch/backend/internal/moderation"
	"casewatch/backend/internal/storage"
	"casewatch/backend/internal/votes"
)

// Handler holds the services the routes call into.
type Handler struct {
	Cases      *cases.Service
	Votes      *votes.Ledger
	Moderation *moderation.Service
	Analytics  *analytics.Service
	Store      storage.Storage
	Tokens     *auth.TokenCodec
	Logger     *slog.Logger
}

func NewHandler(store storage.Storage, tokens *auth.TokenCodec, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Cases:      cases.NewService(store, logger),
		Votes:      votes.NewLedger(store, logger),
		Moderation: moderation.NewService(store, logger),
		Analytics:  analytics.NewService(store),
		Store:      store,
		Tokens:     tokens,
		Logger:     logger.With("module", "http"),
	}
}
