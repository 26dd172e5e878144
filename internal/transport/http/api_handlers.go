package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/coderoom/coderoom-server/internal/core"
	"github.com/coderoom/coderoom-server/internal/executor"
)

// APIHandlers provides HTTP handlers for REST API endpoints.
type APIHandlers struct {
	hub      *core.Hub
	registry *executor.Registry
	log      *zerolog.Logger
}

// NewAPIHandlers creates a new API handlers instance.
func NewAPIHandlers(hub *core.Hub, registry *executor.Registry, logger *zerolog.Logger) *APIHandlers {
	return &APIHandlers{
		hub:      hub,
		registry: registry,
		log:      logger,
	}
}

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// LanguagesResponse lists the languages the server can execute.
type LanguagesResponse struct {
	Languages []string `json:"languages"`
}

// RoomResponse is a point-in-time view of one room.
type RoomResponse struct {
	Name     string     `json:"name"`
	Code     string     `json:"code"`
	Language string     `json:"language"`
	Users    []RoomUser `json:"users"`
}

// RoomUser mirrors the presence payload of the WebSocket channel.
type RoomUser struct {
	ID     string `json:"id"`
	Online bool   `json:"online"`
}

// Languages returns the supported language identifiers.
// GET /api/languages
func (h *APIHandlers) Languages(c *gin.Context) {
	c.JSON(http.StatusOK, LanguagesResponse{Languages: h.registry.Languages()})
}

// RoomSnapshot returns the current state of one room.
// GET /api/rooms/:id
func (h *APIHandlers) RoomSnapshot(c *gin.Context) {
	id := c.Param("id")
	snap, ok := h.hub.Snapshot(id)
	if !ok {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "room not found"})
		return
	}

	users := make([]RoomUser, 0, len(snap.Users))
	for _, u := range snap.Users {
		users = append(users, RoomUser{ID: u.ID, Online: u.Online})
	}
	c.JSON(http.StatusOK, RoomResponse{
		Name:     snap.Name,
		Code:     snap.Code,
		Language: snap.Language,
		Users:    users,
	})
}
