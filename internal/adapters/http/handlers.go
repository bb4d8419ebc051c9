package http

import (
	"net/http"

	"github.com/dkeye/CodeCurrent/internal/app/orch"
	"github.com/dkeye/CodeCurrent/internal/config"
	"github.com/dkeye/CodeCurrent/internal/core"
	"github.com/dkeye/CodeCurrent/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type handlers struct {
	hub *orch.Orchestrator
	cfg *config.Config
}

func (h *handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"rooms":       len(h.hub.Rooms.List()),
		"connections": h.hub.Registry.Count(),
	})
}

func (h *handlers) listRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.hub.Rooms.List()})
}

type roomView struct {
	core.RoomInfo
	Members []core.MemberDTO `json:"members"`
	Voice   []core.ConnID    `json:"voice"`
}

func (h *handlers) getRoom(c *gin.Context) {
	id := domain.RoomID(c.Param("id"))
	info, ok := h.hub.Rooms.RoomInfo(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, roomView{
		RoomInfo: info,
		Members:  h.hub.Rooms.ListMembers(id),
		Voice:    h.hub.Rooms.VoiceMembers(id),
	})
}

func (h *handlers) getFiles(c *gin.Context) {
	id := domain.RoomID(c.Param("id"))
	files, ok := h.hub.Rooms.Snapshot(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "room not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"roomId": id, "files": files})
}

func (h *handlers) iceServers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"iceServers": h.cfg.WebRTCICEServers()})
}

func (h *handlers) getSession(c *gin.Context) {
	name, _ := sessions.Default(c).Get(sessionDisplayName).(string)
	c.JSON(http.StatusOK, gin.H{
		"displayName": name,
		"clientToken": c.GetString("client_token"),
	})
}

type sessionRequest struct {
	DisplayName string `json:"displayName" binding:"required"`
}

func (h *handlers) setSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := domain.ValidateDisplayName(req.DisplayName); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	name := domain.NormalizeDisplayName(req.DisplayName)

	sess := sessions.Default(c)
	sess.Set(sessionDisplayName, name)
	if err := sess.Save(); err != nil {
		log.Error().Err(err).Str("module", "adapters.http").Msg("session save")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session save failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"displayName": name})
}
