package http

import (
	"fmt"
	"net/http"

	"github.com/dkeye/WatchParty/internal/app/orch"
	"github.com/dkeye/WatchParty/internal/config"
	"github.com/dkeye/WatchParty/internal/domain"
	"github.com/gin-gonic/gin"
)

const maxHistoryPage = 200

type historyQuery struct {
	Limit int `form:"limit" binding:"min=1"`
}

type RoomHandlers struct {
	Orch *orch.Orchestrator
	Sync config.SyncConfig
}

func statusOf(err error) int {
	switch domain.CodeOf(err) {
	case domain.CodeNotFound:
		return http.StatusNotFound
	case domain.CodeInvalidInput, domain.CodeVideoRefInvalid:
		return http.StatusBadRequest
	case domain.CodeForbidden:
		return http.StatusForbidden
	case domain.CodeRoomFull:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func abortWith(c *gin.Context, err error) {
	c.JSON(statusOf(err), gin.H{"code": domain.CodeOf(err), "error": err.Error()})
}

func (h *RoomHandlers) ListRooms(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rooms": h.Orch.Rooms()})
}

func (h *RoomHandlers) GetRoom(c *gin.Context) {
	room, err := h.Orch.Room(domain.NormalizeRoomID(c.Param("id")))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (h *RoomHandlers) ListMessages(c *gin.Context) {
	q := historyQuery{Limit: 50}
	if err := c.ShouldBindQuery(&q); err != nil {
		abortWith(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	msgs, err := h.Orch.History(domain.NormalizeRoomID(c.Param("id")), min(q.Limit, maxHistoryPage))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

func (h *RoomHandlers) Resolve(c *gin.Context) {
	id, err := h.Orch.Resolver.Resolve(c.Query("ref"))
	if err != nil {
		abortWith(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"video_id": id})
}

// SyncSettings tells clients how to converge on the room clock.
func (h *RoomHandlers) SyncSettings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"tolerance_ms":    h.Sync.Tolerance.Milliseconds(),
		"min_interval_ms": h.Sync.MinInterval.Milliseconds(),
		"echo_window_ms":  h.Sync.EchoWindow.Milliseconds(),
	})
}
