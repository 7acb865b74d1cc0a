package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/craftvoice/relay/internal/adapters/signal"
	"github.com/craftvoice/relay/internal/domain"
)

// positionHandler ingests positions from the in-game addon, which has
// no websocket of its own. The player is located by tag across all
// rooms; a hit updates the session and re-broadcasts like a normal
// position_update.
func positionHandler(ctl *signal.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		var p struct {
			GameTag   string           `json:"gameTag"`
			Position  domain.Position  `json:"position"`
			Dimension domain.Dimension `json:"dimension"`
			Timestamp int64            `json:"timestamp"`
		}
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
			return
		}

		tag := domain.GameTag(p.GameTag)
		room, ok := ctl.Relay.UpdatePositionByTag(tag, p.Position, p.Dimension)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found in any room"})
			return
		}
		ctl.BroadcastPosition(room, tag, p.Position, p.Dimension)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Position updated"})
	}
}

// addonCommandHandler accepts opaque commands destined for the addon.
// The relay never interprets them.
func addonCommandHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var p struct {
			Command string         `json:"command"`
			GameTag string         `json:"gameTag"`
			Data    map[string]any `json:"data"`
		}
		if err := c.ShouldBindJSON(&p); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad payload"})
			return
		}
		log.Info().Str("module", "adapters.addon").Str("tag", p.GameTag).Str("command", p.Command).Interface("data", p.Data).Msg("addon command")
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Command sent to addon"})
	}
}

// LogBridge is the default outbound addon channel: it records commands
// until a real delivery path to the addon exists.
type LogBridge struct{}

func (LogBridge) SendCommand(tag domain.GameTag, command string, data map[string]any) {
	log.Info().Str("module", "adapters.addon").Str("tag", string(tag)).Str("command", command).Interface("data", data).Msg("addon command out")
}
