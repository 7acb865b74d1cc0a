package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/craftvoice/relay/internal/app"
	"github.com/craftvoice/relay/internal/domain"
)

type roomStats struct {
	Code          domain.RoomCode  `json:"code"`
	Players       int              `json:"players"`
	BannedPlayers []domain.GameTag `json:"bannedPlayers"`
	Created       time.Time        `json:"created"`
	LastActivity  time.Time        `json:"lastActivity"`
	MaxPlayers    int              `json:"maxPlayers"`
	IsClosed      bool             `json:"isClosed"`
}

// statsHandler is a read-only surface: room count, per-room membership
// count, and ban lists.
func statsHandler(relay *app.Relay) gin.HandlerFunc {
	return func(c *gin.Context) {
		rooms := relay.Store.List()
		out := make([]roomStats, 0, len(rooms))
		for _, r := range rooms {
			out = append(out, roomStats{
				Code:          r.Code(),
				Players:       r.MemberCount(),
				BannedPlayers: r.BannedSnapshot(),
				Created:       r.Created(),
				LastActivity:  r.LastActivity(),
				MaxPlayers:    r.Settings().MaxPlayers,
				IsClosed:      r.IsClosed(),
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"totalRooms":   len(rooms),
			"totalClients": relay.Registry.Len(),
			"rooms":        out,
		})
	}
}
