package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/cafe-pos/internal/presentation/http/middleware"
	"github.com/sangkips/cafe-pos/pkg/realtime"
)

// WSHandler upgrades POS terminals to the realtime event stream
type WSHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

// NewWSHandler creates a websocket handler. Origins are checked by the CORS
// allow list; an empty list accepts any origin.
func NewWSHandler(hub *realtime.Hub, allowedOrigins []string) *WSHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return &WSHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin] || allowed["*"]
			},
		},
	}
}

// Serve blocks for the lifetime of the connection
func (h *WSHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("Websocket upgrade failed")
		return
	}

	role := c.GetString(middleware.ContextUserRole)
	log.Debug().Str("role", role).Int("clients", h.hub.Count()+1).Msg("Terminal connected")
	h.hub.Serve(conn, role)
}
