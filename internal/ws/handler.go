package ws

import (
	"log"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"mechhub/internal/auth"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from a different origin than the API host.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Handler upgrades authenticated requests to WebSocket sessions.
type Handler struct {
	hub        *Hub
	jwtService *auth.JWTService
}

// NewHandler creates a new WebSocket handler.
func NewHandler(hub *Hub, jwtService *auth.JWTService) *Handler {
	return &Handler{hub: hub, jwtService: jwtService}
}

// Serve handles a WebSocket connection request. The session credential comes
// from the token query parameter or the Authorization header; one connection
// per session, destinations selected with subscribe frames.
func (h *Handler) Serve(c echo.Context) error {
	tokenStr := c.QueryParam("token")
	if tokenStr == "" {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
		}
	}

	if tokenStr == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
	}

	claims, err := h.jwtService.ValidateToken(tokenStr)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Printf("ws: upgrade error: %v", err)
		return nil
	}

	client := &Client{
		ID:     uuid.New().String(),
		UserID: claims.UserID,
		Send:   make(chan []byte, 256),
		Hub:    h.hub,
	}

	wsConn := NewConnection(conn, client)
	client.Conn = wsConn

	h.hub.register <- client

	welcome := &Envelope{
		Destination: DestinationSystem,
		Type:        EventTypeConnected,
		Payload: map[string]interface{}{
			"client_id": client.ID,
			"user_id":   client.UserID,
		},
	}
	client.Send <- welcome.ToJSON()

	go wsConn.WritePump()
	go wsConn.ReadPump()

	return nil
}
