package controller

import (
	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/imperiopizzas/imperio-backend/internal/middleware"
	ws "github.com/imperiopizzas/imperio-backend/internal/websocket"
)

type WebSocketController struct {
	hub      *ws.Hub
	upgrader gorillaws.Upgrader
}

func NewWebSocketController(hub *ws.Hub, allowedOrigins []string) *WebSocketController {
	return &WebSocketController{
		hub:      hub,
		upgrader: ws.NewUpgrader(allowedOrigins),
	}
}

// SubscribeOrder streams status changes of one order to its status page
// GET /api/ws/orders/:id
func (ctrl *WebSocketController) SubscribeOrder(c *gin.Context) {
	ctrl.subscribe(c, ws.OrderRoom(c.Param("id")))
}

// SubscribeAdmin streams every order event to the staff dashboard
// GET /api/ws/admin
func (ctrl *WebSocketController) SubscribeAdmin(c *gin.Context) {
	ctrl.subscribe(c, ws.AdminRoom)
}

func (ctrl *WebSocketController) subscribe(c *gin.Context, room string) {
	log := middleware.GetLoggerFromContext(c)

	if _, err := ctrl.hub.Subscribe(&ctrl.upgrader, c.Writer, c.Request, room); err != nil {
		// The upgrader has already written the HTTP error.
		log.Warn("Failed to upgrade to WebSocket", map[string]interface{}{
			"room":  room,
			"error": err.Error(),
		})
		return
	}

	log.Info("WebSocket connection established", map[string]interface{}{
		"room": room,
	})
}
