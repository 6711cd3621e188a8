package handlers

import (
	"net/http"
	gosync "sync"
	"time"

	"chansync/internal/auth"
	"chansync/internal/sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// SyncEventsHandler streams sync lifecycle events to connected operator
// clients over WebSocket, fanned out per tenant. It implements
// sync.EventPublisher so the orchestrator can push directly into it.
type SyncEventsHandler struct {
	authService *auth.Service
	upgrader    websocket.Upgrader

	mu      gosync.RWMutex
	clients map[uuid.UUID]map[*websocket.Conn]bool
}

func NewSyncEventsHandler(authService *auth.Service) *SyncEventsHandler {
	return &SyncEventsHandler{
		authService: authService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[uuid.UUID]map[*websocket.Conn]bool),
	}
}

// Subscribe godoc
// @Summary Subscribe to sync events
// @Description WebSocket endpoint streaming sync status updates for the caller's tenant
// @Tags events
// @Param token query string true "Access token"
// @Router /ws/sync-events [get]
func (h *SyncEventsHandler) Subscribe(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "token is required"})
	}

	claims, err := h.authService.ValidateToken(token)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid token"})
	}
	if claims.TenantID == nil {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "token is not bound to a tenant"})
	}
	tenantID := *claims.TenantID

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return err
	}

	h.register(tenantID, conn)
	log.Debug().Str("tenant_id", tenantID.String()).Msg("sync events client connected")

	defer func() {
		h.unregister(tenantID, conn)
		conn.Close()
		log.Debug().Str("tenant_id", tenantID.String()).Msg("sync events client disconnected")
	}()

	// Reads are only used to detect the client going away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}

// PublishSyncEvent implements sync.EventPublisher
func (h *SyncEventsHandler) PublishSyncEvent(tenantID uuid.UUID, event sync.Event) {
	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.clients[tenantID]))
	for conn := range h.clients[tenantID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	for _, conn := range conns {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(event); err != nil {
			h.unregister(tenantID, conn)
			conn.Close()
		}
	}
}

func (h *SyncEventsHandler) register(tenantID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[tenantID] == nil {
		h.clients[tenantID] = make(map[*websocket.Conn]bool)
	}
	h.clients[tenantID][conn] = true
}

func (h *SyncEventsHandler) unregister(tenantID uuid.UUID, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.clients[tenantID], conn)
	if len(h.clients[tenantID]) == 0 {
		delete(h.clients, tenantID)
	}
}
