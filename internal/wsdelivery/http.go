// Package wsdelivery manages the websocket endpoint feeding refresh hints
// to connected clients.
package wsdelivery

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ceobank/ceo-bank/internal/notifier"
	"github.com/ceobank/ceo-bank/pkg/tokenpkg"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const registerDeadline = 30 * time.Second

// Registry is the connection registry the endpoint feeds.
type Registry interface {
	Register(accountID int32, conn notifier.Conn)
	Unregister(accountID int32, conn notifier.Conn)
}

// Handler upgrades http requests and runs the register handshake.
type Handler struct {
	registry   Registry
	tokenMaker tokenpkg.Maker
	upgrader   websocket.Upgrader
}

// NewHandler returns websocket handler.
func NewHandler(registry Registry, tokenMaker tokenpkg.Maker) Handler {
	return Handler{
		registry:   registry,
		tokenMaker: tokenMaker,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

type registerMessage struct {
	Type    string `json:"type"`
	Payload struct {
		Token string `json:"token"`
	} `json:"payload"`
}

// Serve handles http request to open a notification channel. The connection
// starts anonymous; the client must send a register message with a valid
// bearer credential before it is attached to an account slot. Anything else
// terminates the connection.
func (h *Handler) Serve(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	conn, err := h.upgrader.Upgrade(gctx.Writer, gctx.Request, nil)
	if err != nil {
		l.Info().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	accountID, ok := h.awaitRegister(conn, l)
	if !ok {
		return
	}

	h.registry.Register(accountID, conn)
	defer h.registry.Unregister(accountID, conn)

	l.Info().Int32("account_id", accountID).Msg("websocket registered")

	// Drain incoming frames until the peer goes away. Clients only ever
	// send the register message, so everything after it is discarded.
	conn.SetReadDeadline(time.Time{})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) awaitRegister(conn *websocket.Conn, l *zerolog.Logger) (int32, bool) {
	conn.SetReadDeadline(time.Now().Add(registerDeadline))

	_, raw, err := conn.ReadMessage()
	if err != nil {
		return 0, false
	}

	var msg registerMessage
	if err := json.Unmarshal(raw, &msg); err != nil || msg.Type != "register" {
		l.Info().Msg("websocket register message malformed")
		return 0, false
	}

	payload, err := h.tokenMaker.VerifyToken(msg.Payload.Token)
	if err != nil {
		l.Info().Err(err).Msg("websocket register token rejected")
		return 0, false
	}

	return payload.AccountID, true
}
