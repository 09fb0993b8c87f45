package wsdelivery

import (
	"context"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/ceobank/ceo-bank/internal/domain"
	"github.com/ceobank/ceo-bank/internal/notifier"
	"github.com/ceobank/ceo-bank/pkg/randompkg"
	"github.com/ceobank/ceo-bank/pkg/tokenpkg"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.ReleaseMode)
	os.Exit(m.Run())
}

func newTestServer(t *testing.T) (*notifier.Hub, tokenpkg.Maker, string) {
	t.Helper()

	hub := notifier.NewHub()

	tokenMaker, err := tokenpkg.NewPasetoMaker(randompkg.String(32))
	require.NoError(t, err)

	handler := NewHandler(hub, tokenMaker)

	server := gin.New()
	server.GET("/ws", handler.Serve)

	ts := httptest.NewServer(server)
	t.Cleanup(ts.Close)

	return hub, tokenMaker, "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return conn
}

func register(t *testing.T, conn *websocket.Conn, token string) {
	t.Helper()

	err := conn.WriteJSON(map[string]interface{}{
		"type":    "register",
		"payload": map[string]string{"token": token},
	})
	require.NoError(t, err)
}

func TestRegisteredConnectionReceivesNotifications(t *testing.T) {
	hub, tokenMaker, url := newTestServer(t)

	accountID := randompkg.Int32Between(1, 100)

	token, _, err := tokenMaker.CreateToken(accountID, false, time.Minute)
	require.NoError(t, err)

	conn := dial(t, url)
	register(t, conn, token)

	// Registration races the client write, so keep poking the hub until
	// the slot is attached and the frame comes through.
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			default:
				hub.Notify(context.Background(), domain.FullRefresh, accountID)
				time.Sleep(10 * time.Millisecond)
			}
		}
	}()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var n domain.Notification
	require.NoError(t, conn.ReadJSON(&n))
	require.Equal(t, domain.FullRefresh, n.Type)
}

func TestInvalidTokenTerminatesConnection(t *testing.T) {
	_, _, url := newTestServer(t)

	conn := dial(t, url)
	register(t, conn, "not-a-token")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	_, _, err := conn.ReadMessage()
	require.Error(t, err)
}

func TestMalformedRegisterMessageTerminatesConnection(t *testing.T) {
	_, _, url := newTestServer(t)

	conn := dial(t, url)

	err := conn.WriteJSON(map[string]interface{}{"type": "subscribe"})
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}
