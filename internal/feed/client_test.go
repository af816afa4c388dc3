package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// mockFeedServer creates a test WebSocket server.
func mockFeedServer(t *testing.T, handler func(*websocket.Conn)) *httptest.Server {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func testClientConfig(url string) ClientConfig {
	cfg := DefaultClientConfig()
	cfg.URL = url
	cfg.BufferSize = 100
	return cfg
}

func TestClientConnectClose(t *testing.T) {
	server := mockFeedServer(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect")
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close")
	}
}

func TestClientSendSubscribe(t *testing.T) {
	received := make(chan []byte, 1)
	server := mockFeedServer(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		received <- msg
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	if err := client.Send(SubscribeDepth("BTC-PERPETUAL@DERIBIT")); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	select {
	case msg := <-received:
		var cmd Command
		if err := json.Unmarshal(msg, &cmd); err != nil {
			t.Fatalf("server received invalid JSON: %v", err)
		}
		if cmd.Message.MarketDepth == nil || cmd.Message.MarketDepth.Symbol != "BTC-PERPETUAL@DERIBIT" {
			t.Errorf("server received %s, want MarketDepth subscribe", msg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not receive the subscribe command")
	}
}

func TestClientReceivesMessages(t *testing.T) {
	payload := `{"MarketDepth":{"Symbol":"X","IsUpdate":true,"Bids":[],"Asks":[]}}`
	server := mockFeedServer(t, func(conn *websocket.Conn) {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
			return
		}
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	client := NewClient(testClientConfig(wsURL(server)), nil)
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect failed: %v", err)
	}
	defer client.Close()

	select {
	case msg := <-client.Messages():
		if string(msg.Data) != payload {
			t.Errorf("received %s, want %s", msg.Data, payload)
		}
		if msg.ReceivedAt.IsZero() {
			t.Error("ReceivedAt not stamped")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no message received")
	}
}

func TestClientSendWhenNotConnected(t *testing.T) {
	client := NewClient(testClientConfig("ws://localhost:1"), nil)
	if err := client.Send(RequestSymbols()); err != ErrNotConnected {
		t.Errorf("Send = %v, want ErrNotConnected", err)
	}
}

func TestClientConnectAfterClose(t *testing.T) {
	client := NewClient(testClientConfig("ws://localhost:1"), nil)
	if err := client.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := client.Connect(context.Background()); err != ErrAlreadyClosed {
		t.Errorf("Connect after Close = %v, want ErrAlreadyClosed", err)
	}
}
