package web

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/vertere-lang/vertere/compiler/codegen"
	"github.com/vertere-lang/vertere/internal/diag"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type wsClient struct {
	conn *websocket.Conn
	send chan compileResponse
	hub  *Hub
}

// handleWebsocket upgrades the connection and streams a fresh
// compileResponse for every edit message the client sends, so an editor
// can show live diagnostics without a round trip per keystroke over
// plain HTTP.
func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &wsClient{conn: conn, send: make(chan compileResponse, 16), hub: s.hub}
	s.hub.register <- client

	go client.writePump()
	s.readPump(client)
}

func (s *Server) readPump(c *wsClient) {
	defer func() {
		s.hub.unregister <- c
		c.conn.Close()
	}()
	for {
		var req compileRequest
		if err := c.conn.ReadJSON(&req); err != nil {
			return
		}
		target := codegen.TargetName(req.Target)
		program, diags := diag.Compile(req.Source, "playground")
		if diag.HasErrors(diags) {
			c.send <- compileResponse{Diagnostics: toDTOs(diags)}
			continue
		}
		result, err := codegen.Generate(program, target)
		if err != nil {
			c.send <- compileResponse{Diagnostics: toDTOs(diags)}
			continue
		}
		c.send <- compileResponse{Code: result.Code, Diagnostics: toDTOs(diags)}
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case resp, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			b, err := json.Marshal(resp)
			if err != nil {
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
