package gateway

import (
	"net/http"
	"net/url"

	"github.com/coder/websocket"
)

// handleWebSocket is the HTTP handler for GET /ws. Each text frame is one
// message and is answered by one text frame. The session is taken from
// the session_id query parameter.
func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: originHosts(g.config.CORSOrigins),
	})
	if err != nil {
		g.logger.Warn("websocket accept failed", "error", err)
		return
	}
	defer func() {
		_ = conn.Close(websocket.StatusInternalError, "unexpected close")
	}()
	conn.SetReadLimit(g.config.MaxBodyBytes)

	ctx := r.Context()
	sessionID := g.sessionID(r.URL.Query().Get("session_id"))
	g.logger.Debug("websocket connected", "session_id", sessionID)

	for {
		typ, data, err := conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				g.logger.Debug("websocket read ended", "error", err)
			}
			return
		}
		if typ != websocket.MessageText {
			_ = conn.Close(websocket.StatusUnsupportedData, "text frames only")
			return
		}

		reply, _ := g.answer(ctx, sessionID, string(data))
		if err := conn.Write(ctx, websocket.MessageText, []byte(reply)); err != nil {
			g.logger.Warn("websocket write failed", "error", err)
			return
		}
	}
}

// originHosts turns CORS origins into the host patterns websocket.Accept
// matches the Origin header against.
func originHosts(origins []string) []string {
	hosts := make([]string, 0, len(origins))
	for _, o := range origins {
		if o == "*" {
			hosts = append(hosts, "*")
			continue
		}
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			hosts = append(hosts, u.Host)
		}
	}
	return hosts
}
