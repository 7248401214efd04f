package server

import (
	"context"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"go.uber.org/zap"
)

// watchWriteTimeout bounds a single statistics push to a client.
const watchWriteTimeout = 5 * time.Second

// handleWatch upgrades to a websocket and pushes the global statistics
// after every completed refresh, starting with the current snapshot. The
// stream ends when the client disconnects.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket accept failed", zap.Error(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	ctx := r.Context()
	updates, unsubscribe := s.engine.Subscribe()
	defer unsubscribe()

	send := func(v any) error {
		writeCtx, cancel := context.WithTimeout(ctx, watchWriteTimeout)
		defer cancel()
		return wsjson.Write(writeCtx, conn, v)
	}

	// Current state first, then refresh-driven updates.
	if err := send(s.engine.GlobalStatistics()); err != nil {
		return
	}

	for {
		select {
		case stats, ok := <-updates:
			if !ok {
				return
			}
			if err := send(stats); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}
