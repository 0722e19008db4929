package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/regdash/regdash/internal/domain"
)

// handlePushStream holds a text/event-stream open for one session and relays
// its events until the session closes or the client goes away.
func (h *Handler) handlePushStream(c echo.Context) error {
	sessionID := c.Param("sessionId")
	if sessionID == "" {
		return sendError(c, http.StatusBadRequest, "sessionId is required")
	}

	// Registered before the headers go out: anything emitted after the client
	// sees the response reaches this stream.
	stream := h.sessions.Subscribe(sessionID)
	defer h.sessions.Unsubscribe(stream)

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, "text/event-stream")
	w.Header().Set(echo.HeaderCacheControl, "no-cache")
	w.Header().Set(echo.HeaderConnection, "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	h.log.Debug("push stream opened", "session", sessionID, "remote_ip", c.RealIP())

	ctx := c.Request().Context()
	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("push stream client disconnected", "session", sessionID)
			return nil

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				h.log.Debug("push stream write failed", "session", sessionID, "error", err)
				return nil
			}
			w.Flush()

		case <-stream.Ready():
			events, open := stream.Drain()
			for _, event := range events {
				if err := writeEvent(w, event); err != nil {
					h.log.Warn("push stream write failed", "session", sessionID, "error", err)
					return nil
				}
			}
			w.Flush()

			if !open {
				h.log.Debug("push stream closed", "session", sessionID)
				return nil
			}
		}
	}
}

func writeEvent(w *echo.Response, event domain.SessionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	_, err = fmt.Fprintf(w, "data: %s\n\n", data)
	return err
}
