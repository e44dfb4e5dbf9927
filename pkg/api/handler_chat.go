package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/B3rK-3/ViewNJIT/pkg/catalog"
	"github.com/B3rK-3/ViewNJIT/pkg/orchestrator"
)

// chatHandler handles POST /chat: it validates the request, then streams
// newline-delimited {type, content} JSON objects until the model turn
// completes or the client disconnects. Requests to the same session are
// expected to be serialized by the client; concurrent writes are
// last-writer-wins on the session keys.
func (s *Server) chatHandler(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}
	if req.SessionID == "" {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: "sessionID is required"})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: "query is required"})
		return
	}
	if !catalog.IsValidTerm(req.Term) {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: "term is not a valid term code"})
		return
	}

	attachments, err := orchestrator.DecodeAttachments(req.Attachments)
	if err != nil {
		c.JSON(http.StatusBadRequest, &ErrorResponse{Error: err.Error()})
		return
	}

	c.Header("Content-Type", "application/x-ndjson")
	c.Header("Cache-Control", "no-cache")
	c.Writer.WriteHeader(http.StatusOK)
	c.Writer.Flush()

	emit := func(frame orchestrator.Frame) error {
		line, err := json.Marshal(frame)
		if err != nil {
			return err
		}
		if _, err := c.Writer.Write(append(line, '\n')); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	err = s.orch.RunTurn(c.Request.Context(), orchestrator.TurnInput{
		SessionID:   req.SessionID,
		Query:       req.Query,
		Term:        req.Term,
		Attachments: attachments,
	}, emit)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			slog.Debug("Chat stream cancelled by client", "session_id", req.SessionID)
			return
		}
		slog.Error("Chat turn failed", "session_id", req.SessionID, "error", err)
		// Headers are already sent; surface the failure in-band.
		_ = emit(orchestrator.Frame{
			Type:    orchestrator.FrameText,
			Content: "Something went wrong while answering; please try again.",
		})
	}
}
