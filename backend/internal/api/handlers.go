package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sentigraph/backend/internal/graph"
	apperrors "sentigraph/backend/pkg/errors"
)

// IngestRequest is the body of POST /graph/ingest
type IngestRequest struct {
	Items []graph.PostAnalysis `json:"items" binding:"required"`
	// Replace clears the graph before applying items; defaults to true
	Replace *bool `json:"replace"`
}

// IngestResponse reports what one ingestion applied
type IngestResponse struct {
	*graph.IngestResult
	Status string `json:"status"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"graph": gin.H{
			"available": s.graphs.Ready(),
			"backend":   s.graphs.Backend(),
		},
	})
}

func (s *Server) ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	replace := true
	if req.Replace != nil {
		replace = *req.Replace
	}

	svc, ok := s.service(c)
	if !ok {
		return
	}
	result, err := svc.Ingest(c.Request.Context(), req.Items, graph.ModeFor(replace))
	if err != nil {
		s.fail(c, "Failed to ingest batch", err)
		return
	}

	c.JSON(http.StatusOK, IngestResponse{IngestResult: result, Status: "ingested"})
}

func (s *Server) snapshot(c *gin.Context) {
	svc, ok := s.service(c)
	if !ok {
		return
	}
	resp, err := svc.Snapshot(c.Request.Context())
	if err != nil {
		s.fail(c, "Failed to fetch graph", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) node(c *gin.Context) {
	id := c.Param("id")
	svc, ok := s.service(c)
	if !ok {
		return
	}
	node, err := svc.Node(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "Failed to fetch node", err)
		return
	}
	if node == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Node not found", "id": id})
		return
	}
	c.JSON(http.StatusOK, node)
}

func (s *Server) neighbors(c *gin.Context) {
	id := c.Param("id")
	svc, ok := s.service(c)
	if !ok {
		return
	}
	hood, err := svc.Neighbors(c.Request.Context(), id)
	if err != nil {
		s.fail(c, "Failed to fetch neighbors", err)
		return
	}
	if hood == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Node not found", "id": id})
		return
	}
	c.JSON(http.StatusOK, hood)
}

// service fetches the graph service, answering 503 while the graph is unavailable
func (s *Server) service(c *gin.Context) (*graph.Service, bool) {
	svc, err := s.graphs.Service(c.Request.Context())
	if err != nil {
		s.fail(c, "Graph unavailable", err)
		return nil, false
	}
	return svc, true
}

func (s *Server) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	if status >= 500 {
		s.log.Error(msg,
			zap.String("request_id", c.GetString(requestIDKey)),
			zap.Error(err),
		)
	}

	body := gin.H{"error": msg}
	if status < 500 {
		body["detail"] = err.Error()
	}
	c.JSON(status, body)
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeValidation):
		return http.StatusBadRequest
	case apperrors.IsRetryable(err), errors.Is(err, graph.ErrStoreClosed):
		return http.StatusServiceUnavailable
	case apperrors.IsErrorType(err, apperrors.ErrorTypeContext):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
