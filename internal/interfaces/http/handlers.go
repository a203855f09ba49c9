package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-assistant/internal/auth"
	"github.com/garyjia/invoice-assistant/internal/chat"
	"github.com/garyjia/invoice-assistant/internal/domain/entity"
	"github.com/garyjia/invoice-assistant/internal/export"
	"github.com/garyjia/invoice-assistant/internal/tools"
)

// Client-facing error messages
const (
	msgInvoiceNotFound  = "Invoice not found"
	msgFetchFailed      = "Failed to fetch invoice data"
	msgInternal         = "Internal server error"
	msgAuthURLFailed    = "Failed to generate authorization URL"
	msgExportFailed     = "Failed to export invoices"
	msgInvalidArguments = "Invalid tool arguments"
	msgInvalidJSON      = "Request body must be a JSON object"
)

const (
	callbackErrorPath   = "/error"
	callbackSuccessPath = "/"
	exportDisposition   = `attachment; filename="invoices.xlsx"`
)

// Handlers contains all HTTP request handlers
type Handlers struct {
	deps   Dependencies
	logger *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(deps Dependencies, logger *zap.Logger) *Handlers {
	return &Handlers{
		deps:   deps,
		logger: logger,
	}
}

// ErrorResponse is the JSON error body
type ErrorResponse struct {
	Error  string             `json:"error"`
	Fields []tools.FieldError `json:"fields,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
}

// StatusResponse reports the active data source
type StatusResponse struct {
	Mode          string `json:"mode"`
	Authenticated bool   `json:"authenticated"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Messages []entity.ChatMessage `json:"messages" binding:"required,dive"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   "1.0.0",
	})
}

// Status handles GET /api/status
func (h *Handlers) Status(c *gin.Context) {
	_, err := c.Cookie(h.deps.Cookie.Name)
	c.JSON(http.StatusOK, StatusResponse{
		Mode:          string(h.deps.Invoices.Mode()),
		Authenticated: err == nil,
	})
}

// GetInvoices handles GET /api/invoices and GET /api/invoices?id=
func (h *Handlers) GetInvoices(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.Query("id")
	if id == "" {
		c.JSON(http.StatusOK, h.deps.Invoices.ListInvoices(ctx))
		return
	}

	inv, err := h.deps.Invoices.GetInvoice(ctx, id)
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, entity.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: msgInvoiceNotFound})
			return
		}
		c.JSON(http.StatusBadGateway, ErrorResponse{Error: msgFetchFailed})
		return
	}

	c.JSON(http.StatusOK, inv)
}

// ExportInvoices handles GET /api/invoices/export
func (h *Handlers) ExportInvoices(c *gin.Context) {
	invoices := h.deps.Invoices.ListInvoices(c.Request.Context())

	var buf bytes.Buffer
	if err := h.deps.Exporter.WriteInvoices(&buf, invoices); err != nil {
		h.logger.Error("Invoice export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgExportFailed})
		return
	}

	c.Header("Content-Disposition", exportDisposition)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// ListTools handles GET /api/tools
func (h *Handlers) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Tools.Definitions())
}

// ExecuteTool handles POST /api/tools/:name. An empty body means no arguments.
func (h *Handlers) ExecuteTool(c *gin.Context) {
	name := c.Param("name")

	var args map[string]any
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidJSON})
		return
	}

	result, err := h.deps.Tools.Execute(c.Request.Context(), name, args)
	if err != nil {
		_ = c.Error(err)

		var verr *tools.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidArguments, Fields: verr.Fields})
		case errors.Is(err, tools.ErrUnknownTool):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: fmt.Sprintf("Unknown tool: %s", name)})
		case errors.Is(err, entity.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusBadGateway, ErrorResponse{Error: msgFetchFailed})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

// Chat handles POST /api/chat, streaming the reply as plain text
func (h *Handlers) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Malformed chat request", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
		return
	}

	stream, err := h.deps.Chat.Respond(c.Request.Context(), req.Messages)
	if err != nil {
		h.logger.Warn("Chat turn rejected", zap.Error(err))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgInternal})
		return
	}
	defer stream.Close()

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Cache-Control", "no-cache")
	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	done := c.Request.Context().Done()
	wrote := false
	for {
		select {
		case <-done:
			h.logger.Debug("Chat client went away")
			return
		default:
		}

		frag, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				h.logger.Error("Chat stream failed", zap.Error(err))
			}
			if !wrote {
				_, _ = io.WriteString(c.Writer, chat.GenericApology)
			}
			return
		}

		if _, err := io.WriteString(c.Writer, frag); err != nil {
			return
		}
		c.Writer.Flush()
		wrote = true
	}
}

// Connect handles GET /api/auth/connect
func (h *Handlers) Connect(c *gin.Context) {
	authURL, err := h.deps.Sessions.AuthorizationURL()
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msgAuthURLFailed})
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// Callback handles GET /api/auth/callback
func (h *Handlers) Callback(c *gin.Context) {
	token, err := h.deps.Sessions.HandleCallback(c.Request.Context(), c.Request.URL)
	if err != nil {
		_ = c.Error(err)
		c.Redirect(http.StatusFound, callbackErrorPath)
		return
	}

	value, err := auth.EncodeToken(token)
	if err != nil {
		_ = c.Error(err)
		c.Redirect(http.StatusFound, callbackErrorPath)
		return
	}

	cookie := h.deps.Cookie
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookie.Name, value, int(cookie.MaxAge.Seconds()), "/", "", cookie.Secure, true)
	c.Redirect(http.StatusFound, callbackSuccessPath)
}
