package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/geoscore/internal/domain/geoscore"
	apperrors "github.com/yanqian/geoscore/pkg/errors"
)

// Handler wires the HTTP transport to the scoring service.
type Handler struct {
	svc    geoscore.Service
	logger *slog.Logger
}

// NewHandler constructs the root HTTP handler.
func NewHandler(svc geoscore.Service, logger *slog.Logger) *Handler {
	return &Handler{
		svc:    svc,
		logger: logger.With("component", "http.handler"),
	}
}

type scoreResponse struct {
	geoscore.ScoreResult
	Grade geoscore.Grade `json:"grade"`
}

// Analyze returns the cached analysis for an address or scores it afresh.
func (h *Handler) Analyze(c *gin.Context) {
	var req geoscore.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", apperrors.MessageOf(err), err))
		return
	}

	resp, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, NewHTTPError(statusFor(err), "analyze_failed", apperrors.MessageOf(err), err))
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Score runs the engine without touching the cache.
func (h *Handler) Score(c *gin.Context) {
	var req geoscore.ScoreInput
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_request", apperrors.MessageOf(err), err))
		return
	}

	result, err := h.svc.Score(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, NewHTTPError(statusFor(err), "score_failed", apperrors.MessageOf(err), err))
		return
	}

	c.JSON(http.StatusOK, scoreResponse{ScoreResult: result, Grade: geoscore.GradeFor(result.Score)})
}

// LookupByAddress serves GET /locations?address=...
func (h *Handler) LookupByAddress(c *gin.Context) {
	record, err := h.svc.Lookup(c.Request.Context(), c.Query("address"))
	if err != nil {
		abortWithError(c, NewHTTPError(statusFor(err), "lookup_failed", apperrors.MessageOf(err), err))
		return
	}
	c.JSON(http.StatusOK, record)
}

// LookupByKey serves GET /locations/:key with an already normalized key.
func (h *Handler) LookupByKey(c *gin.Context) {
	record, err := h.svc.LookupKey(c.Request.Context(), c.Param("key"))
	if err != nil {
		abortWithError(c, NewHTTPError(statusFor(err), "lookup_failed", apperrors.MessageOf(err), err))
		return
	}
	c.JSON(http.StatusOK, record)
}

// BusinessTypes lists the competitor classification table.
func (h *Handler) BusinessTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"businessTypes": h.svc.BusinessTypes()})
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func statusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
