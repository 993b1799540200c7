package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/relam-bot/Useless-Project-2.0/internal/lifecycle"
	"github.com/relam-bot/Useless-Project-2.0/internal/observability"
	"github.com/relam-bot/Useless-Project-2.0/internal/service"
	"github.com/relam-bot/Useless-Project-2.0/internal/traffic"
	"github.com/relam-bot/Useless-Project-2.0/internal/validation"
)

// defaultRole is substituted when the request body carries no role.
const defaultRole = "someone"

// HealthConfig holds lifecycle thresholds for the health handler.
type HealthConfig struct {
	DegradedWindow   time.Duration
	DegradedErrorPct int
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	excuseService    *service.ExcuseService
	healthConfig     *HealthConfig
	logger           *zap.Logger
	roleMaxLength    int
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

// NewHandler returns a new Handler.
func NewHandler(
	excuseService *service.ExcuseService,
	healthConfig *HealthConfig,
	logger *zap.Logger,
	roleMaxLength int,
) *Handler {
	return &Handler{
		excuseService: excuseService,
		healthConfig:  healthConfig,
		logger:        logger,
		roleMaxLength: roleMaxLength,
	}
}

type generateExcuseRequest struct {
	Role string `json:"role"`
}

// GenerateExcuse handles POST /generateExcuse. An empty body is allowed and
// yields the default role; a body that is present but not valid JSON is a 400.
func (h *Handler) GenerateExcuse(w http.ResponseWriter, r *http.Request) {
	var req generateExcuseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	role, err := validation.ValidateRole(req.Role, h.roleMaxLength)
	if err != nil {
		writeError(w, http.StatusBadRequest, roleErrorMessage(err, h.roleMaxLength))
		return
	}
	if role == "" {
		role = defaultRole
	}

	result, err := h.excuseService.GenerateExcuse(r.Context(), role, clientIP(r))
	if err != nil {
		if logger, ok := r.Context().Value("logger").(*zap.Logger); ok && logger != nil {
			logger.Debug("excuse pipeline stopped", zap.Error(err))
		}
		var noLoc *service.NoLocationError
		switch {
		case errors.As(err, &noLoc):
			writeError(w, http.StatusOK, "Could not determine location from IP: "+noLoc.IP)
		case errors.Is(err, service.ErrWeatherUnavailable):
			writeError(w, http.StatusOK, "Could not fetch weather data")
		default:
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func roleErrorMessage(err error, maxLen int) string {
	switch {
	case errors.Is(err, validation.ErrRoleTooLong):
		return fmt.Sprintf("role must be at most %d characters", maxLen)
	case errors.Is(err, validation.ErrRoleInvalidChars):
		return "role contains invalid characters"
	default:
		return "invalid role"
	}
}

// clientIP extracts the host part of the transport address. Proxy headers
// are deliberately not consulted.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus()

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := make(map[string]string)
	if result.status == "degraded" {
		checks["pipeline"] = "unhealthy"
	} else {
		checks["pipeline"] = "healthy"
	}

	resp := map[string]interface{}{
		"status":    result.status,
		"service":   observability.ServiceName,
		"version":   "dev",
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	writeJSON(w, result.statusCode, resp)
}

// computeHealthStatus determines the current health status by evaluating
// conditions in priority order: shutting-down > degraded > healthy. The
// check is passive; it never calls an upstream.
func (h *Handler) computeHealthStatus() healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig != nil && h.healthConfig.DegradedWindow > 0 && h.healthConfig.DegradedErrorPct > 0 {
		errCount, total := traffic.ErrorRate(h.healthConfig.DegradedWindow)
		if total > 0 {
			pct := float64(errCount) * 100 / float64(total)
			if pct >= float64(h.healthConfig.DegradedErrorPct) {
				return healthResult{"degraded", http.StatusServiceUnavailable, "error_rate_breach"}
			}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the flat error payload {"error": message}. Pipeline hard
// stops keep HTTP 200 and report the failure in the body, so the status code
// is the caller's to pick.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
