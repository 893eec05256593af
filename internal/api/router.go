package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// HealthService reports whether the bridge's backing services are reachable.
type HealthService interface {
	Probe(ctx context.Context) error
}

// RouterDependencies collects handler dependencies.
type RouterDependencies struct {
	Health   HealthService
	Handlers *Handlers
}

// NewRouter wires the HTTP routes exposed by the bridge API.
func NewRouter(deps RouterDependencies) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		payload := map[string]any{
			"status": "ok",
		}

		if deps.Health != nil {
			if err := deps.Health.Probe(ctx); err != nil {
				zap.L().Error("Health probe failed", zap.Error(err))
				status = http.StatusServiceUnavailable
				payload["status"] = "degraded"
				payload["error"] = err.Error()
			}
		}

		respondJSON(w, status, payload)
	})

	if deps.Handlers != nil {
		mux.HandleFunc("/api/bridge/verify-transfer", deps.Handlers.handleVerifyTransfer)
		mux.HandleFunc("/api/bridge/sync-transaction", deps.Handlers.handleSyncTransaction)
		mux.HandleFunc("/api/bridge/user/", deps.Handlers.handleCombinedUser)
		mux.HandleFunc("/api/bridge/register-user", deps.Handlers.handleRegisterUser)
		mux.HandleFunc("/api/fabric/kyc/", deps.Handlers.handleGetKyc)
		mux.HandleFunc("/api/fabric/kyc", deps.Handlers.handlePutKyc)
		mux.HandleFunc("/api/fabric/transaction/", deps.Handlers.handleGetTransferRecord)
		mux.HandleFunc("/api/solana/balance/", deps.Handlers.handleGetBalance)
		mux.HandleFunc("/api/solana/transaction/", deps.Handlers.handleGetConfirmedTransfer)
	}

	return loggingMiddleware(mux)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		zap.L().Info("Request completed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()))
	})
}

type responseRecorder struct {
	http.ResponseWriter
	status int
}

func (r *responseRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func pathParam(r *http.Request, prefix string) string {
	value := strings.TrimPrefix(r.URL.Path, prefix)
	return strings.Trim(value, "/")
}
