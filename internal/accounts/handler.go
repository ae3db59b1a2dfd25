package accounts

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/sergio-tacza/api/internal/httpx"
	"github.com/sergio-tacza/api/internal/middleware"
	"github.com/sergio-tacza/api/internal/transport"
	"github.com/sergio-tacza/api/internal/validation"
)

type Handler struct {
	service *Service
	val     *validation.Validator
	log     *slog.Logger
}

func NewHandler(service *Service, val *validation.Validator, log *slog.Logger) *Handler {
	return &Handler{
		service: service,
		val:     val,
		log:     log,
	}
}

func (h *Handler) logWithRequest(r *http.Request) *slog.Logger {
	if id := middleware.RequestIDFromContext(r.Context()); id != "" {
		return h.log.With(slog.String("request_id", id))
	}
	return h.log
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req LoginRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("auth login: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("auth login: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	resp, err := h.service.Login(ctx, req)
	if err != nil {
		if errors.Is(err, ErrBadCredentials) {
			log.Warn("auth login: bad credentials")
			transport.WriteError(w, http.StatusUnauthorized, "invalid credentials", nil)
			return
		}
		log.Error("auth login: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	log.Info("auth login: ok", slog.String("user_id", resp.UserID))
	transport.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) RequestRecovery(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req RecoveryRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("auth recovery: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("auth recovery: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 8*time.Second)
	defer cancel()

	if err := h.service.RequestRecovery(ctx, req.Email); err != nil {
		if errors.Is(err, ErrUnknownEmail) {
			log.Warn("auth recovery: unknown email")
			transport.WriteError(w, http.StatusNotFound, "email not registered", nil)
			return
		}
		log.Error("auth recovery: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	log.Info("auth recovery: token issued")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "recovery email sent",
	})
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	log := h.logWithRequest(r)

	var req ResetRequest
	if err := httpx.DecodeJSON(r.Body, &req); err != nil {
		log.Warn("auth reset: invalid json")
		transport.WriteError(w, http.StatusBadRequest, "invalid json", nil)
		return
	}

	if err := h.val.Struct(req); err != nil {
		log.Warn("auth reset: validation error")
		transport.WriteError(w, http.StatusBadRequest, "validation error", httpx.ValidationDetails(h.val.ValidationErrors(err)))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.service.ResetPassword(ctx, req); err != nil {
		if errors.Is(err, ErrBadToken) {
			log.Warn("auth reset: bad token")
			transport.WriteError(w, http.StatusBadRequest, "invalid or expired token", nil)
			return
		}
		log.Error("auth reset: error", slog.String("error", err.Error()))
		transport.WriteError(w, http.StatusInternalServerError, "internal error", nil)
		return
	}

	log.Info("auth reset: ok")
	transport.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "password updated",
	})
}
