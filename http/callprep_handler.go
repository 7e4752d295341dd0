package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
	"mortgage-advisor/metrics"
	"mortgage-advisor/schema"
	"mortgage-advisor/service"
)

type CallPrepHandler struct {
	service   *service.CallPrepService
	validator *schema.Validator
	log       logger.Logger
}

func NewCallPrepHandler(svc *service.CallPrepService, validator *schema.Validator, log logger.Logger) *CallPrepHandler {
	return &CallPrepHandler{service: svc, validator: validator, log: log}
}

func (h *CallPrepHandler) PrepareCall(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, verrs := h.validator.Validate(schema.DocCallPrepRequest, body)
	if len(verrs) > 0 {
		metrics.ValidationFailures.WithLabelValues(schema.DocCallPrepRequest).Inc()
		respondError(w, http.StatusBadRequest, verrs.Error())
		return
	}

	var req domain.CallPrepRequest
	coerced, _ := json.Marshal(doc)
	if err := json.Unmarshal(coerced, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.Prepare(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidBudget):
			respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			respondError(w, http.StatusBadGateway, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	respondJSON(w, http.StatusOK, result)
}
