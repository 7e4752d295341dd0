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

type LiabilityHandler struct {
	service   *service.LiabilityService
	validator *schema.Validator
	log       logger.Logger
}

func NewLiabilityHandler(svc *service.LiabilityService, validator *schema.Validator, log logger.Logger) *LiabilityHandler {
	return &LiabilityHandler{service: svc, validator: validator, log: log}
}

func (h *LiabilityHandler) AssessLiabilities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, verrs := h.validator.Validate(schema.DocLiabilityRequest, body)
	if len(verrs) > 0 {
		metrics.ValidationFailures.WithLabelValues(schema.DocLiabilityRequest).Inc()
		respondError(w, http.StatusBadRequest, verrs.Error())
		return
	}

	var req domain.LiabilityRequest
	coerced, _ := json.Marshal(doc)
	if err := json.Unmarshal(coerced, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.AssessLiabilities(r.Context(), req)
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
