package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"mortgage-advisor/domain"
	"mortgage-advisor/logger"
	"mortgage-advisor/metrics"
	"mortgage-advisor/repository"
	"mortgage-advisor/schema"
	"mortgage-advisor/service"
)

type AVMHandler struct {
	service   *service.ValuationService
	validator *schema.Validator
	cache     repository.CacheRepository
	log       logger.Logger
}

func NewAVMHandler(svc *service.ValuationService, validator *schema.Validator, cache repository.CacheRepository, log logger.Logger) *AVMHandler {
	return &AVMHandler{service: svc, validator: validator, cache: cache, log: log}
}

func (h *AVMHandler) EvaluateProperty(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	doc, verrs := h.validator.Validate(schema.DocAVMRequest, body)
	if len(verrs) > 0 {
		metrics.ValidationFailures.WithLabelValues(schema.DocAVMRequest).Inc()
		respondError(w, http.StatusBadRequest, verrs.Error())
		return
	}

	key := cacheKey("avm", doc)
	if key != "" {
		if cached, ok := h.cache.Get(r.Context(), key); ok {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(cached))
			return
		}
		metrics.CacheLookups.WithLabelValues("miss").Inc()
	}

	var req domain.AVMRequest
	coerced, _ := json.Marshal(doc)
	if err := json.Unmarshal(coerced, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.service.EvaluateProperty(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNoValuationData):
			respondError(w, http.StatusUnprocessableEntity, err.Error())
		case errors.Is(err, domain.ErrUpstreamUnavailable):
			respondError(w, http.StatusBadGateway, err.Error())
		default:
			respondError(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	written := respondJSON(w, http.StatusOK, result)
	if key != "" && written != nil {
		if err := h.cache.Set(r.Context(), key, string(written)); err != nil {
			h.log.Warn("failed to cache AVM response", map[string]interface{}{"error": err.Error()})
		}
	}
}
