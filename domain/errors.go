package domain

import "errors"

var (
	// ErrNoValuationData means zero usable value sources reached the
	// aggregator. The aggregator never invents a value.
	ErrNoValuationData = errors.New("no valuation data: no usable value sources")

	// ErrInvalidBudget means the consolidation budget was negative.
	ErrInvalidBudget = errors.New("invalid consolidation budget")

	// ErrUpstreamUnavailable means the model call failed, timed out, or
	// returned an invalid document twice.
	ErrUpstreamUnavailable = errors.New("upstream model unavailable")
)
