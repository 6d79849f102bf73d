// Package domain defines domain-level errors for the bars feature.
package domain

import "errors"

// Domain errors for history ingestion.
// Adapters and usecases wrap underlying causes with these so that the transport layer can pick a status with errors.Is.
var (
	// ErrInvalidRange indicates that the start month is after the end month.
	ErrInvalidRange = errors.New("start month is after end month")

	// ErrInvalidMonth indicates that a month could not be parsed as YYYY-MM.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrProviderUnavailable indicates a transport failure reaching the market-data provider.
	// The core never retries it; retry policy belongs to the caller.
	ErrProviderUnavailable = errors.New("market data provider unavailable")

	// ErrProviderRejected indicates that the provider answered but refused the call (unknown ticker, bad key).
	ErrProviderRejected = errors.New("market data provider rejected the request")

	// ErrMalformedResponse indicates a provider row that could not be parsed.
	ErrMalformedResponse = errors.New("malformed provider response")

	// ErrQuotaExhausted indicates that the provider has no calls left for today. Terminal for the request.
	ErrQuotaExhausted = errors.New("provider call quota exhausted")

	// ErrInsufficientQuota indicates that the locally tracked quota cannot cover the requested months.
	ErrInsufficientQuota = errors.New("not enough provider calls remaining for this request")

	// ErrQuotaConflict indicates that another request updated the quota row concurrently.
	ErrQuotaConflict = errors.New("quota was updated concurrently")

	// ErrInvalidSessionBoundary indicates a gap right after the session close that cannot be filled.
	ErrInvalidSessionBoundary = errors.New("gap after session close cannot be filled")

	// ErrUnorderedBars indicates a raw bar that is not strictly after the previous one.
	ErrUnorderedBars = errors.New("bars are not in ascending time order")

	// ErrStoreFailure indicates a failure on the persistence path.
	ErrStoreFailure = errors.New("store failure")
)
