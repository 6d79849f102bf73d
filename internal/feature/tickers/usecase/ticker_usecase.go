// Package usecase implements the business logic for listing stored tickers.
package usecase

import (
	"context"
	"slices"
)

// TickerRepository abstracts the lookup of tickers that have stored history.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type TickerRepository interface {
	ListDistinct(ctx context.Context) ([]string, error)
}

// TickerUsecase provides business logic for ticker operations.
type TickerUsecase struct {
	repo TickerRepository
}

// NewTickerUsecase creates a new TickerUsecase with the given repository.
func NewTickerUsecase(r TickerRepository) *TickerUsecase {
	return &TickerUsecase{repo: r}
}

// ListTickers returns the tickers with stored bars in ascending order. It never returns a nil slice.
func (u *TickerUsecase) ListTickers(ctx context.Context) ([]string, error) {
	tickers, err := u.repo.ListDistinct(ctx)
	if err != nil {
		return nil, err
	}
	if tickers == nil {
		return []string{}, nil
	}
	slices.Sort(tickers)
	return tickers, nil
}
