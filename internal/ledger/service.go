package ledger

import (
	"context"
	"fmt"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=ledger
type Repository interface {
	ListEntries(ctx context.Context, w Window) ([]Entry, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListWindow returns the receivables snapshot for a due-date window.
func (s *Service) ListWindow(ctx context.Context, w Window) ([]Entry, error) {
	if w.To.Before(w.From) {
		return nil, fmt.Errorf("invalid window: %s is after %s",
			w.From.Format("2006-01-02"), w.To.Format("2006-01-02"))
	}

	entries, err := s.repo.ListEntries(ctx, w)
	if err != nil {
		return nil, fmt.Errorf("listing ledger entries: %w", err)
	}

	return entries, nil
}
