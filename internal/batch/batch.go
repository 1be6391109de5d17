// Package batch holds parsed imports in memory between the upload request
// and the reconciliation run. Nothing here is persisted: clearing a batch
// (or restarting the process) discards it, matching the lifecycle of an
// on-screen import.
package batch

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/vhrocha/batida/internal/importer"
	"github.com/vhrocha/batida/internal/transaction"
)

// Batch is one upload: the per-file summaries of a single import request.
type Batch struct {
	ID    uuid.UUID
	Files []importer.FileSummary
}

// Transactions flattens the successfully parsed records of the batch,
// preserving file order.
func (b *Batch) Transactions() []transaction.Transaction {
	var txs []transaction.Transaction

	for _, f := range b.Files {
		if f.Err != nil || f.Result == nil {
			continue
		}

		txs = append(txs, f.Result.Records...)
	}

	return txs
}

// Banks lists the distinct source banks of the batch, in file order.
func (b *Batch) Banks() []importer.Bank {
	seen := make(map[importer.Bank]bool)

	var banks []importer.Bank

	for _, f := range b.Files {
		if !seen[f.Bank] {
			seen[f.Bank] = true
			banks = append(banks, f.Bank)
		}
	}

	return banks
}

// Store is a process-local registry of import batches.
type Store struct {
	mu      sync.RWMutex
	batches map[uuid.UUID]*Batch
}

func NewStore() *Store {
	return &Store{batches: make(map[uuid.UUID]*Batch)}
}

// Save registers the summaries of one upload and returns its batch.
func (s *Store) Save(files []importer.FileSummary) *Batch {
	b := &Batch{ID: uuid.New(), Files: files}

	s.mu.Lock()
	s.batches[b.ID] = b
	s.mu.Unlock()

	return b
}

// Get looks a batch up by id.
func (s *Store) Get(id uuid.UUID) (*Batch, error) {
	s.mu.RLock()
	b, ok := s.batches[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("batch %s not found", id)
	}

	return b, nil
}

// Delete discards a batch. Deleting an unknown id is a no-op.
func (s *Store) Delete(id uuid.UUID) {
	s.mu.Lock()
	delete(s.batches, id)
	s.mu.Unlock()
}
