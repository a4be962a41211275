// Package filetest provides an in-memory file.Repository for tests.
package filetest

import (
	"context"
	"sync"

	"github.com/nekogravitycat/car-rental-backend/internal/file"
)

type MemoryRepository struct {
	mu    sync.RWMutex
	files map[string]*file.File
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{files: make(map[string]*file.File)}
}

func (r *MemoryRepository) Create(ctx context.Context, f *file.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *f
	r.files[f.ID] = &cp
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*file.File, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.files[id]
	if !ok {
		return nil, file.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.files, id)
	return nil
}

// Len returns the number of stored records.
func (r *MemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.files)
}
