package api

import (
	"sync"

	"github.com/google/uuid"

	"github.com/adaptlabs/adapt-engine/internal/dataset"
)

// maxDatasets bounds the in-memory registry; the oldest session is evicted
// when a new upload would exceed it.
const maxDatasets = 32

// DatasetRegistry holds uploaded datasets for the lifetime of the process,
// keyed by opaque IDs. Analysis requests reference a dataset explicitly by ID;
// nothing in the engine reads a process-wide "current" dataset.
type DatasetRegistry struct {
	mu       sync.RWMutex
	datasets map[string]*dataset.Dataset
	order    []string
}

func NewDatasetRegistry() *DatasetRegistry {
	return &DatasetRegistry{
		datasets: make(map[string]*dataset.Dataset),
	}
}

// Put stores a dataset and returns its ID.
func (r *DatasetRegistry) Put(ds *dataset.Dataset) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	for len(r.order) >= maxDatasets {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.datasets, oldest)
	}
	r.datasets[id] = ds
	r.order = append(r.order, id)
	return id
}

// Get looks up a dataset by ID.
func (r *DatasetRegistry) Get(id string) (*dataset.Dataset, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ds, ok := r.datasets[id]
	return ds, ok
}

// Len reports how many datasets are registered.
func (r *DatasetRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.datasets)
}
