package scheduler

import (
	"sync"
	"time"
)

// ExecutionStatus is the state of one scheduler firing.
type ExecutionStatus string

const (
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusSuccess ExecutionStatus = "success"
	ExecutionStatusFailed  ExecutionStatus = "failed"
)

// ExecutionRecord is an append-only audit entry for one firing of a task.
// It is created with status running when the firing starts and finalized
// exactly once to a terminal status. Records are never deleted here;
// retention is a collaborator concern.
type ExecutionRecord struct {
	ID          int64
	TaskName    string
	StartedAt   time.Time
	CompletedAt time.Time
	Status      ExecutionStatus
	Error       string
	Attempted   int
	Succeeded   int
	Failed      int
}

// ExecutionStore persists execution records. Implementations must be safe
// for concurrent use: independent task firings append and update records
// in parallel.
type ExecutionStore interface {
	Append(record ExecutionRecord) int64
	Update(id int64, record ExecutionRecord)
	History(taskName string, limit int) []ExecutionRecord
}

// MemoryExecutionStore keeps execution records in memory.
type MemoryExecutionStore struct {
	mu      sync.RWMutex
	nextID  int64
	records []ExecutionRecord
}

// NewMemoryExecutionStore creates an empty in-memory store.
func NewMemoryExecutionStore() *MemoryExecutionStore {
	return &MemoryExecutionStore{}
}

// Append implements ExecutionStore.
func (s *MemoryExecutionStore) Append(record ExecutionRecord) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	record.ID = s.nextID
	s.records = append(s.records, record)
	return record.ID
}

// Update implements ExecutionStore. Unknown ids are ignored.
func (s *MemoryExecutionStore) Update(id int64, record ExecutionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			record.ID = id
			s.records[i] = record
			return
		}
	}
}

// History implements ExecutionStore. Records are returned most recent
// first; an empty taskName matches all tasks and a non-positive limit
// means no limit.
func (s *MemoryExecutionStore) History(taskName string, limit int) []ExecutionRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var history []ExecutionRecord
	for i := len(s.records) - 1; i >= 0; i-- {
		if taskName != "" && s.records[i].TaskName != taskName {
			continue
		}
		history = append(history, s.records[i])
		if limit > 0 && len(history) == limit {
			break
		}
	}
	return history
}
