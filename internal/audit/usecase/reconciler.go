package usecase

import (
	"context"
	"log"
	"sync"
	"time"

	"governance-backend/internal/audit/domain"
	"governance-backend/internal/audit/repository"
)

const (
	defaultReconcileInterval = 30 * time.Second
	maxReconcileAttempts     = 10
	reconcileWriteTimeout    = 5 * time.Second
)

type pendingEntry struct {
	entry    *domain.AuditEntry
	attempts int
}

// Reconciler re-attempts audit writes that failed after their primary
// mutation already succeeded. Entries keep their original ID, so a retry of a
// write that actually landed is a no-op.
type Reconciler struct {
	repo     repository.AuditRepository
	interval time.Duration

	mu      sync.Mutex
	pending []*pendingEntry

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewReconciler creates a reconciler checking every interval.
func NewReconciler(repo repository.AuditRepository, interval time.Duration) *Reconciler {
	if interval <= 0 {
		interval = defaultReconcileInterval
	}
	return &Reconciler{
		repo:     repo,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Enqueue schedules entry for another write attempt.
func (r *Reconciler) Enqueue(entry *domain.AuditEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = append(r.pending, &pendingEntry{entry: entry})
}

// Pending returns how many entries still await a successful write.
func (r *Reconciler) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Start begins the retry loop
func (r *Reconciler) Start() {
	log.Printf("[AuditReconciler] Starting (interval: %s)", r.interval)

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				r.RetryPending(context.Background())
			case <-r.stopChan:
				log.Println("[AuditReconciler] Stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the loop
func (r *Reconciler) Stop() {
	r.stopOnce.Do(func() { close(r.stopChan) })
}

// RetryPending makes one write attempt per queued entry and returns how many
// were recovered. Entries that exhaust their attempts are dropped with an alert.
func (r *Reconciler) RetryPending(ctx context.Context) int {
	r.mu.Lock()
	batch := r.pending
	r.pending = nil
	r.mu.Unlock()

	if len(batch) == 0 {
		return 0
	}

	recovered := 0
	var still []*pendingEntry
	for _, p := range batch {
		writeCtx, cancel := context.WithTimeout(ctx, reconcileWriteTimeout)
		err := r.repo.Create(writeCtx, p.entry)
		cancel()

		if err == nil {
			recovered++
			log.Printf("[AuditReconciler] Recovered entry %s (%s) after %d retries", p.entry.ID, p.entry.Action, p.attempts+1)
			continue
		}

		p.attempts++
		if p.attempts >= maxReconcileAttempts {
			log.Printf("[AUDIT-GAP] giving up on entry %s action=%s user=%s after %d attempts: %v",
				p.entry.ID, p.entry.Action, p.entry.UserID, p.attempts, err)
			continue
		}
		still = append(still, p)
	}

	if len(still) > 0 {
		r.mu.Lock()
		r.pending = append(still, r.pending...)
		r.mu.Unlock()
	}

	return recovered
}
