package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"eduexpress-backend/internal/model"
	"eduexpress-backend/internal/repository"

	"go.uber.org/zap"
)

// DeliveryLogWorker buffers delivery records and writes them in batches.
type DeliveryLogWorker interface {
	Record(rec model.DeliveryRecord)
	Shutdown()
}

type deliveryLogWorker struct {
	repo          repository.DeliveryRepository
	log           *zap.Logger
	queue         chan model.DeliveryRecord
	batchSize     int
	flushInterval time.Duration
	dropped       atomic.Int64
	wg            sync.WaitGroup
	closeOnce     sync.Once
	mu            sync.RWMutex
	closed        bool
}

// NewDeliveryLogWorker starts the background flush loop.
func NewDeliveryLogWorker(repo repository.DeliveryRepository, log *zap.Logger, bufferSize, batchSize int, interval time.Duration) *deliveryLogWorker {
	if bufferSize < 1 {
		bufferSize = 1
	}
	if batchSize < 1 {
		batchSize = 1
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	worker := &deliveryLogWorker{
		repo:          repo,
		log:           log,
		queue:         make(chan model.DeliveryRecord, bufferSize),
		batchSize:     batchSize,
		flushInterval: interval,
	}
	worker.wg.Add(1)
	go worker.startLoop()
	return worker
}

// Record enqueues without blocking. Records are dropped when the buffer is full
// or the worker has shut down.
func (w *deliveryLogWorker) Record(rec model.DeliveryRecord) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		w.drop(rec, "worker stopped")
		return
	}
	select {
	case w.queue <- rec:
	default:
		w.drop(rec, "buffer full")
	}
}

func (w *deliveryLogWorker) drop(rec model.DeliveryRecord, reason string) {
	total := w.dropped.Add(1)
	w.log.Warn("delivery record dropped",
		zap.String("reason", reason),
		zap.String("event_id", rec.EventID),
		zap.Int64("dropped_total", total))
}

// Shutdown stops accepting records and flushes what is buffered.
func (w *deliveryLogWorker) Shutdown() {
	w.closeOnce.Do(func() {
		w.log.Info("delivery log worker stopping, draining queue", zap.Int("queued", len(w.queue)))
		w.mu.Lock()
		w.closed = true
		close(w.queue)
		w.mu.Unlock()
		w.wg.Wait()
		w.log.Info("delivery log worker stopped")
	})
}

func (w *deliveryLogWorker) startLoop() {
	defer w.wg.Done()

	var batch []model.DeliveryRecord
	ticker := time.NewTicker(w.flushInterval)
	defer ticker.Stop()

	for {
		select {
		case rec, ok := <-w.queue:
			if !ok {
				if len(batch) > 0 {
					w.bulkInsert(batch)
				}
				return
			}

			batch = append(batch, rec)
			if len(batch) >= w.batchSize {
				w.bulkInsert(batch)
				batch = nil
			}

		case <-ticker.C:
			if len(batch) > 0 {
				w.bulkInsert(batch)
				batch = nil
			}
		}
	}
}

func (w *deliveryLogWorker) bulkInsert(records []model.DeliveryRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := w.repo.CreateBatch(ctx, records); err != nil {
		w.log.Error("delivery log flush failed", zap.Int("size", len(records)), zap.Error(err))
		return
	}
	w.log.Debug("delivery log flushed", zap.Int("size", len(records)))
}

// NopDeliveryLog discards records. It is used when no delivery log store is configured.
type NopDeliveryLog struct{}

func (NopDeliveryLog) Record(model.DeliveryRecord) {}

func (NopDeliveryLog) Shutdown() {}
