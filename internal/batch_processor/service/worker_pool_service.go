package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/personal-finance-ledger/internal/domain/shared"
)

// WorkerPoolProcessingService runs batches on a bounded ants pool
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

type WorkerPoolConfig struct {
	Size int
}

// NewWorkerPoolProcessingService wraps baseService with a pool of config.Size workers
func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	// Preallocation rejects a non-positive size instead of creating an unbounded pool
	pool, err := ants.NewPool(config.Size, ants.WithPreAlloc(true))
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
		inFlight:    make(map[string]struct{}),
	}, nil
}

// ProcessBatch submits the batch to the worker pool and waits for its result.
func (s *WorkerPoolProcessingService) ProcessBatch(ctx context.Context, request *shared.BatchRequest) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	batchID := request.BatchID.String()
	logger.Debug("Submitting batch to worker pool", "batch_id", batchID)

	resultChan := make(chan error, 1)

	s.mu.Lock()
	s.inFlight[batchID] = struct{}{}
	s.mu.Unlock()

	requestCopy := *request

	err := s.pool.Submit(func() {
		defer s.done(batchID)
		resultChan <- s.baseService.ProcessBatch(ctx, &requestCopy)
	})
	if err != nil {
		s.done(batchID)
		logger.Error("Failed to submit batch to worker pool", "batch_id", batchID, "error", err)
		return err
	}

	select {
	case err := <-resultChan:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *WorkerPoolProcessingService) done(batchID string) {
	s.mu.Lock()
	delete(s.inFlight, batchID)
	s.mu.Unlock()
}

// InFlight returns the number of batches submitted and not yet finished.
func (s *WorkerPoolProcessingService) InFlight() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.inFlight)
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
