package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/scstore/catalog/internal/domain"
	"github.com/scstore/catalog/internal/importer"
	"github.com/scstore/catalog/internal/observability"
	"github.com/scstore/catalog/internal/repository"
	"go.uber.org/zap"
)

const defaultBatchSize = 1000

// RecordParser turns an uploaded CSV stream into product candidates.
type RecordParser interface {
	Parse(r io.Reader) ([]domain.Product, []importer.ParseError, error)
}

// RecordGenerator produces synthetic product candidates.
type RecordGenerator interface {
	Generate(count int, categoryIDs []int) ([]domain.Product, error)
}

// ProgressPublisher pushes progress snapshots to live subscribers. Delivery
// is best effort; the import never depends on it.
type ProgressPublisher interface {
	Publish(ctx context.Context, jobID string, snapshot domain.ProgressSnapshot) error
}

// StartImportRequest carries exactly one record source. When both are set
// the CSV upload wins and the generation count is ignored.
type StartImportRequest struct {
	CSV           io.Reader
	FileName      string
	GenerateCount *int
}

// jobTask is the registry entry for one in-flight import.
type jobTask struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// ImportService orchestrates bulk import jobs: it accepts a request,
// creates the job record, and runs resolution, validation, and batch
// commits on a detached background goroutine.
type ImportService struct {
	jobs       repository.ImportJobRepository
	products   repository.ProductRepository
	categories repository.CategoryRepository
	parser     RecordParser
	generator  RecordGenerator
	publisher  ProgressPublisher
	logger     *zap.Logger
	metrics    *observability.Metrics
	batchSize  int
	now        func() time.Time

	mu      sync.Mutex
	running map[string]*jobTask
	wg      sync.WaitGroup
}

func NewImportService(
	jobs repository.ImportJobRepository,
	products repository.ProductRepository,
	categories repository.CategoryRepository,
	parser RecordParser,
	generator RecordGenerator,
	publisher ProgressPublisher,
	logger *zap.Logger,
	metrics *observability.Metrics,
	batchSize int,
) (*ImportService, error) {
	if jobs == nil {
		return nil, fmt.Errorf("import job repository is required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	if categories == nil {
		return nil, fmt.Errorf("category repository is required")
	}
	if parser == nil {
		return nil, fmt.Errorf("record parser is required")
	}
	if generator == nil {
		return nil, fmt.Errorf("record generator is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	return &ImportService{
		jobs:       jobs,
		products:   products,
		categories: categories,
		parser:     parser,
		generator:  generator,
		publisher:  publisher,
		logger:     logger,
		metrics:    metrics,
		batchSize:  batchSize,
		now:        time.Now,
		running:    make(map[string]*jobTask),
	}, nil
}

// StartImport validates the request, persists a Pending job, and launches
// the background run. It returns the initial snapshot immediately; no job
// record is created for an invalid request.
func (s *ImportService) StartImport(ctx context.Context, req StartImportRequest) (domain.ProgressSnapshot, error) {
	if req.CSV == nil && req.GenerateCount == nil {
		return domain.ProgressSnapshot{}, fmt.Errorf(
			"%w: either a CSV file or a generation count must be provided", domain.ErrValidation)
	}
	if req.CSV == nil && *req.GenerateCount < 0 {
		return domain.ProgressSnapshot{}, fmt.Errorf(
			"%w: generation count cannot be negative", domain.ErrValidation)
	}

	job := &domain.ImportJob{
		ID:        uuid.NewString(),
		Status:    domain.JobStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.jobs.Create(ctx, job); err != nil {
		return domain.ProgressSnapshot{}, fmt.Errorf("failed to create import job: %w", err)
	}
	s.metrics.IncImportStarted()

	runCtx, cancel := context.WithCancel(context.Background())
	if requestID, ok := observability.RequestIDFromContext(ctx); ok {
		runCtx = observability.WithRequestID(runCtx, requestID)
	}

	task := &jobTask{cancel: cancel, done: make(chan struct{})}
	s.mu.Lock()
	s.running[job.ID] = task
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		defer close(task.done)
		defer func() {
			s.mu.Lock()
			delete(s.running, job.ID)
			s.mu.Unlock()
		}()

		s.runImport(runCtx, job, req)
	}()

	return job.Snapshot(), nil
}

// GetStatus returns the persisted snapshot for a job.
func (s *ImportService) GetStatus(ctx context.Context, jobID string) (domain.ProgressSnapshot, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return domain.ProgressSnapshot{}, err
	}
	return job.Snapshot(), nil
}

// ListJobs returns all jobs, newest first.
func (s *ImportService) ListJobs(ctx context.Context) ([]domain.ImportJob, error) {
	return s.jobs.List(ctx)
}

// Cancel aborts an in-flight job and reports whether one was running.
// The job transitions to Failed once its goroutine observes the
// cancellation.
func (s *ImportService) Cancel(jobID string) bool {
	s.mu.Lock()
	task, ok := s.running[jobID]
	s.mu.Unlock()
	if !ok {
		return false
	}

	task.cancel()
	<-task.done
	return true
}

// ActiveJobs reports how many imports are currently running.
func (s *ImportService) ActiveJobs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.running)
}

// Wait blocks until every in-flight import finishes or the context ends.
// Shutdown uses it so accepted jobs reach a terminal state before exit.
func (s *ImportService) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ImportService) runImport(ctx context.Context, job *domain.ImportJob, req StartImportRequest) {
	logger := observability.JobLogger(observability.RequestLogger(s.logger, ctx), job.ID)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("import run panicked", zap.Any("panic", r))
			s.failJob(ctx, logger, job, fmt.Errorf("import aborted: %v", r))
		}
	}()

	startedAt := s.now().UTC()
	job.Status = domain.JobStatusProcessing
	job.StartedAt = &startedAt
	if err := s.jobs.Update(ctx, job); err != nil {
		s.failJob(ctx, logger, job, fmt.Errorf("failed to mark job processing: %w", err))
		return
	}
	s.publishProgress(ctx, logger, job)

	records, err := s.resolveRecords(ctx, logger, req)
	if err != nil {
		s.failJob(ctx, logger, job, err)
		return
	}

	job.TotalRecords = len(records)
	if err := s.jobs.Update(ctx, job); err != nil {
		s.failJob(ctx, logger, job, fmt.Errorf("failed to store record total: %w", err))
		return
	}
	s.publishProgress(ctx, logger, job)
	logger.Info("import records resolved", zap.Int("totalRecords", job.TotalRecords))

	validCategories, err := s.loadCategorySet(ctx)
	if err != nil {
		s.failJob(ctx, logger, job, err)
		return
	}

	for start := 0; start < len(records); start += s.batchSize {
		if err := ctx.Err(); err != nil {
			s.failJob(ctx, logger, job, fmt.Errorf("import aborted: %w", err))
			return
		}

		end := min(start+s.batchSize, len(records))
		failed := s.commitBatch(ctx, logger, records[start:end], validCategories)

		job.ProcessedRecords += end - start
		job.FailedRecords += failed
		if err := s.jobs.Update(ctx, job); err != nil {
			s.failJob(ctx, logger, job, fmt.Errorf("failed to store batch progress: %w", err))
			return
		}
		s.publishProgress(ctx, logger, job)
	}

	// A cancelled run must not report success even when its last batch
	// already drained.
	if err := ctx.Err(); err != nil {
		s.failJob(ctx, logger, job, fmt.Errorf("import aborted: %w", err))
		return
	}

	completedAt := s.now().UTC()
	job.Status = domain.JobStatusCompleted
	job.CompletedAt = &completedAt
	if err := s.jobs.Update(ctx, job); err != nil {
		logger.Error("failed to mark job completed", zap.Error(err))
	}
	s.publishProgress(ctx, logger, job)
	s.metrics.IncImportFinished(domain.JobStatusCompleted.String())

	logger.Info("import completed",
		zap.Int("totalRecords", job.TotalRecords),
		zap.Int("successRecords", job.SuccessRecords()),
		zap.Int("failedRecords", job.FailedRecords),
	)
}

// resolveRecords materializes the candidate set from whichever source the
// request carried. CSV lines rejected at parse time are dropped here and
// never count toward the job's totals.
func (s *ImportService) resolveRecords(
	ctx context.Context,
	logger *zap.Logger,
	req StartImportRequest,
) ([]domain.Product, error) {
	if req.CSV != nil {
		records, rejects, err := s.parser.Parse(req.CSV)
		if err != nil {
			return nil, err
		}
		if len(rejects) > 0 {
			s.metrics.AddImportRecords("rejected", len(rejects))
			logger.Warn("CSV lines rejected",
				zap.String("fileName", req.FileName),
				zap.Int("rejected", len(rejects)),
			)
		}
		return records, nil
	}

	categoryIDs, err := s.categories.GetAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return s.generator.Generate(*req.GenerateCount, categoryIDs)
}

func (s *ImportService) loadCategorySet(ctx context.Context) (map[int]struct{}, error) {
	ids, err := s.categories.GetAllIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// commitBatch validates references and bulk-inserts the survivors in one
// statement. It returns the number of failed records; an insert error
// degrades the whole batch to failed and the run continues.
func (s *ImportService) commitBatch(
	ctx context.Context,
	logger *zap.Logger,
	batch []domain.Product,
	validCategories map[int]struct{},
) int {
	valid := make([]domain.Product, 0, len(batch))
	failed := 0

	for i := range batch {
		if _, ok := validCategories[batch[i].CategoryID]; !ok {
			failed++
			logger.Warn("record references unknown category",
				zap.String("name", batch[i].Name),
				zap.Int("categoryId", batch[i].CategoryID),
			)
			continue
		}
		valid = append(valid, batch[i])
	}

	if len(valid) == 0 {
		s.metrics.AddImportRecords("failed", failed)
		return failed
	}

	start := s.now()
	err := s.products.BulkInsert(ctx, valid)
	s.metrics.ObserveImportBatchDuration(s.now().Sub(start))
	if err != nil {
		logger.Error("batch insert failed",
			zap.Int("batchSize", len(valid)),
			zap.Error(err),
		)
		failed += len(valid)
		s.metrics.AddImportRecords("failed", failed)
		return failed
	}

	s.metrics.AddImportRecords("success", len(valid))
	s.metrics.AddImportRecords("failed", failed)
	return failed
}

func (s *ImportService) failJob(ctx context.Context, logger *zap.Logger, job *domain.ImportJob, cause error) {
	completedAt := s.now().UTC()
	message := cause.Error()

	job.Status = domain.JobStatusFailed
	job.CompletedAt = &completedAt
	job.ErrorMessage = &message

	// The run context may already be cancelled; the terminal update and
	// publish still have to go out.
	if errors.Is(ctx.Err(), context.Canceled) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		ctx = context.Background()
	}

	if err := s.jobs.Update(ctx, job); err != nil {
		logger.Error("failed to mark job failed", zap.Error(err))
	}
	s.publishProgress(ctx, logger, job)
	s.metrics.IncImportFinished(domain.JobStatusFailed.String())

	logger.Error("import failed", zap.Error(cause))
}

// publishProgress is an explicit best-effort no-op on failure: the drop is
// logged and counted, and the import carries on.
func (s *ImportService) publishProgress(ctx context.Context, logger *zap.Logger, job *domain.ImportJob) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, job.ID, job.Snapshot()); err != nil {
		s.metrics.IncProgressPublishDrop()
		logger.Warn("progress snapshot dropped", zap.Error(err))
	}
}
