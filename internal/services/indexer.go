package services

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Indexer pushes resume embeddings of committed applications into the
// similarity index in the background. Index updates are best-effort: a
// failed upsert is logged and dropped, never retried against the request.
type Indexer interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(job IndexJob)
}

type IndexJob struct {
	ApplicationID string
	Email         string
	Embedding     []float32
}

type indexer struct {
	index       SimilarityIndex
	jobQueue    chan IndexJob
	concurrency int
	wg          sync.WaitGroup
	stopChan    chan struct{}
	logger      *zap.Logger
}

func NewIndexer(index SimilarityIndex, concurrency int, logger *zap.Logger) Indexer {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &indexer{
		index:       index,
		jobQueue:    make(chan IndexJob, 100),
		concurrency: concurrency,
		stopChan:    make(chan struct{}),
		logger:      logger,
	}
}

// Start implements Indexer.
func (ix *indexer) Start(ctx context.Context) {
	for i := 0; i < ix.concurrency; i++ {
		ix.wg.Add(1)
		go ix.processJobs(ctx, i+1)
	}
	ix.logger.Info("indexer started", zap.Int("concurrency", ix.concurrency))
}

// Stop implements Indexer.
func (ix *indexer) Stop() {
	close(ix.stopChan)
	ix.wg.Wait()
	ix.logger.Info("indexer stopped")
}

// Enqueue implements Indexer. Never blocks the submission path: when the
// queue is full or the indexer is stopping, the job is dropped.
func (ix *indexer) Enqueue(job IndexJob) {
	select {
	case ix.jobQueue <- job:
	case <-ix.stopChan:
		ix.logger.Warn("indexer stopped, dropping index job",
			zap.String("application_id", job.ApplicationID))
	default:
		ix.logger.Warn("index queue full, dropping index job",
			zap.String("application_id", job.ApplicationID))
	}
}

func (ix *indexer) processJobs(ctx context.Context, workerID int) {
	defer ix.wg.Done()

	for {
		select {
		case <-ix.stopChan:
			return
		case job := <-ix.jobQueue:
			upsertCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
			err := ix.index.UpsertApplication(upsertCtx, job.ApplicationID, job.Email, job.Embedding)
			cancel()

			if err != nil {
				ix.logger.Warn("failed to index application",
					zap.Int("worker", workerID),
					zap.String("application_id", job.ApplicationID),
					zap.Error(err))
				continue
			}

			ix.logger.Debug("application indexed",
				zap.Int("worker", workerID),
				zap.String("application_id", job.ApplicationID))
		}
	}
}
