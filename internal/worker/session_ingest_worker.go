package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/studyflow/planner-backend/internal/config"
	"github.com/studyflow/planner-backend/internal/logger"
	"github.com/studyflow/planner-backend/internal/model"
	"github.com/studyflow/planner-backend/internal/repository"
)

// SessionIngestWorker consumes study_sessions_queue and inserts logged
// timer sessions into PostgreSQL. Timer clients get their acknowledgement
// from the queue push; this worker makes the write durable.
type SessionIngestWorker struct {
	sessionRepo *repository.SessionRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewSessionIngestWorker creates a new SessionIngestWorker.
func NewSessionIngestWorker(sessionRepo *repository.SessionRepository, rdb *redis.Client, log zerolog.Logger) *SessionIngestWorker {
	return &SessionIngestWorker{
		sessionRepo: sessionRepo,
		rdb:         rdb,
		log:         logger.Component(log, "session_ingest_worker"),
	}
}

// Start begins the infinite worker loop. Call in a goroutine.
func (w *SessionIngestWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopping...")
			// Drain remaining items before exit.
			w.drain(context.Background())
			w.log.Info().Msg("Worker stopped")
			return
		default:
			w.processNext(ctx)
		}
	}
}

func (w *SessionIngestWorker) processNext(ctx context.Context) {
	// BLPop blocks until an item is available or timeout (1 second).
	result, err := w.rdb.BLPop(ctx, time.Second, config.WorkerKey.StudySessionQueue).Result()
	if err != nil {
		if err != redis.Nil && ctx.Err() == nil {
			w.log.Error().Err(err).Msg("BLPop error")
		}
		return
	}

	if len(result) < 2 {
		return
	}

	var session model.StudySession
	if err := json.Unmarshal([]byte(result[1]), &session); err != nil {
		w.log.Error().Err(err).Msg("Unmarshal error, dropping item")
		return
	}

	if err := w.sessionRepo.Insert(ctx, &session); err != nil {
		w.log.Error().Err(err).
			Str("exam_id", session.ExamID.String()).
			Msg("Insert error, retrying in 5s")
		// Push back to queue for retry.
		w.rdb.RPush(ctx, config.WorkerKey.StudySessionQueue, result[1])
		time.Sleep(5 * time.Second)
	}
}

// drain processes all remaining items in the queue before shutdown.
func (w *SessionIngestWorker) drain(ctx context.Context) {
	drained := 0
	for {
		result, err := w.rdb.LPop(ctx, config.WorkerKey.StudySessionQueue).Result()
		if err != nil {
			break
		}

		var session model.StudySession
		if err := json.Unmarshal([]byte(result), &session); err != nil {
			w.log.Error().Err(err).Msg("Drain unmarshal error")
			continue
		}

		if err := w.sessionRepo.Insert(ctx, &session); err != nil {
			w.log.Error().Err(err).Msg("Drain insert error")
			w.rdb.RPush(ctx, config.WorkerKey.StudySessionQueue, result)
			break
		}
		drained++
	}

	if drained > 0 {
		w.log.Info().Int("count", drained).Msg("Drained remaining sessions")
	}
}
