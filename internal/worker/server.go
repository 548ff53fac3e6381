// Package worker runs the asynq background worker that delivers email.
package worker

import (
	"context"
	"errors"
	"net/http"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/mailer"
	"github.com/priyankashah3107/notes/internal/tasks"
)

// WorkerServer wraps the asynq server plus its task handlers.
type WorkerServer struct {
	server *asynq.Server
	log    *logrus.Entry
	mailer *mailer.Mailer
}

func NewWorkerServer(redisOpt asynq.RedisClientOpt, m *mailer.Mailer, logger *logrus.Logger) *WorkerServer {
	logEntry := logger.WithField("component", "worker_server")

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				taskID := ""
				if rw := task.ResultWriter(); rw != nil {
					taskID = rw.TaskID()
				}
				retryCount, _ := asynq.GetRetryCount(ctx)
				maxRetry, _ := asynq.GetMaxRetry(ctx)
				logEntry.WithFields(logrus.Fields{
					"task_id":   taskID,
					"task_type": task.Type(),
					"retries":   retryCount,
					"max_retry": maxRetry,
				}).Errorf("Task failed: %v", err)
			}),
		},
	)

	return &WorkerServer{
		server: server,
		log:    logEntry,
		mailer: m,
	}
}

// Start runs the worker. It blocks, so call it from a goroutine.
func (ws *WorkerServer) Start() {
	mux := asynq.NewServeMux()

	shareEmailHandler := NewShareEmailHandler(ws.mailer)
	mux.HandleFunc(tasks.TypeShareNotification, shareEmailHandler.ProcessTask)

	ws.log.Info("Worker server starting...")
	if err := ws.server.Run(mux); err != nil {
		if !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Fatalf("Could not run worker server: %v", err)
		} else {
			ws.log.Info("Worker server stopped.")
		}
	}
}

// Shutdown stops the worker, waiting for in-flight tasks.
func (ws *WorkerServer) Shutdown() {
	ws.log.Info("Shutting down worker server...")
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
