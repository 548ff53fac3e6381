package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/priyankashah3107/notes/internal/mailer"
	"github.com/priyankashah3107/notes/internal/tasks"
)

// ShareEmailHandler processes share notification tasks.
type ShareEmailHandler struct {
	mailer *mailer.Mailer
}

func NewShareEmailHandler(m *mailer.Mailer) *ShareEmailHandler {
	return &ShareEmailHandler{mailer: m}
}

// ProcessTask implements asynq.Handler.
func (h *ShareEmailHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	retryCount, _ := asynq.GetRetryCount(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     retryCount,
	})

	var payload tasks.ShareNotificationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal share notification payload")
		// An undecodable payload will never succeed, so do not retry.
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}
	if payload.ToEmail == "" {
		logCtx.Error("Share notification payload has no recipient")
		return fmt.Errorf("missing recipient: %w", asynq.SkipRetry)
	}
	logCtx = logCtx.WithFields(logrus.Fields{"to": payload.ToEmail, "note_id": payload.NoteID})

	if err := h.mailer.SendShareNotification(
		payload.ToEmail, payload.FromName, payload.FromEmail, payload.NoteID, payload.NoteTitle,
	); err != nil {
		logCtx.WithError(err).Error("Failed to send share notification email")
		return err
	}

	logCtx.Info("Share notification email sent")
	return nil
}
