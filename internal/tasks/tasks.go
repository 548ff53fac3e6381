// Package tasks defines the asynq task types exchanged between the API
// process and the background worker.
package tasks

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"github.com/priyankashah3107/notes/internal/service"
)

const (
	// TypeShareNotification is the email sent when a note is shared.
	TypeShareNotification = "email:share_notification"
)

// ShareNotificationPayload carries everything the worker needs to render
// and send the share email without touching the database.
type ShareNotificationPayload struct {
	ToEmail   string `json:"to_email"`
	FromName  string `json:"from_name"`
	FromEmail string `json:"from_email"`
	NoteID    string `json:"note_id"`
	NoteTitle string `json:"note_title"`
}

// NewShareNotificationTask builds the asynq task for a share notification.
func NewShareNotificationTask(n service.ShareNotification) (*asynq.Task, error) {
	payload, err := json.Marshal(ShareNotificationPayload{
		ToEmail:   n.ToEmail,
		FromName:  n.FromName,
		FromEmail: n.FromEmail,
		NoteID:    n.NoteID,
		NoteTitle: n.NoteTitle,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeShareNotification, payload), nil
}

// Enqueuer pushes notification tasks onto the queue. It implements
// service.Notifier so the share service never sees asynq.
type Enqueuer struct {
	client *asynq.Client
}

func NewEnqueuer(client *asynq.Client) *Enqueuer {
	if client == nil {
		panic("asynq client cannot be nil for Enqueuer")
	}
	return &Enqueuer{client: client}
}

// NotifyShared enqueues the share email on the default queue.
func (e *Enqueuer) NotifyShared(ctx context.Context, n service.ShareNotification) error {
	task, err := NewShareNotificationTask(n)
	if err != nil {
		return err
	}
	_, err = e.client.EnqueueContext(ctx, task, asynq.Queue("default"), asynq.MaxRetry(5))
	return err
}
