package examview

import (
	"context"
	"errors"

	"github.com/examdesk/examdesk-core/internal/application/auth"
	"github.com/examdesk/examdesk-core/internal/domain/exam"
	"github.com/examdesk/examdesk-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXAM MUTATIONS
// Create, update and delete are gated on the edit predicate rather than
// on the type enum alone: a TEACHER type or the literal "SECRETARY" role
// string may edit, nobody else.
// ══════════════════════════════════════════════════════════════════════════════

// ErrNotEditor is returned when the session user fails the edit check.
var ErrNotEditor = errors.New("examview: session user may not edit exam requests")

// Command serves the write side.
type Command struct {
	api      ExamAPI
	sessions *auth.SessionStore
	gate     *auth.Gate
	log      *logger.Logger
}

// NewCommand creates the exam mutation service.
func NewCommand(api ExamAPI, sessions *auth.SessionStore, gate *auth.Gate, log *logger.Logger) *Command {
	if log == nil {
		log = logger.Default()
	}
	return &Command{
		api:      api,
		sessions: sessions,
		gate:     gate,
		log:      log.With(logger.Component("examview")),
	}
}

// requireEditor checks authentication and the edit predicate.
func (c *Command) requireEditor(ctx context.Context) (string, error) {
	if err := c.gate.RequireAuthenticated(ctx); err != nil {
		return "", err
	}
	sess := c.sessions.Current()
	if sess.User == nil || !exam.CanEdit(*sess.User) {
		return "", ErrNotEditor
	}
	return sess.Token, nil
}

// Create submits a new exam request.
func (c *Command) Create(ctx context.Context, draft exam.Draft) (exam.Request, error) {
	token, err := c.requireEditor(ctx)
	if err != nil {
		return exam.Request{}, err
	}

	created, err := c.api.CreateExam(ctx, token, draft)
	if err != nil {
		c.log.Warn("exam create failed", logger.Err(err))
		return exam.Request{}, err
	}
	c.log.Info("exam request created", logger.ExamIDField(int64(created.ID)))
	return created, nil
}

// Update replaces the mutable fields of an existing request. The draft
// carries the original StudentID so ownership survives the edit.
func (c *Command) Update(ctx context.Context, id exam.ExamID, draft exam.Draft) (exam.Request, error) {
	token, err := c.requireEditor(ctx)
	if err != nil {
		return exam.Request{}, err
	}
	if !id.IsValid() {
		return exam.Request{}, errors.New("examview: invalid exam id")
	}

	updated, err := c.api.UpdateExam(ctx, token, id, draft)
	if err != nil {
		c.log.Warn("exam update failed", logger.ExamIDField(int64(id)), logger.Err(err))
		return exam.Request{}, err
	}
	c.log.Info("exam request updated", logger.ExamIDField(int64(id)))
	return updated, nil
}

// Delete removes a request.
func (c *Command) Delete(ctx context.Context, id exam.ExamID) error {
	token, err := c.requireEditor(ctx)
	if err != nil {
		return err
	}
	if !id.IsValid() {
		return errors.New("examview: invalid exam id")
	}

	if err := c.api.DeleteExam(ctx, token, id); err != nil {
		c.log.Warn("exam delete failed", logger.ExamIDField(int64(id)), logger.Err(err))
		return err
	}
	c.log.Info("exam request deleted", logger.ExamIDField(int64(id)))
	return nil
}
