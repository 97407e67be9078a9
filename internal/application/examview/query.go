// Package examview assembles the role-scoped exam request views and the
// gated mutations over them.
package examview

import (
	"context"

	"github.com/examdesk/examdesk-core/internal/application/auth"
	"github.com/examdesk/examdesk-core/internal/domain/exam"
	"github.com/examdesk/examdesk-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIST VISIBLE QUERY
// Fetches the full request collection once and scopes it to the caller:
// students see their own rows, teachers the rows naming them as titular,
// everyone else sees everything. An optional course filter narrows the
// result after scoping.
// ══════════════════════════════════════════════════════════════════════════════

// ExamAPI is the slice of the scheduling API the exam services need.
type ExamAPI interface {
	ListExams(ctx context.Context, token string) ([]exam.Request, error)
	CreateExam(ctx context.Context, token string, draft exam.Draft) (exam.Request, error)
	UpdateExam(ctx context.Context, token string, id exam.ExamID, draft exam.Draft) (exam.Request, error)
	DeleteExam(ctx context.Context, token string, id exam.ExamID) error
}

// Query serves the read side.
type Query struct {
	api      ExamAPI
	sessions *auth.SessionStore
	gate     *auth.Gate
	log      *logger.Logger
}

// NewQuery creates the exam view query service.
func NewQuery(api ExamAPI, sessions *auth.SessionStore, gate *auth.Gate, log *logger.Logger) *Query {
	if log == nil {
		log = logger.Default()
	}
	return &Query{
		api:      api,
		sessions: sessions,
		gate:     gate,
		log:      log.With(logger.Component("examview")),
	}
}

// ListVisible returns the caller's scoped view of the request
// collection, optionally narrowed to one course (courseID 0 means no
// course filter). A transport failure yields an empty view and the
// error; the caller renders the empty collection and may retry.
func (q *Query) ListVisible(ctx context.Context, courseID int64) (exam.View, error) {
	if err := q.gate.RequireAuthenticated(ctx); err != nil {
		return exam.View{}, err
	}

	sess := q.sessions.Current()
	if sess.User == nil {
		return exam.View{}, auth.ErrNotAuthenticated
	}
	all, err := q.api.ListExams(ctx, sess.Token)
	if err != nil {
		q.log.Warn("exam fetch failed", logger.Err(err))
		return exam.View{CanEdit: exam.CanEdit(*sess.User)}, err
	}

	view := exam.VisibleTo(all, *sess.User)
	view.Visible = exam.FilterByCourse(view.Visible, courseID)

	q.log.Debug("exam view assembled",
		logger.RoleTag(string(sess.User.Type)),
		logger.RowCount(len(view.Visible)))
	return view, nil
}
