package directory

import (
	"context"

	"github.com/examdesk/examdesk-core/internal/infrastructure/external/schedapi"
	"github.com/examdesk/examdesk-core/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REFERENCE DATA
// Lookup chains the scheduling surfaces build their pickers from:
// faculty → department → teacher → courses, plus the flat course,
// group and classroom lists. All read-only and session-gated.
// ══════════════════════════════════════════════════════════════════════════════

// Faculties lists the known faculties.
func (s *Service) Faculties(ctx context.Context) ([]string, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	return s.api.Faculties(ctx, s.sessions.Token())
}

// Departments lists the departments of one faculty.
func (s *Service) Departments(ctx context.Context, faculty string) ([]string, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	return s.api.Departments(ctx, s.sessions.Token(), faculty)
}

// Teachers lists the teachers of one faculty/department.
func (s *Service) Teachers(ctx context.Context, faculty, department string) ([]schedapi.TeacherRefDTO, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	return s.api.Teachers(ctx, s.sessions.Token(), faculty, department)
}

// TeacherCourses lists the course names one teacher is titular for.
func (s *Service) TeacherCourses(ctx context.Context, teacherID int64) ([]string, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	return s.api.TeacherCourses(ctx, s.sessions.Token(), teacherID)
}

// Courses lists every course.
func (s *Service) Courses(ctx context.Context) ([]schedapi.CourseDTO, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	courses, err := s.api.Courses(ctx, s.sessions.Token())
	if err != nil {
		s.log.Warn("course fetch failed", logger.Err(err))
		return nil, err
	}
	return courses, nil
}

// Groups lists every student group.
func (s *Service) Groups(ctx context.Context) ([]schedapi.GroupDTO, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	return s.api.CompleteGroups(ctx, s.sessions.Token())
}

// Classrooms lists every exam room.
func (s *Service) Classrooms(ctx context.Context) ([]schedapi.ClassroomDTO, error) {
	if err := s.gate.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}
	return s.api.Classrooms(ctx, s.sessions.Token())
}
