package cli

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk-core/internal/domain/exam"
	"github.com/examdesk/examdesk-core/internal/domain/identity"
	"github.com/examdesk/examdesk-core/pkg/timeutil"
)

var examsCmd = &cobra.Command{
	Use:   "exams",
	Short: "List and edit exam requests",
}

var examCourseID int64

var examsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the exam requests visible to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		view, err := app.exams.ListVisible(cmd.Context(), examCourseID)
		if err != nil {
			return err
		}

		if len(view.Visible) == 0 {
			pterm.Info.Println("No exam requests visible.")
			return nil
		}

		data := pterm.TableData{{"ID", "Group", "Discipline", "Titular", "Date", "Hour", "Room"}}
		for _, r := range view.Visible {
			data = append(data, []string{
				strconv.FormatInt(int64(r.ID), 10),
				r.Group,
				r.Discipline,
				r.Titular,
				r.Date.Format(timeutil.FormatDate),
				timeutil.DisplayHour(r.Hour),
				r.Room,
			})
		}
		if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
			return err
		}

		if !view.CanEdit {
			pterm.Info.Println("Read-only view.")
		}
		return nil
	},
}

var (
	examGroup      string
	examDiscipline string
	examTitular    string
	examAsistent   string
	examDate       string
	examHour       string
	examRoom       string
	examStudentID  int64
)

func draftFromFlags() (exam.Draft, error) {
	date, err := timeutil.ParseDate(examDate)
	if err != nil {
		return exam.Draft{}, fmt.Errorf("invalid --date: %w", err)
	}
	hour, err := timeutil.NormalizeHour(examHour)
	if err != nil {
		return exam.Draft{}, fmt.Errorf("invalid --hour: %w", err)
	}
	return exam.Draft{
		Group:      examGroup,
		Discipline: examDiscipline,
		Titular:    examTitular,
		Asistent:   examAsistent,
		Date:       date,
		Hour:       hour,
		Room:       examRoom,
		StudentID:  identity.UserID(examStudentID),
	}, nil
}

var examsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an exam request",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		draft, err := draftFromFlags()
		if err != nil {
			return err
		}

		created, err := app.examEdits.Create(cmd.Context(), draft)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Created exam request %d.\n", created.ID)
		return nil
	},
}

var examsUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an exam request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exam id %q", args[0])
		}

		draft, err := draftFromFlags()
		if err != nil {
			return err
		}

		updated, err := app.examEdits.Update(cmd.Context(), exam.ExamID(id), draft)
		if err != nil {
			return err
		}
		pterm.Success.Printf("Updated exam request %d.\n", updated.ID)
		return nil
	},
}

var examsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an exam request",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid exam id %q", args[0])
		}

		if err := app.examEdits.Delete(cmd.Context(), exam.ExamID(id)); err != nil {
			return err
		}
		pterm.Success.Printf("Deleted exam request %d.\n", id)
		return nil
	},
}

func addDraftFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&examGroup, "group", "", "student group")
	cmd.Flags().StringVar(&examDiscipline, "discipline", "", "discipline name")
	cmd.Flags().StringVar(&examTitular, "titular", "", "instructor of record")
	cmd.Flags().StringVar(&examAsistent, "asistent", "", "assisting instructor")
	cmd.Flags().StringVar(&examDate, "date", "", "exam date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&examHour, "hour", "", "exam hour (HH:MM)")
	cmd.Flags().StringVar(&examRoom, "room", "", "exam room")
	cmd.Flags().Int64Var(&examStudentID, "student-id", 0, "owning student id (carried through on edits)")
}

func init() {
	examsListCmd.Flags().Int64Var(&examCourseID, "course", 0, "only requests of this course id")
	addDraftFlags(examsCreateCmd)
	addDraftFlags(examsUpdateCmd)

	examsCmd.AddCommand(examsListCmd)
	examsCmd.AddCommand(examsCreateCmd)
	examsCmd.AddCommand(examsUpdateCmd)
	examsCmd.AddCommand(examsDeleteCmd)
}
