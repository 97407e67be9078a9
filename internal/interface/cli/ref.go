package cli

import (
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Browse scheduling reference data",
}

var refFacultiesCmd = &cobra.Command{
	Use:   "faculties",
	Short: "List faculties",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		faculties, err := app.directory.Faculties(cmd.Context())
		if err != nil {
			return err
		}
		for _, f := range faculties {
			pterm.Println(f)
		}
		return nil
	},
}

var refFaculty string

var refDepartmentsCmd = &cobra.Command{
	Use:   "departments",
	Short: "List departments of a faculty",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		departments, err := app.directory.Departments(cmd.Context(), refFaculty)
		if err != nil {
			return err
		}
		for _, d := range departments {
			pterm.Println(d)
		}
		return nil
	},
}

var refDepartment string

var refTeachersCmd = &cobra.Command{
	Use:   "teachers",
	Short: "List teachers of a faculty/department",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		teachers, err := app.directory.Teachers(cmd.Context(), refFaculty, refDepartment)
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Name"}}
		for _, t := range teachers {
			data = append(data, []string{
				strconv.FormatInt(t.ID, 10),
				t.LastName + " " + t.FirstName,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var refTeacherCoursesCmd = &cobra.Command{
	Use:   "teacher-courses <teacher-id>",
	Short: "List the courses a teacher is titular for",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return err
		}

		courses, err := app.directory.TeacherCourses(cmd.Context(), id)
		if err != nil {
			return err
		}
		for _, c := range courses {
			pterm.Println(c)
		}
		return nil
	},
}

var refCoursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		courses, err := app.directory.Courses(cmd.Context())
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Name", "Specialization", "Year"}}
		for _, c := range courses {
			data = append(data, []string{
				strconv.FormatInt(c.ID, 10),
				c.Name,
				c.Specialization,
				strconv.Itoa(c.UniversitaryYear),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var refGroupsCmd = &cobra.Command{
	Use:   "groups",
	Short: "List student groups",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		groups, err := app.directory.Groups(cmd.Context())
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Group", "Specialization", "Year"}}
		for _, g := range groups {
			data = append(data, []string{
				strconv.FormatInt(g.ID, 10),
				g.GroupNr,
				g.Specialization,
				strconv.Itoa(g.UniversitaryYear),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var refClassroomsCmd = &cobra.Command{
	Use:   "classrooms",
	Short: "List exam rooms",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		rooms, err := app.directory.Classrooms(cmd.Context())
		if err != nil {
			return err
		}

		data := pterm.TableData{{"ID", "Name", "Capacity"}}
		for _, r := range rooms {
			data = append(data, []string{
				strconv.FormatInt(r.ID, 10),
				r.Name,
				strconv.Itoa(r.Capacity),
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

func init() {
	refDepartmentsCmd.Flags().StringVar(&refFaculty, "faculty", "", "faculty name")
	refTeachersCmd.Flags().StringVar(&refFaculty, "faculty", "", "faculty name")
	refTeachersCmd.Flags().StringVar(&refDepartment, "department", "", "department name")

	refCmd.AddCommand(refFacultiesCmd)
	refCmd.AddCommand(refDepartmentsCmd)
	refCmd.AddCommand(refTeachersCmd)
	refCmd.AddCommand(refTeacherCoursesCmd)
	refCmd.AddCommand(refCoursesCmd)
	refCmd.AddCommand(refGroupsCmd)
	refCmd.AddCommand(refClassroomsCmd)
}
