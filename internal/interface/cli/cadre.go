package cli

import (
	"errors"
	"strconv"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/examdesk/examdesk-core/config"
	"github.com/examdesk/examdesk-core/internal/domain/cadre"
	"github.com/examdesk/examdesk-core/internal/domain/roster"
)

var cadreCmd = &cobra.Command{
	Use:   "cadre",
	Short: "Manage the teaching-staff roster",
}

var cadreDepartment string

var cadreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List teaching staff",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		members, err := app.directory.Cadre(cmd.Context(), cadreDepartment)
		if err != nil {
			return err
		}
		if len(members) == 0 {
			pterm.Info.Println("No staff records.")
			return nil
		}

		data := pterm.TableData{{"ID", "Name", "Email", "Faculty", "Department"}}
		for _, m := range members {
			data = append(data, []string{
				strconv.FormatInt(int64(m.ID), 10),
				m.FullName(),
				m.Email,
				m.Faculty,
				m.Department,
			})
		}
		return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
	},
}

var (
	cadreFirstName string
	cadreLastName  string
	cadreEmail     string
	cadrePhone     string
	cadreFaculty   string
	cadreDeptField string
)

var cadreUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update a staff record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		if !app.cfg.Features.IsEnabled(config.FeatureCadreEdit) {
			return errors.New("cadre edits are disabled in this deployment")
		}

		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return errors.New("invalid member id")
		}

		updated, err := app.directory.UpdateCadre(cmd.Context(), cadre.Member{
			ID:         id,
			FirstName:  cadreFirstName,
			LastName:   cadreLastName,
			Email:      cadreEmail,
			Phone:      cadrePhone,
			Faculty:    cadreFaculty,
			Department: cadreDeptField,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Updated staff record %d (%s).\n", updated.ID, updated.FullName())
		return nil
	},
}

var cadreRepopulateCmd = &cobra.Command{
	Use:   "repopulate",
	Short: "Rebuild the staff roster from the upstream source",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		if !app.cfg.Features.IsEnabled(config.FeatureCadreRepopulate) {
			return errors.New("cadre repopulation is disabled in this deployment")
		}

		result, err := app.directory.RepopulateCadre(cmd.Context())
		if err != nil {
			return err
		}
		pterm.Success.Printf("Roster rebuilt: %d records added.\n", result.Added)
		return nil
	},
}

var cadreAddSecretaryCmd = &cobra.Command{
	Use:   "add-secretary",
	Short: "Create a single secretary account",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := buildApp(cmd)
		if err != nil {
			return err
		}
		defer app.close()

		created, err := app.directory.AddSecretary(cmd.Context(), roster.Person{
			FirstName: cadreFirstName,
			LastName:  cadreLastName,
			Email:     cadreEmail,
		})
		if err != nil {
			return err
		}
		pterm.Success.Printf("Secretary account created for %s.\n", created.Email)
		return nil
	},
}

func addMemberFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cadreFirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&cadreLastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&cadreEmail, "email", "", "email address")
}

func init() {
	cadreListCmd.Flags().StringVar(&cadreDepartment, "department", "", "only this department")

	addMemberFlags(cadreUpdateCmd)
	cadreUpdateCmd.Flags().StringVar(&cadrePhone, "phone", "", "phone number")
	cadreUpdateCmd.Flags().StringVar(&cadreFaculty, "faculty", "", "faculty")
	cadreUpdateCmd.Flags().StringVar(&cadreDeptField, "set-department", "", "department")

	addMemberFlags(cadreAddSecretaryCmd)

	cadreCmd.AddCommand(cadreListCmd)
	cadreCmd.AddCommand(cadreUpdateCmd)
	cadreCmd.AddCommand(cadreRepopulateCmd)
	cadreCmd.AddCommand(cadreAddSecretaryCmd)
}
