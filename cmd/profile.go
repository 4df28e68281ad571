package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"golestoon/pkg/golestan"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your student record from Golestan",
	Long: `Log in with the saved credentials and download the student profile and
transcript. The record is kept in the data directory; --offline shows the
last download without contacting the portal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		offline, _ := cmd.Flags().GetBool("offline")
		asJSON, _ := cmd.Flags().GetBool("json")

		ws, err := openWorkspace()
		if err != nil {
			return err
		}

		var student golestan.Student
		if offline {
			if err := ws.Store.LoadProfile(&student); err != nil {
				return err
			}
		} else {
			passphrase, err := passphraseFor(ws.Vault())
			if err != nil {
				return err
			}
			creds, err := ws.Vault().Resolve(passphrase)
			if err != nil {
				return fmt.Errorf("no portal credentials (run `golestoon login`): %w", err)
			}
			client, err := ws.NewClient()
			if err != nil {
				return err
			}
			if err := client.Login(cmd.Context(), creds.Username, creds.Password); err != nil {
				return err
			}
			fmt.Println(accentStyle.Render("Downloading your record..."))
			rec, err := client.FetchStudentRecord(cmd.Context())
			if err != nil {
				return err
			}
			rec.UpdatedAt = time.Now()
			student = *rec
			if err := ws.Store.SaveProfile(student); err != nil {
				return err
			}
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(student)
		}
		printStudent(&student)
		return nil
	},
}

func printStudent(s *golestan.Student) {
	heading(fmt.Sprintf("%s  (%s)", s.Name, s.ID))
	fmt.Printf("Major:       %s, %s\n", s.Major, s.Faculty)
	fmt.Printf("Degree:      %s %s\n", s.DegreeLevel, s.StudyType)
	fmt.Printf("Status:      %s, registration %s\n", s.EnrollmentStatus, yesNo(s.RegistrationPermission))
	fmt.Printf("GPA:         %.2f over %.0f passed units\n", s.OverallGPA, s.TotalUnitsPassed)
	if s.TotalProbation > 0 {
		warn("Probation: %d total, %d consecutive", s.TotalProbation, s.ConsecutiveProbation)
	}
	if !s.UpdatedAt.IsZero() {
		dimColor.Printf("Updated %s\n", s.UpdatedAt.Format(time.DateTime))
	}

	if len(s.Semesters) == 0 {
		return
	}
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Semester", "Units", "Passed", "GPA", "Cumulative", "Status"})
	table.SetAutoFormatHeaders(false)
	for _, sem := range s.Semesters {
		table.Append([]string{
			sem.Description,
			strconv.FormatFloat(sem.UnitsTaken, 'f', -1, 64),
			strconv.FormatFloat(sem.UnitsPassed, 'f', -1, 64),
			fmt.Sprintf("%.2f", sem.GPA),
			fmt.Sprintf("%.2f", sem.CumulativeGPA),
			sem.Status,
		})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(profileCmd)

	profileCmd.Flags().Bool("offline", false, "Show the last downloaded record")
	profileCmd.Flags().Bool("json", false, "Print the record as JSON")
}
