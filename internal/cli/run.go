package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tabulr/timetabler/internal/csvio"
	"github.com/tabulr/timetabler/internal/scheduler"
	"github.com/tabulr/timetabler/pkg/model"
)

// NewRunCmd builds the one-shot scheduling command: load CSV inputs, run a
// single allocation pass, print the table, optionally export it.
func NewRunCmd() *cobra.Command {
	var (
		coursesFile string
		busyFile    string
		outFile     string
		delimiter   string
		days        int
		periods     int
		rooms       int
		slotBudget  int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule courses from CSV files",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(delimiter) != 1 {
				return errors.New("delimiter must be a single character")
			}
			delim := rune(delimiter[0])

			if periods == 0 {
				periods = scheduler.PeriodsForBudget(days, slotBudget)
			}

			courses, err := csvio.LoadCourses(coursesFile, delim)
			if err != nil {
				return err
			}

			var unavailability map[string]model.SlotSet
			if busyFile != "" {
				unavailability, err = csvio.LoadUnavailability(busyFile, delim)
				if err != nil {
					return err
				}
			}

			cfg := scheduler.Config{
				Days:           days,
				PeriodsPerDay:  periods,
				Rooms:          rooms,
				Unavailability: unavailability,
			}
			result, err := scheduler.New(nil, nil).Run(courses, cfg)
			if err != nil {
				return err
			}

			csvio.PrintResult(cmd.OutOrStdout(), result)

			if _, msg := scheduler.Audit(result, cfg); msg != "" {
				fmt.Fprint(cmd.OutOrStdout(), msg)
			}
			if result.Err != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), result.Err)
			}

			if outFile != "" {
				path, err := csvio.ExportResult(result, outFile)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Exported output to: "+path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&coursesFile, "courses", "", "courses CSV file (required)")
	cmd.Flags().StringVar(&busyFile, "busy", "", "teacher unavailability CSV file")
	cmd.Flags().StringVar(&outFile, "out", "", "export the schedule to this CSV file")
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "CSV field delimiter")
	cmd.Flags().IntVar(&days, "days", 5, "number of days in the grid (1-7)")
	cmd.Flags().IntVar(&periods, "periods", 0, "periods per day (0 derives from --slot-budget)")
	cmd.Flags().IntVar(&rooms, "rooms", 0, "max courses per slot (0 = unlimited)")
	cmd.Flags().IntVar(&slotBudget, "slot-budget", scheduler.DefaultSlotBudget, "weekly slot total used when --periods is unset")
	_ = cmd.MarkFlagRequired("courses")

	return cmd
}
