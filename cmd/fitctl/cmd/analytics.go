package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/fittrack/fittrack/internal/analytics"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

func AnalyticsCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Print a user's monthly workout and nutrition statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			user, err := a.UserService.ByEmail(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("failed to find %s: %w", email, err)
			}

			report, err := a.AnalyticsService.Monthly(cmd.Context(), user.ID)
			if err != nil {
				return err
			}

			printReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func printReport(report analytics.Report) {
	bold := color.New(color.Bold)
	faint := color.New(color.Faint)
	p := message.NewPrinter(language.English)

	bold.Println("Workouts")
	if len(report.WorkoutStats) == 0 {
		faint.Println("  no workouts recorded")
	} else {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  MONTH\tWORKOUTS\tAVG EXERCISES")
		for _, s := range report.WorkoutStats {
			p.Fprintf(tw, "  %s\t%d\t%.1f\n", s.Month, s.TotalWorkouts, s.AverageExercises)
		}
		_ = tw.Flush()
	}

	fmt.Println()
	bold.Println("Nutrition")
	if len(report.NutritionStats) == 0 {
		faint.Println("  no nutrition entries recorded")
		return
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  MONTH\tCALORIES\tPROTEIN\tCARBS\tFAT")
	for _, s := range report.NutritionStats {
		p.Fprintf(tw, "  %s\t%.0f\t%.1f\t%.1f\t%.1f\n", s.Month, s.AverageCalories, s.AverageProtein, s.AverageCarbs, s.AverageFat)
	}
	_ = tw.Flush()
}
