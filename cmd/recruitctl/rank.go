package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/Dubey-IITB/resume-tracker/internal/bootstrap"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Re-rank the whole candidate pool against a job and print the ordering",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, runRank)
	},
}

func init() {
	rankCmd.Flags().Uint("job-id", 0, "job to rank against")
	_ = viper.BindPFlag("rank.job-id", rankCmd.Flags().Lookup("job-id"))
}

func runRank(ctx context.Context, a *bootstrap.App, log *zap.Logger) error {
	jobID := viper.GetUint("rank.job-id")
	if jobID == 0 {
		return fmt.Errorf("--job-id is required")
	}
	ranking, err := a.Ranking.RankJob(ctx, jobID)
	if err != nil {
		return err
	}
	log.Info("ranked", zap.Uint("job_id", jobID), zap.String("best_match", ranking.BestMatch))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tEMAIL\tNAME\tOVERALL\tJD\tCOMPARATIVE\tSALARY\tBUDGET FIT")
	for _, c := range ranking.Candidates {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.3f\t%.3f\t%.3f\t%.3f\t%s\n",
			c.Rank, c.CandidateEmail, c.Name, c.OverallScore, c.JDMatchScore, c.ComparativeScore, c.SalaryMatchScore, c.SalaryAnalysis.BudgetFit)
	}
	return w.Flush()
}
