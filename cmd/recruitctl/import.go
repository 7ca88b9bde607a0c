package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Dubey-IITB/resume-tracker/internal/bootstrap"
	"github.com/Dubey-IITB/resume-tracker/internal/usecase"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import every PDF in a directory and optionally rank them against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, runImport)
	},
}

func init() {
	importCmd.Flags().String("dir", "", "directory holding PDF resumes")
	importCmd.Flags().Float64("current-ctc", 0, "current CTC applied to every imported resume")
	importCmd.Flags().Float64("expected-ctc", 0, "expected CTC applied to every imported resume")
	importCmd.Flags().String("jd-file", "", "job description file; when set the pool is ranked against a new job")
	importCmd.Flags().Float64("budget", 0, "job budget, required with --jd-file")

	for _, name := range []string{"dir", "current-ctc", "expected-ctc", "jd-file", "budget"} {
		_ = viper.BindPFlag("import."+name, importCmd.Flags().Lookup(name))
	}
}

func runImport(ctx context.Context, a *bootstrap.App, log *zap.Logger) error {
	dir := viper.GetString("import.dir")
	if dir == "" {
		return fmt.Errorf("--dir is required")
	}
	uploads, err := readResumeDir(dir, viper.GetFloat64("import.current-ctc"), viper.GetFloat64("import.expected-ctc"))
	if err != nil {
		return err
	}
	log.Info("importing resumes", zap.String("dir", dir), zap.Int("files", len(uploads)))

	jdFile := viper.GetString("import.jd-file")
	if jdFile == "" {
		return printJSON(a.Candidates.ProcessBatch(ctx, uploads))
	}

	jd, err := os.ReadFile(jdFile)
	if err != nil {
		return fmt.Errorf("read job description: %w", err)
	}
	out, err := a.Candidates.ProcessAndMatch(ctx, string(jd), viper.GetFloat64("import.budget"), uploads)
	if err != nil {
		return err
	}
	return printJSON(out)
}

func readResumeDir(dir string, currentCTC, expectedCTC float64) ([]usecase.Upload, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var uploads []usecase.Upload
	for _, e := range entries {
		if e.IsDir() || strings.ToLower(filepath.Ext(e.Name())) != ".pdf" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		uploads = append(uploads, usecase.Upload{
			FileName:    e.Name(),
			Data:        data,
			CurrentCTC:  currentCTC,
			ExpectedCTC: expectedCTC,
		})
	}
	if len(uploads) == 0 {
		return nil, fmt.Errorf("no PDF files in %s", dir)
	}
	sort.Slice(uploads, func(i, j int) bool { return uploads[i].FileName < uploads[j].FileName })
	return uploads, nil
}
