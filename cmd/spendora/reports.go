package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/Veraticus/spendora/internal/model"
	"github.com/Veraticus/spendora/internal/training"
)

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Show short spending insights",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			for _, line := range a.engine.Insights(cmd.Context()).Lines {
				fmt.Fprintf(cmd.OutOrStdout(), "• %s\n", line)
			}
			return nil
		},
	}
}

func kpisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Show suggestion quality metrics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			report, err := a.kpis.Compute(cmd.Context())
			if err != nil {
				return err
			}
			return printKPIs(cmd.OutOrStdout(), report)
		},
	}
}

func printKPIs(out io.Writer, report model.AIKpiReport) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s\t%d\n", labelStyle.Render("Suggestions"), report.Total)
	fmt.Fprintf(w, "%s\t%d\n", labelStyle.Render("With feedback"), report.Feedback)
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Acceptance rate"), percent(report.AcceptanceRate))
	fmt.Fprintf(w, "%s\t%s\n", labelStyle.Render("Override rate"), percent(report.OverrideRate))
	fmt.Fprintf(w, "%s\t%s\n\n", labelStyle.Render("GPT fallback rate"), percent(report.GPTFallbackRate))

	fmt.Fprintf(w, "%s\t%s\t%s\n", headerStyle.Render("Source"), headerStyle.Render("Count"), headerStyle.Render("Share"))
	fmt.Fprintf(w, "%s\t%s\t%s\n", strings.Repeat("─", 14), strings.Repeat("─", 6), strings.Repeat("─", 7))
	for _, s := range report.SourceBreakdown {
		fmt.Fprintf(w, "%s\t%d\t%s\n", s.Source, s.Count, percent(s.Share))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		headerStyle.Render("Category"),
		headerStyle.Render("Validated"),
		headerStyle.Render("Accepted"),
		headerStyle.Render("Precision"))
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
		strings.Repeat("─", 14), strings.Repeat("─", 9), strings.Repeat("─", 8), strings.Repeat("─", 9))
	for _, c := range report.CategoryPrecision {
		fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", c.Category, c.Validated, c.Accepted, percent(c.Precision))
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.1f%%", ratio*100)
}

func exportTrainingCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export-training",
		Short: "Export validated suggestions as JSONL fine-tuning data",
		Long: `Render every validated suggestion as a chat-format JSONL line. Lines are
printed to stdout unless --out names a file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(cmd.Context(), appOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = a.close() }()

			data, err := a.exporter.Export(cmd.Context())
			if err != nil {
				return err
			}

			if outPath == "" {
				return training.WriteJSONL(cmd.OutOrStdout(), data)
			}
			if err := writeTrainingFile(outPath, data, cmd.ErrOrStderr()); err != nil {
				return err
			}

			slog.Info("Exported training data", "path", outPath, "lines", data.Count)
			fmt.Fprintln(cmd.ErrOrStderr(), data.Note)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write JSONL to this file")

	return cmd
}

func writeTrainingFile(path string, data model.TrainingData, progress io.Writer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", path, closeErr)
		}
	}()

	var size int64
	for _, line := range data.Lines {
		size += int64(len(line)) + 1
	}

	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("Writing training data"),
		progressbar.OptionShowBytes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(progress)
		}),
	)

	if err := training.WriteJSONL(io.MultiWriter(f, bar), data); err != nil {
		return err
	}
	return bar.Finish()
}
