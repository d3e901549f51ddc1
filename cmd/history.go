/*
Copyright © 2026 The kpilake Authors

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/gnames/gnfmt"
	"github.com/kpilake/kpilake/internal/ioledger"
	"github.com/kpilake/kpilake/pkg/ledger"
	"github.com/spf13/cobra"
)

// getHistoryCmd returns the history command.
func getHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs and their tasks",
		Long: `Print the most recent pipeline runs recorded in the ledger, newest
first. With --run the tasks of one run are printed in the order they
finished.

Examples:
  kpilake history
  kpilake history -n 5
  kpilake history --run 0b7c6a8e-3f35-4c3e-9d7b-0d2b1c7f9a11`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			runID, _ := cmd.Flags().GetString("run")
			err := runHistory(cmd.OutOrStdout(), limit, runID)
			if err != nil {
				printError(err)
			}
			return err
		},
	}

	cmd.Flags().IntP("limit", "n", 10, "number of runs to show")
	cmd.Flags().StringP("run", "r", "", "show tasks of the run with this ID")
	return cmd
}

func runHistory(w io.Writer, limit int, runID string) error {
	ctx, stop := signalContext()
	defer stop()

	rec, err := ioledger.New(ctx, cfg.Ledger)
	if err != nil {
		return err
	}
	defer rec.Close()

	if runID != "" {
		tasks, err := rec.Tasks(ctx, runID)
		if err != nil {
			return err
		}
		printTasks(w, tasks)
		return nil
	}

	runs, err := rec.Recent(ctx, limit)
	if err != nil {
		return err
	}
	printRuns(w, runs)
	return nil
}

func printRuns(w io.Writer, runs []ledger.RunRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOMMAND\tSTATUS\tSTARTED\tDURATION\tERROR")
	for _, r := range runs {
		var dur string
		if !r.FinishedAt.IsZero() {
			dur = gnfmt.TimeString(r.FinishedAt.Sub(r.StartedAt).Seconds())
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Command, r.Status,
			r.StartedAt.Local().Format(time.DateTime), dur, r.Error)
	}
	tw.Flush()
}

func printTasks(w io.Writer, tasks []ledger.TaskRecord) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FLOW\tTASK\tSTATUS\tATTEMPTS\tDURATION\tERROR")
	for _, t := range tasks {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			t.Flow, t.Task, t.Status, t.Attempts,
			t.Duration.Round(time.Millisecond), t.Error)
	}
	tw.Flush()
}
