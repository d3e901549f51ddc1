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
	"github.com/kpilake/kpilake/internal/ioflow"
	"github.com/spf13/cobra"
)

// flowCmd builds a command running the given flows.
func flowCmd(use, short, long string, flows ...ioflow.Flow) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Long:  long,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runFlows(use, flows...)
			if err != nil {
				printError(err)
			}
			return err
		},
	}
}

// getSilverCmd returns the silver command.
func getSilverCmd() *cobra.Command {
	return flowCmd("silver", "Clean bronze datasets into silver",
		`Read raw CSV extracts from the bronze bucket, clean them and write
them to the silver bucket as Parquet.

For every dataset (clients, achats) this command:
  1. Drops empty rows and rows repeating a primary key
  2. Parses date columns, unparsable dates become null
  3. Trims text and drops duplicate rows
  4. Checks quality: the dataset is not empty and no column is
     entirely null

A failed quality check stops the flow before anything is written
for that dataset.

Examples:
  kpilake silver
  kpilake silver --jobs 2`,
		ioflow.Silver)
}

// getGoldCmd returns the gold command.
func getGoldCmd() *cobra.Command {
	return flowCmd("gold", "Build dimensions, fact and KPIs",
		`Read silver datasets and write to the gold bucket:

  dim_clients.parquet        clients with year of signup
  dim_temps.parquet          calendar of purchase days
  fact_achats.parquet        purchases with client country
  kpi_volumes_jour.parquet   purchases and revenue per day
  kpi_volumes_semaine.parquet per ISO week
  kpi_volumes_mois.parquet   per month
  kpi_ca_par_pays.parquet    revenue per country
  kpi_croissance.parquet     month over month growth
  kpi_distribution.parquet   statistics of purchase amounts

Examples:
  kpilake gold`,
		ioflow.Gold)
}

// getExportCmd returns the export command.
func getExportCmd() *cobra.Command {
	return flowCmd("export", "Publish KPIs to MongoDB",
		`Read the six KPI artifacts from the gold bucket and replace the
matching MongoDB collections.

With the "swap" strategy documents go to a staging collection which
is then renamed over the target, so readers never see an empty
collection. The "drop" strategy drops the target first.

Examples:
  kpilake export
  kpilake export --export-strategy drop`,
		ioflow.Export)
}

// getRunCmd returns the run command.
func getRunCmd() *cobra.Command {
	return flowCmd("run", "Run silver, gold and export flows",
		`Run the whole pipeline: silver, gold and export flows in this order.
The run stops at the first failed flow, artifacts written before the
failure stay in place. Every run and task is recorded in the ledger,
see 'kpilake history'.

Examples:
  kpilake run
  kpilake run -j 8 --retry-delay 5s`,
		ioflow.AllFlows...)
}
