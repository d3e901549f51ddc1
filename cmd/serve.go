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
	"context"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/ioapi"
	"github.com/kpilake/kpilake/internal/iometrics"
	"github.com/kpilake/kpilake/internal/iomongo"
	"github.com/kpilake/kpilake/internal/ioobject"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
func getServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve KPIs over HTTP",
		Long: `Start a read-only JSON API over the KPI collections of MongoDB.

Endpoints:
  /                        list of endpoints
  /health                  liveness probe
  /metrics                 Prometheus metrics
  /api/ca_par_pays         revenue per country
  /api/volumes_jour        daily volumes
  /api/volumes_semaine     weekly volumes
  /api/volumes_mois        monthly volumes
  /api/croissance          month over month growth
  /api/distribution        statistics of purchase amounts
  /api/objects/:bucket     rows of the objects of the gold bucket

The server stops gracefully on Ctrl-C or SIGTERM.

Examples:
  kpilake serve
  kpilake serve --address :9000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runServe()
			if err != nil {
				printError(err)
			}
			return err
		},
	}

	cmd.Flags().StringP(
		"address", "a", "",
		"address to listen on (default \":8000\")",
	)
	return cmd
}

func runServe() error {
	ctx, stop := signalContext()
	defer stop()

	docs, err := iomongo.New(ctx, cfg.DocumentStore)
	if err != nil {
		return err
	}
	defer docs.Close(context.WithoutCancel(ctx))

	objects, err := ioobject.New(cfg.ObjectStore)
	if err != nil {
		return err
	}
	defer objects.Close()

	srv := ioapi.New(docs, objects, iometrics.New(), cfg.ObjectStore.GoldBucket)
	gn.Info("Serving KPIs on <em>%s</em>", cfg.API.Address)
	return srv.Serve(ctx, cfg.API.Address)
}
