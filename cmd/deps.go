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
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/ioflow"
	"github.com/kpilake/kpilake/internal/ioledger"
	"github.com/kpilake/kpilake/internal/iometrics"
	"github.com/kpilake/kpilake/internal/iomongo"
	"github.com/kpilake/kpilake/internal/ioobject"
	"github.com/kpilake/kpilake/pkg/dag"
)

// signalContext is cancelled on Ctrl-C or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// runFlows connects to the stores needed by the flows and runs them as
// one pipeline run named after the command.
func runFlows(command string, flows ...ioflow.Flow) error {
	ctx, stop := signalContext()
	defer stop()

	objects, err := ioobject.New(cfg.ObjectStore)
	if err != nil {
		return err
	}
	defer objects.Close()

	rec, err := ioledger.New(ctx, cfg.Ledger)
	if err != nil {
		return err
	}
	defer rec.Close()

	metrics := iometrics.New()
	popts := []ioflow.Option{
		ioflow.OptLedger(rec),
		ioflow.OptMetrics(metrics),
		ioflow.OptExportProgress(os.Stderr),
	}

	for _, f := range flows {
		if f != ioflow.Export {
			continue
		}
		docs, err := iomongo.New(ctx, cfg.DocumentStore)
		if err != nil {
			return err
		}
		defer docs.Close(context.WithoutCancel(ctx))
		popts = append(popts, ioflow.OptDocumentStore(docs))
	}

	p := ioflow.New(cfg, objects, popts...)
	err = p.Run(ctx, command, flows...)

	if perr := metrics.Push(ctx, cfg.Metrics.PushURL, "kpilake_"+command); perr != nil {
		gn.Warn("Cannot push metrics: %s", perr)
	}
	if err != nil {
		return err
	}

	gn.Info("Run <em>%s</em> completed", p.RunID())
	return nil
}

// printError shows the user-facing message of an error. Task failures
// also name the task.
func printError(err error) {
	if err == nil {
		return
	}
	var taskErr *dag.TaskError
	if errors.As(err, &taskErr) {
		gn.Warn("Task <em>%s</em> failed after %d attempt(s)",
			taskErr.Task, taskErr.Attempts)
	}
	var gnErr *gn.Error
	if errors.As(err, &gnErr) {
		gn.PrintErrorMessage(gnErr)
		return
	}
	gn.PrintErrorMessage(err)
}
