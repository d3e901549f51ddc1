/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>
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
	"github.com/kpilake/kpilake/pkg/config"
	"github.com/spf13/cobra"
)

// addGlobalFlags registers flags available to every command.
func addGlobalFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.IntP("jobs", "j", 0, "number of tasks running at the same time")
	pf.Duration("retry-delay", 0, "pause between attempts of failing I/O tasks")
	pf.String("log-level", "", "log level: debug, info, warn or error")
	pf.String("log-destination", "", "log destination: file, stdout or stderr")
	pf.String("export-strategy", "", "collection replacement: swap or drop")
}

// flagOptions converts flags set on the command line into options.
// Flags left at their defaults do not override the configuration.
func flagOptions(cmd *cobra.Command) []config.Option {
	var res []config.Option
	fs := cmd.Flags()

	if fs.Changed("jobs") {
		n, _ := fs.GetInt("jobs")
		res = append(res, config.OptJobsNumber(n))
	}
	if fs.Changed("retry-delay") {
		d, _ := fs.GetDuration("retry-delay")
		res = append(res, config.OptRetryDelay(d))
	}
	if fs.Changed("log-level") {
		s, _ := fs.GetString("log-level")
		res = append(res, config.OptLogLevel(s))
	}
	if fs.Changed("log-destination") {
		s, _ := fs.GetString("log-destination")
		res = append(res, config.OptLogDestination(s))
	}
	if fs.Changed("export-strategy") {
		s, _ := fs.GetString("export-strategy")
		res = append(res, config.OptExportStrategy(s))
	}
	if fs.Changed("address") {
		s, _ := fs.GetString("address")
		res = append(res, config.OptAPIAddress(s))
	}
	return res
}
