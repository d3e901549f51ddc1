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
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/ioformat"
	"github.com/kpilake/kpilake/internal/iolayer"
	"github.com/kpilake/kpilake/internal/ioobject"
	"github.com/spf13/cobra"
)

// getInspectCmd returns the inspect command.
func getInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <bucket> [prefix]",
		Short: "Print the rows of the objects of a bucket",
		Long: `Read every CSV, JSON and Parquet object of a bucket, optionally
limited to keys starting with a prefix, stack them into one table and
print it to STDOUT. Objects that cannot be read are reported and
skipped.

Examples:
  kpilake inspect gold kpi_
  kpilake inspect silver clients --format json
  kpilake inspect --list bronze`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var prefix string
			if len(args) > 1 {
				prefix = args[1]
			}
			format, _ := cmd.Flags().GetString("format")
			list, _ := cmd.Flags().GetBool("list")
			err := runInspect(cmd, args[0], prefix, format, list)
			if err != nil {
				printError(err)
			}
			return err
		},
	}

	cmd.Flags().StringP("format", "f", "csv", "output format: csv or json")
	cmd.Flags().BoolP("list", "l", false, "list objects instead of rows")
	return cmd
}

func runInspect(
	cmd *cobra.Command,
	bucket, prefix, format string,
	list bool,
) error {
	f := ioformat.ParseFormat(format)
	if f != ioformat.CSV && f != ioformat.JSON {
		return ioformat.UnknownFormatError(f)
	}

	ctx, stop := signalContext()
	defer stop()

	objects, err := ioobject.New(cfg.ObjectStore)
	if err != nil {
		return err
	}
	defer objects.Close()
	layer := iolayer.New(objects)
	out := cmd.OutOrStdout()

	if list {
		objs, err := layer.List(ctx, bucket, prefix)
		if err != nil {
			return err
		}
		for _, o := range objs {
			fmt.Fprintf(out, "%s\t%s\t%s\n",
				o.Key, humanize.Bytes(uint64(o.Size)),
				o.LastModified.Format(time.DateTime))
		}
		return nil
	}

	t, errs, err := layer.ReadAll(ctx, bucket, prefix)
	if err != nil {
		return err
	}
	for _, e := range errs {
		gn.Warn("Skipped <em>%s</em>: %s", e.Key, e.Err)
	}

	data, err := ioformat.Encode(f, t)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	if err == nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s rows\n", humanize.Comma(int64(t.Len())))
	}
	return err
}
