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
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/internal/iofs"
	"github.com/kpilake/kpilake/internal/iolayer"
	"github.com/kpilake/kpilake/internal/ioobject"
	"github.com/spf13/cobra"
)

// getUploadCmd returns the upload command.
func getUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload <file>...",
		Short: "Upload raw extracts to the bronze bucket",
		Long: `Copy local files to the bronze bucket. The object key is the base
name of a file, so clients.csv and achats.csv become the inputs of the
silver flow.

Examples:
  kpilake upload data/clients.csv data/achats.csv
  kpilake upload --bucket archive data/*.csv`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			bucket, _ := cmd.Flags().GetString("bucket")
			err := runUpload(bucket, args)
			if err != nil {
				printError(err)
			}
			return err
		},
	}

	cmd.Flags().StringP(
		"bucket", "b", "",
		"target bucket (default is the bronze bucket)",
	)
	return cmd
}

func runUpload(bucket string, paths []string) error {
	if bucket == "" {
		bucket = cfg.ObjectStore.BronzeBucket
	}

	ctx, stop := signalContext()
	defer stop()

	objects, err := ioobject.New(cfg.ObjectStore)
	if err != nil {
		return err
	}
	defer objects.Close()
	layer := iolayer.New(objects)

	for _, path := range paths {
		data, err := iofs.ReadFile(path)
		if err != nil {
			return err
		}
		key := filepath.Base(path)
		if err = layer.Put(ctx, bucket, key, data); err != nil {
			return err
		}
		gn.Info("Uploaded <em>%s/%s</em> (%s)",
			bucket, key, humanize.Bytes(uint64(len(data))))
	}
	return nil
}
