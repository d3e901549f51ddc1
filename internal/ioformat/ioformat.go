// Package ioformat encodes and decodes tables as CSV, JSON and Parquet.
package ioformat

import (
	"context"
	"path"
	"strings"

	"github.com/kpilake/kpilake/pkg/table"
)

// Format of a serialized table.
type Format int

const (
	Unknown Format = iota
	CSV
	JSON
	Parquet
)

func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case Parquet:
		return "parquet"
	default:
		return "unknown"
	}
}

// Ext returns the file extension of the format with the leading dot.
func (f Format) Ext() string {
	if f == Unknown {
		return ""
	}
	return "." + f.String()
}

// FormatOf detects the format from the extension of an object key or a
// file name.
func FormatOf(key string) Format {
	switch strings.ToLower(path.Ext(key)) {
	case ".csv":
		return CSV
	case ".json", ".jsonl", ".ndjson":
		return JSON
	case ".parquet", ".pq":
		return Parquet
	default:
		return Unknown
	}
}

// ParseFormat converts a format name to Format.
func ParseFormat(s string) Format {
	return FormatOf("x." + strings.TrimPrefix(s, "."))
}

// Decode reads a table serialized in the given format.
func Decode(ctx context.Context, f Format, data []byte) (*table.Table, error) {
	switch f {
	case CSV:
		return ReadCSV(data)
	case JSON:
		return ReadJSON(data)
	case Parquet:
		return ReadParquet(ctx, data)
	default:
		return nil, UnknownFormatError(f)
	}
}

// Encode serializes a table in the given format.
func Encode(f Format, t *table.Table) ([]byte, error) {
	switch f {
	case CSV:
		return WriteCSV(t)
	case JSON:
		return WriteJSON(t)
	case Parquet:
		return WriteParquet(t)
	default:
		return nil, UnknownFormatError(f)
	}
}
