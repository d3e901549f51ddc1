package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Object store errors
	ObjectStoreConnectionError
	ObjectStoreBucketError
	ObjectStoreReadError
	ObjectStoreWriteError
	ObjectStoreListError

	// Document store errors
	DocumentStoreConnectionError
	DocumentStoreWriteError
	DocumentStoreReadError

	// Format errors
	FormatCSVError
	FormatParquetError
	FormatJSONError

	// Quality gate errors
	QualityEmptyDatasetError
	QualityAllNullColumnError

	// Flow errors
	FlowGraphError
	FlowTaskError
	FlowCancelledError

	// Ledger errors
	LedgerOpenError
	LedgerMigrateError
	LedgerWriteError
	LedgerReadError

	// API errors
	APIServeError

	// Metrics errors
	MetricsPushError
)
