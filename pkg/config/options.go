package config

import (
	"strings"
	"time"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptObjectStoreBackend sets the object store client.
// Valid values: "minio", "tos".
func OptObjectStoreBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("ObjectStore.Backend", s) {
			c.ObjectStore.Backend = s
		}
	}
}

// OptObjectStoreEndpoint sets host:port of the object store.
func OptObjectStoreEndpoint(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("ObjectStore Endpoint", s) {
			c.ObjectStore.Endpoint = s
		}
	}
}

// OptObjectStoreAccessKey sets the access key of the object store.
func OptObjectStoreAccessKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("ObjectStore Access Key", s) {
			c.ObjectStore.AccessKey = s
		}
	}
}

// OptObjectStoreSecretKey sets the secret key of the object store.
func OptObjectStoreSecretKey(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("ObjectStore Secret Key", s) {
			c.ObjectStore.SecretKey = s
		}
	}
}

// OptObjectStoreSecure enables or disables TLS.
func OptObjectStoreSecure(b bool) Option {
	return func(c *Config) {
		c.ObjectStore.Secure = b
	}
}

// OptObjectStoreRegion sets the region of the object store.
func OptObjectStoreRegion(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("ObjectStore Region", s) {
			c.ObjectStore.Region = s
		}
	}
}

// OptBronzeBucket sets the bucket of raw extracts.
func OptBronzeBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidBucket("Bronze Bucket", s) {
			c.ObjectStore.BronzeBucket = s
		}
	}
}

// OptSilverBucket sets the bucket of cleaned datasets.
func OptSilverBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidBucket("Silver Bucket", s) {
			c.ObjectStore.SilverBucket = s
		}
	}
}

// OptGoldBucket sets the bucket of dimensions, facts and KPIs.
func OptGoldBucket(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidBucket("Gold Bucket", s) {
			c.ObjectStore.GoldBucket = s
		}
	}
}

// OptDocumentStoreURI sets the MongoDB connection string.
func OptDocumentStoreURI(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("DocumentStore URI", s) {
			c.DocumentStore.URI = s
		}
	}
}

// OptDocumentStoreDatabase sets the MongoDB database of KPI collections.
func OptDocumentStoreDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("DocumentStore Database", s) {
			c.DocumentStore.Database = s
		}
	}
}

// OptExportStrategy sets how serving collections are replaced.
// Valid values: "swap", "drop".
func OptExportStrategy(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Export.Strategy", s) {
			c.Export.Strategy = s
		}
	}
}

// OptExportBatchSize sets the number of documents per insert.
func OptExportBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Export Batch Size", i) {
			c.Export.BatchSize = i
		}
	}
}

// OptLedgerBackend sets the run history storage.
// Valid values: "sqlite", "postgres", "none".
func OptLedgerBackend(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Ledger.Backend", s) {
			c.Ledger.Backend = s
		}
	}
}

// OptLedgerPath sets the SQLite file of the run history.
func OptLedgerPath(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ledger Path", s) {
			c.Ledger.Path = s
		}
	}
}

// OptLedgerDSN sets the PostgreSQL connection string of the run history.
func OptLedgerDSN(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Ledger DSN", s) {
			c.Ledger.DSN = s
		}
	}
}

// OptAPIAddress sets the listening address of the read API.
func OptAPIAddress(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("API Address", s) {
			c.API.Address = s
		}
	}
}

// OptMetricsPushURL sets the Prometheus Pushgateway URL.
func OptMetricsPushURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Metrics Push URL", s) {
			c.Metrics.PushURL = s
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stderr", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of tasks running at the same time.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptRetryDelay sets the pause between attempts of failing tasks.
// Zero means retry immediately.
func OptRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		if isValidDuration("Retry Delay", d) {
			c.RetryDelay = d
		}
	}
}

// OptHomeDir sets the home directory for config and log locations.
// Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
