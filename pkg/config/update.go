package config

import (
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int

	strOpts := []struct {
		val string
		opt func(string) Option
	}{
		{c.ObjectStore.Backend, OptObjectStoreBackend},
		{c.ObjectStore.Endpoint, OptObjectStoreEndpoint},
		{c.ObjectStore.AccessKey, OptObjectStoreAccessKey},
		{c.ObjectStore.SecretKey, OptObjectStoreSecretKey},
		{c.ObjectStore.Region, OptObjectStoreRegion},
		{c.ObjectStore.BronzeBucket, OptBronzeBucket},
		{c.ObjectStore.SilverBucket, OptSilverBucket},
		{c.ObjectStore.GoldBucket, OptGoldBucket},
		{c.DocumentStore.URI, OptDocumentStoreURI},
		{c.DocumentStore.Database, OptDocumentStoreDatabase},
		{c.Export.Strategy, OptExportStrategy},
		{c.Ledger.Backend, OptLedgerBackend},
		{c.Ledger.Path, OptLedgerPath},
		{c.Ledger.DSN, OptLedgerDSN},
		{c.API.Address, OptAPIAddress},
		{c.Metrics.PushURL, OptMetricsPushURL},
		{c.Log.Format, OptLogFormat},
		{c.Log.Level, OptLogLevel},
		{c.Log.Destination, OptLogDestination},
	}
	for _, v := range strOpts {
		s = v.val
		if s != "" {
			res = append(res, v.opt(s))
		}
	}

	res = append(res, OptObjectStoreSecure(c.ObjectStore.Secure))

	i = c.Export.BatchSize
	if i > 0 {
		res = append(res, OptExportBatchSize(i))
	}

	i = c.JobsNumber
	if i > 0 {
		res = append(res, OptJobsNumber(i))
	}

	if c.RetryDelay >= 0 {
		res = append(res, OptRetryDelay(c.RetryDelay))
	}
	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidDuration(name string, d time.Duration) bool {
	res := d >= 0
	if !res {
		gn.Warn("<em>%s</em> cannot be negative, ignoring %s", name, d)
	}
	return res
}

// bucketRe follows S3 bucket naming rules.
var bucketRe = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]{1,61}[a-z0-9]$`)

func isValidBucket(name, s string) bool {
	res := bucketRe.MatchString(s)
	if !res {
		gn.Warn(
			"<em>%s</em> '%s' is not a valid bucket name, ignoring",
			name, s,
		)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"ObjectStore.Backend": {"minio": s, "tos": s},
		"Export.Strategy":     {"swap": s, "drop": s},
		"Ledger.Backend":      {"sqlite": s, "postgres": s, "none": s},
		"Log.Level":           {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":          {"json": s, "text": s},
		"Log.Destination":     {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	} else {
		gn.Warn(
			"<em>%s</em> does not support '%s' as a value. "+
				"Valid values are: \n%s\nIgnoring...",
			name, val, strings.Join(lines, "\n"),
		)
		return false
	}
}
