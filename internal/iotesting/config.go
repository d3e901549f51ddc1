// Package iotesting provides shared test utilities: in-memory object and
// document stores and a configuration isolated from the user home.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kpilake/kpilake/pkg/config"
)

const (
	// TestDatabaseName is the document database used by integration tests.
	// This ensures tests never accidentally run against serving data.
	TestDatabaseName = "kpilake_test"
)

// TestConfig returns a configuration for tests: home, ledger and logs are
// inside a temporary directory, retries do not wait and the document
// database is TestDatabaseName.
func TestConfig(t *testing.T) *config.Config {
	t.Helper()
	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptDocumentStoreDatabase(TestDatabaseName),
		config.OptLedgerPath(filepath.Join(home, "ledger.db")),
		config.OptLogDestination("stderr"),
		config.OptRetryDelay(time.Millisecond),
		config.OptJobsNumber(4),
	})
	return cfg
}

// EnvOrSkip returns the value of an environment variable or skips the test
// when it is unset or when tests run with -short.
func EnvOrSkip(t *testing.T, name string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	res := os.Getenv(name)
	if res == "" {
		t.Skipf("skipping integration test, %s is not set", name)
	}
	return res
}
