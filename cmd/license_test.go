package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLicenseHeader verifies every source file of the package credits
// the project authors.
func TestLicenseHeader(t *testing.T) {
	files, err := filepath.Glob("*.go")
	require.NoError(t, err)
	for _, f := range files {
		if strings.HasSuffix(f, "_test.go") {
			continue
		}
		data, err := os.ReadFile(f)
		require.NoError(t, err)
		head := string(data[:min(len(data), 300)])
		assert.True(t, strings.HasPrefix(head, "/*\nCopyright"), f)
		assert.Contains(t, head, "The kpilake Authors", f)
	}
}
