package iofs

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/kpilake/kpilake/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	originalErr := errors.New("permission denied")

	tests := []struct {
		name  string
		err   error
		code  gn.ErrorCode
		frag  string
		param string
	}{
		{"create dir", CreateDirError("/test/dir", originalErr),
			errcode.CreateDirError, "cannot create directory", "/test/dir"},
		{"copy file", CopyFileError("/test/config.yaml", originalErr),
			errcode.CopyFileError, "cannot copy file", "/test/config.yaml"},
		{"read file", ReadFileError("/test/a.csv", originalErr),
			errcode.ReadFileError, "cannot read /test/a.csv", "/test/a.csv"},
		{"config format", ConfigFormatError("/test/config.yaml", originalErr),
			errcode.ReadFileError, "invalid config", "/test/config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gnErr, ok := tt.err.(*gn.Error)
			require.True(t, ok, "Error should be of type *gn.Error")
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			require.Len(t, gnErr.Vars, 1)
			assert.Equal(t, tt.param, gnErr.Vars[0])
			assert.ErrorIs(t, gnErr.Err, originalErr)
			assert.Contains(t, gnErr.Err.Error(), tt.frag)
			assert.Contains(t, gnErr.Err.Error(), "iofs",
				"caller function is recorded")
		})
	}
}
