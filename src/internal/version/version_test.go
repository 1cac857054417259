// FILE: faultline/src/internal/version/version_test.go
package version

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString(t *testing.T) {
	assert.Equal(t, "dev", Short())
	assert.True(t, strings.HasPrefix(String(), "dev (commit: unknown"))
	assert.Contains(t, String(), runtime.Version())
	assert.Equal(t, runtime.Version(), Info()["go"])
}
