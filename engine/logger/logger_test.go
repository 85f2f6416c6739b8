package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		_ = SetLevel("info")
	})

	require.NoError(t, SetLevel("warn"))
	Info("hidden %d", 1)
	assert.Empty(t, buf.String())

	Warn("light buffer truncated to %d", 100)
	assert.Contains(t, buf.String(), "light buffer truncated to 100")

	assert.Error(t, SetLevel("loud"))
}
