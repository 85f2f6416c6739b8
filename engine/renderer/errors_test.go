package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifySurfaceError(t *testing.T) {
	assert.Nil(t, classifySurfaceError(nil))

	tests := []struct {
		msg         string
		want        error
		recoverable bool
	}{
		{"wgpu.(*Surface).GetCurrentTexture(): Surface is outdated", ErrSurfaceOutdated, true},
		{"wgpu.(*Surface).GetCurrentTexture(): Surface lost", ErrSurfaceLost, true},
		{"wgpu.(*Surface).GetCurrentTexture(): Timeout acquiring texture", ErrSurfaceTimeout, true},
		{"wgpu.(*Surface).GetCurrentTexture(): Parent device is lost", nil, false},
		{"out of memory", nil, false},
	}
	for _, tt := range tests {
		err := classifySurfaceError(errors.New(tt.msg))
		assert.Equal(t, tt.recoverable, IsRecoverable(err), tt.msg)
		if tt.want != nil {
			assert.ErrorIs(t, err, tt.want, tt.msg)
		}
		assert.Contains(t, err.Error(), tt.msg)
	}
}

func TestCheckSurfaceSize(t *testing.T) {
	assert.NoError(t, checkSurfaceSize(800, 600))

	for _, size := range [][2]int{{0, 0}, {800, 0}, {0, 600}, {-1, 10}} {
		err := checkSurfaceSize(size[0], size[1])
		assert.ErrorIs(t, err, ErrSurfaceOutdated)
		assert.True(t, IsRecoverable(err))
	}
}
