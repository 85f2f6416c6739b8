package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("object", WithBuffer(1, nil))
	assert.Equal(t, "object", p.Label())
	assert.True(t, p.HasBuffer(1))
	assert.False(t, p.HasBuffer(0))
	assert.Nil(t, p.BindGroup())
	assert.Nil(t, p.VertexBuffer())
}

func TestReleaseClearsCounts(t *testing.T) {
	p := NewBindGroupProvider("mesh")
	p.SetIndexCount(36)
	p.SetVertexCount(8)
	p.SetBuffer(0, nil)
	p.Release()
	assert.Zero(t, p.IndexCount())
	assert.Zero(t, p.VertexCount())
	assert.False(t, p.HasBuffer(0))
}
