package light

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/logger"
)

// GPULightSize is the byte size of one GPULight record.
const GPULightSize = 48

// GPULight is the GPU-aligned representation of a single light source.
// Matches the WGSL Light struct layout exactly.
// Size: 48 bytes (std430 / WGSL aligned).
type GPULight struct {
	Position   [3]float32 // offset  0: world-space position, or direction toward the light for directional
	LightType  uint32     // offset 12: 0 = point, 1 = directional
	Color      [3]float32 // offset 16: RGB color
	Intensity  float32    // offset 28: scalar multiplier
	LightRange float32    // offset 32: attenuation cutoff distance
	_pad       [3]uint32  // offset 36: padding to 48-byte alignment
}

// NewGPULight converts a Light into its GPU record.
func NewGPULight(l Light) GPULight {
	return GPULight{
		Position:   l.Position.Array(),
		LightType:  uint32(l.Type),
		Color:      l.Color.Array(),
		Intensity:  l.Intensity,
		LightRange: l.Range,
	}
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (48)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// MarshalTo writes the record into buf, which must hold at least GPULightSize bytes.
func (g *GPULight) MarshalTo(buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], g.LightType)
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[2]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Intensity))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.LightRange))
	clear(buf[36:48])
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 48-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, GPULightSize)
	g.MarshalTo(buf)
	return buf
}

// GPULightInfo is the uniform that accompanies the light storage buffer.
// Contains the ambient color and the active light count.
// Size: 16 bytes (vec3 + u32).
type GPULightInfo struct {
	AmbientColor [3]float32 // offset 0: scene ambient RGB
	LightCount   uint32     // offset 12: number of valid records in the light buffer
}

// Marshal serializes the GPULightInfo struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (h *GPULightInfo) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(h.AmbientColor[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(h.AmbientColor[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(h.AmbientColor[2]))
	binary.LittleEndian.PutUint32(buf[12:16], h.LightCount)
	return buf
}

// MarshalLightBuffer packs lights into a fixed-capacity storage buffer image. Lights past
// capacity are dropped in order with a warning, so the buffer never grows past
// capacity*GPULightSize bytes. Unused slots are zeroed.
//
// Parameters:
//   - lights: lights in their stable collection order
//   - capacity: number of records the GPU buffer holds
//
// Returns:
//   - []byte: capacity*GPULightSize bytes ready for upload
//   - uint32: number of records written, the value to place in GPULightInfo.LightCount
func MarshalLightBuffer(lights []Light, capacity int) ([]byte, uint32) {
	if capacity < 1 {
		capacity = 1
	}
	n := len(lights)
	if n > capacity {
		logger.Warn("light buffer holds %d lights, dropping %d", capacity, n-capacity)
		n = capacity
	}
	buf := make([]byte, capacity*GPULightSize)
	for i := 0; i < n; i++ {
		g := NewGPULight(lights[i])
		g.MarshalTo(buf[i*GPULightSize : (i+1)*GPULightSize])
	}
	return buf, uint32(n)
}

// GPUShadowUniformSize is the byte size of one GPUShadowUniform.
const GPUShadowUniformSize = 128

// GPUShadowUniform is the per-entity, per-face uniform for the depth-only shadow pass.
//
// Layout:
//
//	mat4x4<f32> model        (64 bytes, offset 0)
//	mat4x4<f32> light_space  (64 bytes, offset 64)
type GPUShadowUniform struct {
	Model      common.Mat4
	LightSpace common.Mat4
}

// Marshal serializes the uniform in column-major order for GPU upload.
//
// Returns:
//   - []byte: 128-byte buffer ready for GPU upload
func (u *GPUShadowUniform) Marshal() []byte {
	buf := make([]byte, GPUShadowUniformSize)
	PutMat4(buf[0:64], u.Model)
	PutMat4(buf[64:128], u.LightSpace)
	return buf
}

// PutMat4 writes m into buf in column-major order as 16 little-endian float32 values.
func PutMat4(buf []byte, m common.Mat4) {
	for i, f := range m.Array() {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], math.Float32bits(f))
	}
}

// PutVec3 writes v into buf as 3 little-endian float32 values.
func PutVec3(buf []byte, v common.Vec3) {
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.Z))
}
