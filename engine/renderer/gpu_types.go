package renderer

import (
	"encoding/binary"
	"math"

	"github.com/Carmen-Shannon/neothauma/common"
	"github.com/Carmen-Shannon/neothauma/engine/light"
)

// GPUObjectUniformSize is the byte size of one GPUObjectUniform.
const GPUObjectUniformSize = 368

// GPUObjectUniform is the per-entity uniform block of the main pass.
// Matches the WGSL ObjectUniforms struct layout exactly.
//
// Layout:
//
//	mat4x4<f32> model            (offset   0)
//	mat4x4<f32> view             (offset  64)
//	mat4x4<f32> projection       (offset 128)
//	mat4x4<f32> normal_matrix    (offset 192)
//	mat4x4<f32> light_space      (offset 256)
//	vec3<f32>   camera_pos       (offset 320)
//	f32         light_far        (offset 332)
//	vec3<f32>   light_pos        (offset 336)
//	f32         light_near       (offset 348)
//	u32         shadow_enabled   (offset 352, struct padded to 368)
type GPUObjectUniform struct {
	Model          common.Mat4
	View           common.Mat4
	Projection     common.Mat4
	NormalMatrix   common.Mat4
	LightSpace     common.Mat4
	CameraPosition common.Vec3
	LightFar       float32
	LightPosition  common.Vec3
	LightNear      float32
	ShadowEnabled  bool
}

// Marshal serializes the uniform in WGSL layout for GPU upload.
//
// Returns:
//   - []byte: 368-byte buffer ready for GPU upload
func (u *GPUObjectUniform) Marshal() []byte {
	buf := make([]byte, GPUObjectUniformSize)
	light.PutMat4(buf[0:64], u.Model)
	light.PutMat4(buf[64:128], u.View)
	light.PutMat4(buf[128:192], u.Projection)
	light.PutMat4(buf[192:256], u.NormalMatrix)
	light.PutMat4(buf[256:320], u.LightSpace)
	light.PutVec3(buf[320:332], u.CameraPosition)
	putFloat32(buf[332:336], u.LightFar)
	light.PutVec3(buf[336:348], u.LightPosition)
	putFloat32(buf[348:352], u.LightNear)
	if u.ShadowEnabled {
		binary.LittleEndian.PutUint32(buf[352:356], 1)
	}
	return buf
}

func putFloat32(buf []byte, f float32) {
	binary.LittleEndian.PutUint32(buf, math.Float32bits(f))
}
