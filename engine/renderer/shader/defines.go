package shader

import "strconv"

// Define names filled in by SampleDefines.
const (
	DefineSampleCount  = "SAMPLE_COUNT"
	DefineColorTexture = "COLOR_TEXTURE"
	DefineDepthTexture = "DEPTH_TEXTURE"
)

// SampleDefines returns the defines that let one source read G-buffer style targets at
// either sample count. textureLoad takes an i32 third argument in both forms: the sample
// index for multisampled textures and the mip level otherwise, so a loop over
// 0..SAMPLE_COUNT reads correctly either way.
//
// Parameters:
//   - sampleCount: the sample count of the bound textures
//
// Returns:
//   - map[string]string: values for SAMPLE_COUNT, COLOR_TEXTURE and DEPTH_TEXTURE
func SampleDefines(sampleCount uint32) map[string]string {
	if sampleCount <= 1 {
		return map[string]string{
			DefineSampleCount:  "1",
			DefineColorTexture: "texture_2d<f32>",
			DefineDepthTexture: "texture_depth_2d",
		}
	}
	return map[string]string{
		DefineSampleCount:  strconv.FormatUint(uint64(sampleCount), 10),
		DefineColorTexture: "texture_multisampled_2d<f32>",
		DefineDepthTexture: "texture_depth_multisampled_2d",
	}
}
