package gpu

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

// LineShaderSource is the line-list program: one vec2<f32> attribute at
// location 0, entry points vs_main and fs_main.
//
//go:embed shaders/line.wgsl
var LineShaderSource string

// Shader entry points every program compiled here must export.
const (
	VertexEntryPoint   = "vs_main"
	FragmentEntryPoint = "fs_main"
)

// ErrEmptyShader is returned when asked to compile an empty source.
var ErrEmptyShader = errors.New("gpu: shader source is empty")

// CompileWGSL validates WGSL with naga and returns the SPIR-V words.
func CompileWGSL(source string) ([]uint32, error) {
	if source == "" {
		return nil, ErrEmptyShader
	}
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}
	if len(spirvBytes)%4 != 0 {
		return nil, fmt.Errorf("compile shader: SPIR-V length %d is not word aligned", len(spirvBytes))
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}

// CreateShaderModule compiles source and creates a shader module. When
// useSPIRV is set the naga output is handed to the driver; otherwise the
// WGSL text is, and naga only serves as the validator.
func CreateShaderModule(device hal.Device, label, source string, useSPIRV bool) (hal.ShaderModule, error) {
	words, err := CompileWGSL(source)
	if err != nil {
		return nil, err
	}
	src := hal.ShaderSource{WGSL: source}
	if useSPIRV {
		src = hal.ShaderSource{SPIRV: words}
	}
	module, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  label,
		Source: src,
	})
	if err != nil {
		return nil, fmt.Errorf("create shader module %s: %w", label, err)
	}
	return module, nil
}
