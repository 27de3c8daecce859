package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// ColorTarget is a single-sample colour texture used as an offscreen
// presentation image. It is a render attachment and a copy source so the
// rendered frame can be read back.
type ColorTarget struct {
	Texture hal.Texture
	View    hal.TextureView
	Format  gputypes.TextureFormat
	Width   uint32
	Height  uint32
}

// Ensure creates or recreates the texture if the size or format changed.
// Matching size and format with an existing texture is a no-op.
func (ct *ColorTarget) Ensure(device hal.Device, w, h uint32, format gputypes.TextureFormat, labelPrefix string) error {
	if ct.Texture != nil && ct.Width == w && ct.Height == h && ct.Format == format {
		return nil
	}
	ct.Destroy(device)

	tex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         labelPrefix + "_color",
		Size:          hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	ct.Texture = tex

	view, err := device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label: labelPrefix + "_color_view",
	})
	if err != nil {
		ct.Destroy(device)
		return fmt.Errorf("create color view: %w", err)
	}
	ct.View = view
	ct.Format = format
	ct.Width = w
	ct.Height = h
	return nil
}

// Destroy releases the view and texture and resets dimensions.
func (ct *ColorTarget) Destroy(device hal.Device) {
	if ct.View != nil {
		device.DestroyTextureView(ct.View)
		ct.View = nil
	}
	if ct.Texture != nil {
		device.DestroyTexture(ct.Texture)
		ct.Texture = nil
	}
	ct.Width = 0
	ct.Height = 0
}
