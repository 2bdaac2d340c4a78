// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"encoding/binary"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/wayoverlay/geom"
	"github.com/gogpu/wayoverlay/surface"
	"github.com/gogpu/wayoverlay/toolkit"
)

// vertexStride is the byte stride per mesh vertex.
// Layout per vertex:
//
//	position (vec2<f32>)  = 8 bytes (location 0)
//	uv       (vec2<f32>)  = 8 bytes (location 1)
//	color    (unorm8x4)   = 4 bytes (location 2)
//
// Total = 20 bytes per vertex.
const vertexStride = 20

// uniformSize is the byte size of the frame uniform buffer.
// Layout: screen_size (vec2<f32>) + alpha (f32) + pad (f32) = 16 bytes.
const uniformSize = 16

// defaultFrameTime is the predicted frame duration handed to the
// toolkit when the embedder does not report the output's refresh rate.
const defaultFrameTime = time.Second / 60

// submitTimeout bounds the fence wait after a frame submit.
const submitTimeout = 5 * time.Second

// Output is the product of one bridge frame, handed to the compositor
// as a borrowed reference. The texture stays owned by the bridge and is
// valid until the next successful Render or Close; the compositor must
// not retain it across frames.
type Output struct {
	// Texture holds the painted overlay, premultiplied RGBA at
	// physical resolution.
	Texture hal.Texture

	// View is a 2D view over Texture, ready for sampling.
	View hal.TextureView

	// Damage lists the regions that changed since the previous frame,
	// in logical coordinates. Empty means the frame is identical and
	// the compositor may skip recomposition.
	Damage []geom.Rect

	// LogicalSize is the frame's size in toolkit units; PhysicalSize is
	// the texture's pixel dimensions. Related by Scale.
	LogicalSize  geom.Size
	PhysicalSize image.Point
	Scale        float64
}

// Bridge drives one toolkit paint pass per frame and turns its meshes
// into a compositable GPU texture. One Bridge serves one overlay and is
// confined to the compositor's render thread.
type Bridge struct {
	device hal.Device
	queue  hal.Queue

	shader        hal.ShaderModule
	uniformLayout hal.BindGroupLayout
	textureLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.RenderPipeline
	sampler       hal.Sampler
	uniformBuf    hal.Buffer
	frameBind     hal.BindGroup

	target     hal.Texture
	targetView hal.TextureView
	targetSize image.Point

	textures *textureStore
	damage   damageTracker

	alpha         float64
	frameTime     time.Duration
	lastLogical   geom.Size
	lastScale     float64
	pipelineReady bool
	closed        bool
}

// NewBridge creates a bridge on the host's shared GPU device. The
// handle must expose HAL access the way gogpu.App does.
func NewBridge(handle DeviceHandle) (*Bridge, error) {
	device, queue, err := halFromHandle(handle)
	if err != nil {
		return nil, err
	}
	return NewBridgeWithHAL(device, queue)
}

// NewBridgeWithHAL creates a bridge directly on a HAL device and queue.
func NewBridgeWithHAL(device hal.Device, queue hal.Queue) (*Bridge, error) {
	if device == nil || queue == nil {
		return nil, ErrNilDevice
	}
	return &Bridge{
		device:    device,
		queue:     queue,
		alpha:     1,
		frameTime: defaultFrameTime,
	}, nil
}

// SetAlpha sets the global overlay opacity baked into the rendered
// texture. Values are clamped to [0, 1].
func (b *Bridge) SetAlpha(alpha float64) {
	b.alpha = math.Max(0, math.Min(1, alpha))
}

// SetFrameTime sets the predicted frame duration reported to the
// toolkit, normally the output's refresh period.
func (b *Bridge) SetFrameTime(d time.Duration) {
	if d > 0 {
		b.frameTime = d
	}
}

// Render drives exactly one toolkit paint pass for st at the given
// logical size and output scale, using the events drained from st's
// queue, and returns the painted texture plus damage.
//
// GPU allocation failures return ErrGPUResourceExhausted; the frame is
// skipped and the bridge stays usable for a retry next refresh. Errors
// from the toolkit context itself propagate unchanged, and toolkit
// panics are deliberately not recovered here.
func (b *Bridge) Render(st *surface.State, logical geom.Size, scale float64, mods toolkit.Modifiers) (*Output, error) {
	if b.closed {
		return nil, ErrBridgeClosed
	}
	if logical.Empty() || scale <= 0 {
		return nil, fmt.Errorf("%w: %gx%g at scale %g", ErrInvalidSize, logical.W, logical.H, scale)
	}

	events := st.BeginFrame()
	out, err := st.Context().Run(toolkit.FrameInput{
		ScreenRect:         geom.RectFromOriginSize(geom.Point{}, logical),
		PixelsPerPoint:     scale,
		Time:               st.Elapsed(),
		PredictedFrameTime: b.frameTime,
		Modifiers:          mods,
		Events:             events,
	})
	if err != nil {
		return nil, fmt.Errorf("render: toolkit frame: %w", err)
	}
	st.SetLastSize(logical)

	if err := b.ensurePipeline(); err != nil {
		return nil, err
	}

	physical := image.Pt(
		int(math.Ceil(logical.W*scale)),
		int(math.Ceil(logical.H*scale)),
	)
	if err := b.ensureTarget(physical); err != nil {
		return nil, err
	}
	if logical != b.lastLogical || scale != b.lastScale {
		b.damage.reset()
		b.lastLogical = logical
		b.lastScale = scale
	}

	if err := b.textures.apply(out.Textures.Set); err != nil {
		return nil, err
	}

	damage := b.damage.update(out)
	if len(damage) > 0 {
		if err := b.encodeFrame(out, logical, scale, physical); err != nil {
			b.damage.reset()
			// The Free list is this frame's only notice; the failed
			// pass's draws are discarded, so freeing now is safe.
			b.textures.free(out.Textures.Free)
			return nil, err
		}
	}

	b.textures.free(out.Textures.Free)

	return &Output{
		Texture:      b.target,
		View:         b.targetView,
		Damage:       damage,
		LogicalSize:  logical,
		PhysicalSize: physical,
		Scale:        scale,
	}, nil
}

// ensurePipeline lazily builds the shader, layouts, sampler, uniform
// buffer, and render pipeline on first use.
func (b *Bridge) ensurePipeline() error {
	if b.pipelineReady {
		return nil
	}

	// Validate the WGSL up front; naga gives far better diagnostics
	// than the backend compiler.
	if _, err := naga.Compile(meshShaderSource); err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}

	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "overlay_mesh_shader",
		Source: hal.ShaderSource{WGSL: meshShaderSource},
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrShaderCompile, err)
	}
	b.shader = shader

	// Group 0: frame uniforms + sampler. Group 1: the mesh's texture,
	// one bind group per resident toolkit texture.
	uniformLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "overlay_frame_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex | gputypes.ShaderStageFragment,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: frame layout: %w", ErrGPUResourceExhausted, err)
	}
	b.uniformLayout = uniformLayout

	textureLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "overlay_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: texture layout: %w", ErrGPUResourceExhausted, err)
	}
	b.textureLayout = textureLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "overlay_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.uniformLayout, b.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("%w: pipeline layout: %w", ErrGPUResourceExhausted, err)
	}
	b.pipeLayout = pipeLayout

	sampler, err := b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        "overlay_sampler",
		AddressModeU: gputypes.AddressModeClampToEdge,
		AddressModeV: gputypes.AddressModeClampToEdge,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    gputypes.FilterModeLinear,
		MinFilter:    gputypes.FilterModeLinear,
		MipmapFilter: gputypes.FilterModeLinear,
	})
	if err != nil {
		return fmt.Errorf("%w: sampler: %w", ErrGPUResourceExhausted, err)
	}
	b.sampler = sampler

	uniformBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "overlay_uniforms",
		Size:  uniformSize,
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: uniform buffer: %w", ErrGPUResourceExhausted, err)
	}
	b.uniformBuf = uniformBuf

	frameBind, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "overlay_frame_bind",
		Layout: b.uniformLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: b.uniformBuf.NativeHandle(), Offset: 0, Size: uniformSize,
			}},
			{Binding: 1, Resource: gputypes.SamplerBinding{
				Sampler: b.sampler.NativeHandle(),
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: frame bind group: %w", ErrGPUResourceExhausted, err)
	}
	b.frameBind = frameBind

	premulBlend := gputypes.BlendStatePremultiplied()
	pipeline, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  "overlay_mesh_pipeline",
		Layout: b.pipeLayout,
		Vertex: hal.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
			Buffers: []gputypes.VertexBufferLayout{{
				ArrayStride: vertexStride,
				StepMode:    gputypes.VertexStepModeVertex,
				Attributes: []gputypes.VertexAttribute{
					{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
					{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
					{Format: gputypes.VertexFormatUnorm8x4, Offset: 16, ShaderLocation: 2},
				},
			}},
		},
		Fragment: &hal.FragmentState{
			Module:     b.shader,
			EntryPoint: "fs_main",
			Targets: []gputypes.ColorTargetState{{
				Format:    gputypes.TextureFormatRGBA8Unorm,
				Blend:     &premulBlend,
				WriteMask: gputypes.ColorWriteMaskAll,
			}},
		},
		Primitive: gputypes.PrimitiveState{
			Topology: gputypes.PrimitiveTopologyTriangleList,
			CullMode: gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: pipeline: %w", ErrGPUResourceExhausted, err)
	}
	b.pipeline = pipeline

	b.textures = newTextureStore(b.device, b.queue, b.textureLayout)
	b.pipelineReady = true
	return nil
}

// ensureTarget (re)creates the offscreen color target at the physical
// size. A resize drops the previous frame's content, so damage resets.
func (b *Bridge) ensureTarget(physical image.Point) error {
	if b.target != nil && b.targetSize == physical {
		return nil
	}
	b.destroyTarget()

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label: "overlay_target",
		Size: hal.Extent3D{
			Width:              uint32(physical.X),
			Height:             uint32(physical.Y),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
	})
	if err != nil {
		return fmt.Errorf("%w: target %dx%d: %w", ErrGPUResourceExhausted, physical.X, physical.Y, err)
	}

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "overlay_target_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.device.DestroyTexture(tex)
		return fmt.Errorf("%w: target view: %w", ErrGPUResourceExhausted, err)
	}

	b.target = tex
	b.targetView = view
	b.targetSize = physical
	b.damage.reset()
	return nil
}

// meshDraw is one recorded draw range into the shared frame buffers.
type meshDraw struct {
	bind       hal.BindGroup
	scissor    [4]uint32
	indexCount uint32
	firstIndex uint32
	baseVertex int32
}

// encodeFrame uploads the frame's meshes and replays them into the
// offscreen target in one render pass.
func (b *Bridge) encodeFrame(out toolkit.Output, logical geom.Size, scale float64, physical image.Point) error {
	vertexData, indexData, draws, err := b.packMeshes(out, logical, scale, physical)
	if err != nil {
		return err
	}

	b.writeUniforms(logical)

	var vertBuf, idxBuf hal.Buffer
	if len(vertexData) > 0 {
		vertBuf, err = b.createAndUploadBuffer("overlay_verts", vertexData,
			gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		defer b.device.DestroyBuffer(vertBuf)

		idxBuf, err = b.createAndUploadBuffer("overlay_indices", indexData,
			gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst)
		if err != nil {
			return err
		}
		defer b.device.DestroyBuffer(idxBuf)
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "overlay_encoder",
	})
	if err != nil {
		return fmt.Errorf("%w: command encoder: %w", ErrGPUResourceExhausted, err)
	}
	if err := encoder.BeginEncoding("overlay_frame"); err != nil {
		return fmt.Errorf("render: begin encoding: %w", err)
	}

	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "overlay_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       b.targetView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
	})

	if len(draws) > 0 {
		rp.SetPipeline(b.pipeline)
		rp.SetBindGroup(0, b.frameBind, nil)
		rp.SetVertexBuffer(0, vertBuf, 0)
		rp.SetIndexBuffer(idxBuf, gputypes.IndexFormatUint32, 0)
		for _, d := range draws {
			rp.SetScissorRect(d.scissor[0], d.scissor[1], d.scissor[2], d.scissor[3])
			rp.SetBindGroup(1, d.bind, nil)
			rp.DrawIndexed(d.indexCount, 1, d.firstIndex, d.baseVertex, 0)
		}
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("render: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("%w: fence: %w", ErrGPUResourceExhausted, err)
	}
	defer b.device.DestroyFence(fence)

	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("render: submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, submitTimeout)
	if err != nil {
		return fmt.Errorf("render: fence wait: %w", err)
	}
	if !ok {
		return fmt.Errorf("render: fence wait timed out after %s", submitTimeout)
	}
	return nil
}

// packMeshes flattens the frame's meshes into shared vertex and index
// data plus per-mesh draw records. Meshes referencing unknown textures
// or clipped away entirely are skipped.
func (b *Bridge) packMeshes(out toolkit.Output, logical geom.Size, scale float64, physical image.Point) ([]byte, []byte, []meshDraw, error) {
	var vertexData, indexData []byte
	var draws []meshDraw
	vertexCount := 0
	indexCount := 0

	bounds := geom.RectFromOriginSize(geom.Point{}, logical)
	for _, cm := range out.Meshes {
		if len(cm.Mesh.Indices) == 0 {
			continue
		}
		clip := cm.Clip.Intersect(bounds)
		if clip.Empty() {
			continue
		}
		bind, ok := b.textures.bindFor(cm.Mesh.Texture)
		if !ok {
			return nil, nil, nil, fmt.Errorf("%w: id %d", ErrUnknownTexture, cm.Mesh.Texture)
		}

		for _, v := range cm.Mesh.Vertices {
			var rec [vertexStride]byte
			binary.LittleEndian.PutUint32(rec[0:], math.Float32bits(v.Pos[0]))
			binary.LittleEndian.PutUint32(rec[4:], math.Float32bits(v.Pos[1]))
			binary.LittleEndian.PutUint32(rec[8:], math.Float32bits(v.UV[0]))
			binary.LittleEndian.PutUint32(rec[12:], math.Float32bits(v.UV[1]))
			copy(rec[16:], v.Color[:])
			vertexData = append(vertexData, rec[:]...)
		}
		for _, idx := range cm.Mesh.Indices {
			var rec [4]byte
			binary.LittleEndian.PutUint32(rec[:], idx)
			indexData = append(indexData, rec[:]...)
		}

		draws = append(draws, meshDraw{
			bind:       bind,
			scissor:    scissorFor(clip, scale, physical),
			indexCount: uint32(len(cm.Mesh.Indices)),
			firstIndex: uint32(indexCount),
			baseVertex: int32(vertexCount),
		})
		vertexCount += len(cm.Mesh.Vertices)
		indexCount += len(cm.Mesh.Indices)
	}

	return vertexData, indexData, draws, nil
}

// scissorFor converts a logical clip rect to a physical scissor box
// clamped to the target.
func scissorFor(clip geom.Rect, scale float64, physical image.Point) [4]uint32 {
	x0 := int(math.Floor(clip.Min.X * scale))
	y0 := int(math.Floor(clip.Min.Y * scale))
	x1 := int(math.Ceil(clip.Max.X * scale))
	y1 := int(math.Ceil(clip.Max.Y * scale))

	x0 = max(0, min(x0, physical.X))
	y0 = max(0, min(y0, physical.Y))
	x1 = max(x0, min(x1, physical.X))
	y1 = max(y0, min(y1, physical.Y))

	return [4]uint32{uint32(x0), uint32(y0), uint32(x1 - x0), uint32(y1 - y0)}
}

// writeUniforms updates the frame uniform buffer in place.
func (b *Bridge) writeUniforms(logical geom.Size) {
	var data [uniformSize]byte
	binary.LittleEndian.PutUint32(data[0:], math.Float32bits(float32(logical.W)))
	binary.LittleEndian.PutUint32(data[4:], math.Float32bits(float32(logical.H)))
	binary.LittleEndian.PutUint32(data[8:], math.Float32bits(float32(b.alpha)))
	b.queue.WriteBuffer(b.uniformBuf, 0, data[:])
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (b *Bridge) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrGPUResourceExhausted, label, err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *Bridge) destroyTarget() {
	if b.targetView != nil {
		b.device.DestroyTextureView(b.targetView)
		b.targetView = nil
	}
	if b.target != nil {
		b.device.DestroyTexture(b.target)
		b.target = nil
	}
	b.targetSize = image.Point{}
}

// Close releases every GPU resource the bridge owns. Safe to call more
// than once; the bridge is unusable afterwards.
func (b *Bridge) Close() {
	if b.closed {
		return
	}
	b.closed = true

	b.destroyTarget()
	if b.textures != nil {
		b.textures.destroy()
		b.textures = nil
	}
	if b.frameBind != nil {
		b.device.DestroyBindGroup(b.frameBind)
		b.frameBind = nil
	}
	if b.uniformBuf != nil {
		b.device.DestroyBuffer(b.uniformBuf)
		b.uniformBuf = nil
	}
	if b.sampler != nil {
		b.device.DestroySampler(b.sampler)
		b.sampler = nil
	}
	if b.pipeline != nil {
		b.device.DestroyRenderPipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.textureLayout != nil {
		b.device.DestroyBindGroupLayout(b.textureLayout)
		b.textureLayout = nil
	}
	if b.uniformLayout != nil {
		b.device.DestroyBindGroupLayout(b.uniformLayout)
		b.uniformLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
	b.pipelineReady = false
}
