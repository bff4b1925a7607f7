package cray

import (
	"image"
	"unsafe"
)

// The records in this file mirror the renderer's C structs field for field. Their layout
// is part of the library ABI; reordering or resizing a field breaks every call that
// passes them.

// Colorspace of a Bitmap.
type Colorspace int32

const (
	ColorspaceLinear Colorspace = iota
	ColorspaceSRGB
)

// Precision of the Bitmap channels.
type Precision int32

const (
	PrecisionByte Precision = iota
	PrecisionFloat
)

// Bitmap is struct cr_bitmap. Data points at Width*Height*Stride channels, bytes or
// float32 depending on Precision.
type Bitmap struct {
	Colorspace Colorspace
	Precision  Precision
	Data       unsafe.Pointer
	Stride     uintptr
	Width      uintptr
	Height     uintptr
}

func (b *Bitmap) channels() int {
	return int(b.Width * b.Height * b.Stride)
}

// ByteData views the pixel data as bytes. It returns nil for float bitmaps.
func (b *Bitmap) ByteData() []byte {
	if b == nil || b.Data == nil || b.Precision != PrecisionByte {
		return nil
	}
	return unsafe.Slice((*byte)(b.Data), b.channels())
}

// FloatData views the pixel data as float32. It returns nil for byte bitmaps.
func (b *Bitmap) FloatData() []float32 {
	if b == nil || b.Data == nil || b.Precision != PrecisionFloat {
		return nil
	}
	return unsafe.Slice((*float32)(b.Data), b.channels())
}

// Image copies the bitmap into an RGBA image. Float channels are clamped to [0, 1].
// Bitmaps with fewer than three channels per pixel yield nil.
func (b *Bitmap) Image() *image.RGBA {
	if b == nil || b.Data == nil || b.Stride < 3 {
		return nil
	}
	bytes, floats := b.ByteData(), b.FloatData()
	if bytes == nil && floats == nil {
		return nil
	}
	w, h, s := int(b.Width), int(b.Height), int(b.Stride)
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for p := 0; p < w*h; p++ {
		dst := img.Pix[p*4 : p*4+4]
		dst[3] = 255
		for c := 0; c < s && c < 4; c++ {
			if bytes != nil {
				dst[c] = bytes[p*s+c]
			} else {
				dst[c] = unitToByte(floats[p*s+c])
			}
		}
	}
	return img
}

func unitToByte(f float32) uint8 {
	switch {
	case f <= 0 || f != f:
		return 0
	case f >= 1:
		return 255
	}
	return uint8(f*255 + 0.5)
}

// CallbackInfo is struct cr_renderer_cb_info, handed to progress callbacks.
type CallbackInfo struct {
	FB            *Bitmap
	Tiles         unsafe.Pointer
	TilesCount    uintptr
	ActiveThreads uintptr
	AvgPerRayUs   float64
	SamplesPerSec int64
	EtaMs         int64
	Completion    float64
	Paused        bool
}

// Face is struct cr_face: three index triplets and a bitfield word holding the 16-bit
// material index and the has-normals flag in bit 16.
type Face struct {
	VertexIdx  [3]int32
	NormalIdx  [3]int32
	TextureIdx [3]int32
	Bits       uint32
}

const (
	matIdxMask     = 0xFFFF
	hasNormalsFlag = 1 << 16
)

// MatIdx returns the material index.
func (f Face) MatIdx() uint16 {
	return uint16(f.Bits & matIdxMask)
}

// SetMatIdx stores the material index.
func (f *Face) SetMatIdx(i uint16) {
	f.Bits = f.Bits&^matIdxMask | uint32(i)
}

// HasNormals reports whether the face carries normal indices.
func (f Face) HasNormals() bool {
	return f.Bits&hasNormalsFlag != 0
}

// SetHasNormals sets or clears the has-normals bit.
func (f *Face) SetHasNormals(v bool) {
	if v {
		f.Bits |= hasNormalsFlag
	} else {
		f.Bits &^= hasNormalsFlag
	}
}

// VertexBuf is struct cr_vertex_buf_param. Vertices and normals point at packed float
// triples, TexCoords at float pairs.
type VertexBuf struct {
	Vertices      unsafe.Pointer
	VertexCount   uintptr
	Normals       unsafe.Pointer
	NormalCount   uintptr
	TexCoords     unsafe.Pointer
	TexCoordCount uintptr
}

// SceneTotals is struct cr_scene_totals.
type SceneTotals struct {
	Meshes    uintptr
	Spheres   uintptr
	Instances uintptr
	Cameras   uintptr
}
