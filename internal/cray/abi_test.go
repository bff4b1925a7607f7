package cray

import (
	"image/color"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordLayout(t *testing.T) {
	if unsafe.Sizeof(uintptr(0)) != 8 {
		t.Skip("layouts are checked on 64-bit targets")
	}
	assert.Equal(t, uintptr(40), unsafe.Sizeof(Bitmap{}))
	assert.Equal(t, uintptr(8), unsafe.Offsetof(Bitmap{}.Data))
	assert.Equal(t, uintptr(16), unsafe.Offsetof(Bitmap{}.Stride))

	assert.Equal(t, uintptr(72), unsafe.Sizeof(CallbackInfo{}))
	assert.Equal(t, uintptr(32), unsafe.Offsetof(CallbackInfo{}.AvgPerRayUs))
	assert.Equal(t, uintptr(56), unsafe.Offsetof(CallbackInfo{}.Completion))
	assert.Equal(t, uintptr(64), unsafe.Offsetof(CallbackInfo{}.Paused))

	assert.Equal(t, uintptr(40), unsafe.Sizeof(Face{}))
	assert.Equal(t, uintptr(36), unsafe.Offsetof(Face{}.Bits))

	assert.Equal(t, uintptr(48), unsafe.Sizeof(VertexBuf{}))
	assert.Equal(t, uintptr(32), unsafe.Sizeof(SceneTotals{}))
}

func TestFaceBits(t *testing.T) {
	var f Face
	f.SetMatIdx(0xBEEF)
	f.SetHasNormals(true)
	assert.Equal(t, uint16(0xBEEF), f.MatIdx())
	assert.True(t, f.HasNormals())
	assert.Equal(t, uint32(0x1BEEF), f.Bits)

	f.SetMatIdx(3)
	f.SetHasNormals(false)
	assert.Equal(t, uint16(3), f.MatIdx())
	assert.False(t, f.HasNormals())
}

func TestBitmapViews(t *testing.T) {
	pix := []byte{255, 0, 0, 0, 255, 0}
	b := &Bitmap{Precision: PrecisionByte, Data: unsafe.Pointer(&pix[0]), Stride: 3, Width: 2, Height: 1}
	assert.Equal(t, pix, b.ByteData())
	assert.Nil(t, b.FloatData())

	img := b.Image()
	require.NotNil(t, img)
	assert.Equal(t, color.RGBA{255, 0, 0, 255}, img.RGBAAt(0, 0))
	assert.Equal(t, color.RGBA{0, 255, 0, 255}, img.RGBAAt(1, 0))

	fl := []float32{0.5, 2, -1, 1}
	fb := &Bitmap{Precision: PrecisionFloat, Data: unsafe.Pointer(&fl[0]), Stride: 4, Width: 1, Height: 1}
	assert.Nil(t, fb.ByteData())
	assert.Equal(t, fl, fb.FloatData())
	assert.Equal(t, color.RGBA{128, 255, 0, 255}, fb.Image().RGBAAt(0, 0))

	var nilmap *Bitmap
	assert.Nil(t, nilmap.Image())
	assert.Nil(t, (&Bitmap{Stride: 1, Data: unsafe.Pointer(&pix[0]), Width: 1, Height: 1}).Image())
}
