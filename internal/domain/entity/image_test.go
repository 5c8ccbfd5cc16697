package entity

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageValidate(t *testing.T) {
	require.Error(t, (*Image)(nil).Validate())
	require.Error(t, (&Image{Width: 0, Height: 2}).Validate())
	require.Error(t, (&Image{Width: 2, Height: 2, Pix: make([]uint8, 5)}).Validate())
	require.NoError(t, (&Image{Width: 2, Height: 2, Pix: make([]uint8, 12)}).Validate())
}

func TestImageRaster_KeepsChannelSlots(t *testing.T) {
	im := &Image{Width: 1, Height: 1, Order: OrderBGR, Pix: []uint8{10, 20, 30}}
	r := im.Raster(image.Rect(0, 0, 1, 1))
	require.Equal(t, []uint8{10, 20, 30, 0xff}, r.Pix)
}

func TestImageRaster_CopiesOnlyRegion(t *testing.T) {
	// 3×2, значение канала = 10*номер пикселя + канал
	pix := make([]uint8, 0, 18)
	for p := 0; p < 6; p++ {
		pix = append(pix, uint8(10*p), uint8(10*p+1), uint8(10*p+2))
	}
	im := &Image{Width: 3, Height: 2, Order: OrderBGR, Pix: pix}

	r := im.Raster(image.Rect(1, 0, 3, 2))
	require.Equal(t, image.Rect(0, 0, 2, 2), r.Bounds())
	require.Equal(t, []uint8{
		10, 11, 12, 0xff, 20, 21, 22, 0xff,
		40, 41, 42, 0xff, 50, 51, 52, 0xff,
	}, r.Pix)
}

func TestImageRaster_ClipsToImage(t *testing.T) {
	im := &Image{Width: 2, Height: 2, Order: OrderBGR, Pix: make([]uint8, 12)}
	require.Equal(t, image.Rect(0, 0, 1, 1), im.Raster(image.Rect(1, 1, 5, 5)).Bounds())
	require.True(t, im.Raster(image.Rect(3, 3, 5, 5)).Bounds().Empty())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	require.Equal(t, 1.2, s.ScaleFactor)
	require.Equal(t, 5, s.MinNeighbors)
	require.Equal(t, 60, s.MinFaceSize)
	require.Equal(t, 224, s.InputSize)
	require.Equal(t, 116.0, s.MaxAge)
	require.Equal(t, 40_000_000, s.MaxPixels)
	require.Equal(t, [3]float32{123.68, 116.78, 103.94}, s.ChannelMeans)
}
