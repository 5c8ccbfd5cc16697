package entity

import (
	"errors"
	"image"
)

// ChannelOrder порядок каналов в пикселе
type ChannelOrder string

const (
	OrderBGR ChannelOrder = "bgr" // порядок декодера и детектора
	OrderRGB ChannelOrder = "rgb" // порядок, на котором обучалась модель возраста
)

// Image декодированное цветное изображение: Height×Width×3, 8 бит на канал.
type Image struct {
	Width  int
	Height int
	Order  ChannelOrder
	Pix    []uint8 // построчно, по 3 байта на пиксель в порядке Order
}

// Validate проверяет инварианты изображения.
func (im *Image) Validate() error {
	if im == nil || im.Width <= 0 || im.Height <= 0 {
		return errors.New("image has no pixels")
	}
	if len(im.Pix) != im.Width*im.Height*3 {
		return errors.New("pixel buffer does not match image size")
	}
	return nil
}

// Raster копирует область r в *image.NRGBA с началом в (0,0). Копирование
// позиционное: канал 0 попадает в R, 1 в G, 2 в B, порядок каналов не меняется.
// Часть r за пределами изображения отбрасывается.
func (im *Image) Raster(r image.Rectangle) *image.NRGBA {
	r = r.Intersect(image.Rect(0, 0, im.Width, im.Height))
	out := image.NewNRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))

	for y := 0; y < r.Dy(); y++ {
		src := im.Pix[((r.Min.Y+y)*im.Width+r.Min.X)*3:]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < r.Dx(); x++ {
			dst[x*4] = src[x*3]
			dst[x*4+1] = src[x*3+1]
			dst[x*4+2] = src[x*3+2]
			dst[x*4+3] = 0xff
		}
	}
	return out
}
