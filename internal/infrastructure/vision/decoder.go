package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// Decoder декодирует JPEG/PNG/GIF/BMP/TIFF/WebP в BGR-изображение.
type Decoder struct {
	maxPixels int
}

// NewDecoder создаёт декодер; изображения больше maxPixels отклоняются
// по заголовку, до выделения памяти под пиксели.
func NewDecoder(maxPixels int) *Decoder {
	return &Decoder{maxPixels: maxPixels}
}

// DecodeBytes декодирует изображение из буфера.
func (d *Decoder) DecodeBytes(data []byte) (*entity.Image, error) {
	if len(data) == 0 {
		return nil, errors.New("empty image data")
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New("image has no pixels")
	}
	if d.maxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > int64(d.maxPixels) {
		return nil, fmt.Errorf("image is too large: %dx%d exceeds %d pixels", cfg.Width, cfg.Height, d.maxPixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	out := toBGR(img)
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// DecodeFile читает и декодирует изображение с диска.
func (d *Decoder) DecodeFile(path string) (*entity.Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read image file: %w", err)
	}
	return d.DecodeBytes(data)
}

// toBGR раскладывает пиксели в BGR без альфа-канала.
func toBGR(img image.Image) *entity.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := make([]uint8, w*h*3)

	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			pix[i] = c.B
			pix[i+1] = c.G
			pix[i+2] = c.R
			i += 3
		}
	}

	return &entity.Image{Width: w, Height: h, Order: entity.OrderBGR, Pix: pix}
}

// Проверка реализации интерфейса
var _ port.ImageDecoder = (*Decoder)(nil)
