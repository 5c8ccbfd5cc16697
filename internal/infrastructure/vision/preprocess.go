package vision

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// Preprocessor вырезает лицо и превращает его во входной тензор модели.
type Preprocessor struct {
	Size  int
	Means [3]float32 // в порядке RGB
}

// NewPreprocessor создаёт препроцессор с размерами и средними из настроек.
func NewPreprocessor(s entity.Settings) *Preprocessor {
	return &Preprocessor{Size: s.InputSize, Means: s.ChannelMeans}
}

// Preprocess выполняет шаги строго по порядку: вырезка, ресайз до Size×Size
// без сохранения пропорций, BGR→RGB, деление на 255, вычитание средних,
// добавление batch-измерения.
func (p *Preprocessor) Preprocess(img *entity.Image, box entity.FaceBox) (entity.FaceTensor, error) {
	if err := img.Validate(); err != nil {
		return entity.FaceTensor{}, err
	}
	if img.Order != entity.OrderBGR {
		return entity.FaceTensor{}, fmt.Errorf("expected %s input, got %s", entity.OrderBGR, img.Order)
	}
	if !box.Within(img.Width, img.Height) {
		return entity.FaceTensor{}, fmt.Errorf("face box %+v is outside %dx%d image", box, img.Width, img.Height)
	}

	// копируется только область лица, а не весь кадр
	crop := img.Raster(box.Rect())
	resized := imaging.Resize(crop, p.Size, p.Size, imaging.Linear)
	face := toModelOrder(resized)

	return p.normalize(face), nil
}

// toModelOrder переставляет каналы BGR→RGB. Единственное место смены порядка.
func toModelOrder(src *image.NRGBA) *entity.Image {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	pix := make([]uint8, w*h*3)

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			s := row[x*4:]
			d := pix[(y*w+x)*3:]
			d[0], d[1], d[2] = s[2], s[1], s[0]
		}
	}

	return &entity.Image{Width: w, Height: h, Order: entity.OrderRGB, Pix: pix}
}

func (p *Preprocessor) normalize(face *entity.Image) entity.FaceTensor {
	data := make([]float32, len(face.Pix))
	for i, v := range face.Pix {
		data[i] = float32(v)/255.0 - p.Means[i%3]
	}

	return entity.FaceTensor{
		Shape: [4]int64{1, int64(face.Height), int64(face.Width), 3},
		Data:  data,
	}
}

// Проверка реализации интерфейса
var _ port.FacePreprocessor = (*Preprocessor)(nil)
