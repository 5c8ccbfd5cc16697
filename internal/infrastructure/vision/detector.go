//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// CascadeLocator ищет лица каскадом Хаара.
type CascadeLocator struct {
	classifier   gocv.CascadeClassifier
	ScaleFactor  float64
	MinNeighbors int
	MinSize      int
}

// NewCascadeLocator загружает каскад; порог чувствительности берётся из настроек.
func NewCascadeLocator(path string, s entity.Settings) (*CascadeLocator, error) {
	classifier := gocv.NewCascadeClassifier()
	for _, p := range CascadeCandidates(path) {
		if classifier.Load(p) {
			return &CascadeLocator{
				classifier:   classifier,
				ScaleFactor:  s.ScaleFactor,
				MinNeighbors: s.MinNeighbors,
				MinSize:      s.MinFaceSize,
			}, nil
		}
	}

	classifier.Close()
	return nil, &entity.ModelLoadError{
		Model: "face detector",
		Path:  path,
		Err:   errors.New("cascade classifier not found or empty"),
	}
}

// Locate переводит изображение в оттенки серого и запускает детектор.
func (l *CascadeLocator) Locate(ctx context.Context, img *entity.Image) ([]entity.FaceBox, error) {
	_ = ctx
	mat, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	code := gocv.ColorBGRToGray
	if img.Order == entity.OrderRGB {
		code = gocv.ColorRGBToGray
	}
	gocv.CvtColor(mat, &gray, code)

	rects := l.classifier.DetectMultiScaleWithParams(
		gray,
		l.ScaleFactor,
		l.MinNeighbors,
		0,
		image.Pt(l.MinSize, l.MinSize),
		image.Pt(0, 0),
	)

	faces := make([]entity.FaceBox, 0, len(rects))
	for _, r := range rects {
		faces = append(faces, entity.NewFaceBox(r))
	}
	return faces, nil
}

// Highlight рисует рамку вокруг лица и подпись над ней.
func (l *CascadeLocator) Highlight(img *entity.Image, box entity.FaceBox, label string) ([]byte, error) {
	mat, err := toMat(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	green := color.RGBA{G: 255, A: 255}
	gocv.Rectangle(&mat, box.Rect(), green, 2)
	if label != "" {
		gocv.PutText(&mat, label, image.Pt(box.X, maxInt(box.Y-10, 15)), gocv.FontHersheySimplex, 0.9, green, 2)
	}

	out, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Close освобождает каскад
func (l *CascadeLocator) Close() error {
	return l.classifier.Close()
}

// toMat копирует пиксели в gocv.Mat, чтобы рисование не затронуло исходный буфер.
func toMat(img *entity.Image) (gocv.Mat, error) {
	if err := img.Validate(); err != nil {
		return gocv.NewMat(), err
	}
	pix := make([]byte, len(img.Pix))
	copy(pix, img.Pix)

	mat, err := gocv.NewMatFromBytes(img.Height, img.Width, gocv.MatTypeCV8UC3, pix)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("build mat: %w", err)
	}
	if mat.Empty() {
		mat.Close()
		return gocv.NewMat(), errors.New("empty image")
	}
	return mat, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// Проверка реализации интерфейсов
var (
	_ port.FaceLocator     = (*CascadeLocator)(nil)
	_ port.FaceHighlighter = (*CascadeLocator)(nil)
)
