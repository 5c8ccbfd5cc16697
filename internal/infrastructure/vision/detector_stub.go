//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

var errNoGoCV = errors.New("gocv build tag is not enabled")

// CascadeLocator заглушка детектора для сборки без OpenCV.
type CascadeLocator struct {
	ScaleFactor  float64
	MinNeighbors int
	MinSize      int
}

// NewCascadeLocator без тега gocv всегда возвращает ошибку загрузки.
func NewCascadeLocator(path string, s entity.Settings) (*CascadeLocator, error) {
	_ = s
	return nil, &entity.ModelLoadError{Model: "face detector", Path: path, Err: errNoGoCV}
}

// Locate возвращает ошибку, если сборка без тега gocv.
func (l *CascadeLocator) Locate(ctx context.Context, img *entity.Image) ([]entity.FaceBox, error) {
	_ = ctx
	_ = img
	return nil, errNoGoCV
}

// Highlight возвращает ошибку, если сборка без тега gocv.
func (l *CascadeLocator) Highlight(img *entity.Image, box entity.FaceBox, label string) ([]byte, error) {
	_ = img
	_ = box
	_ = label
	return nil, errNoGoCV
}

// Close ничего не делает
func (l *CascadeLocator) Close() error {
	return nil
}

var (
	_ port.FaceLocator     = (*CascadeLocator)(nil)
	_ port.FaceHighlighter = (*CascadeLocator)(nil)
)
