package app

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"age-api/internal/domain/entity"
)

type fakeLocator struct {
	faces []entity.FaceBox
	err   error
	panic bool
}

func (l *fakeLocator) Locate(ctx context.Context, img *entity.Image) ([]entity.FaceBox, error) {
	if l.panic {
		panic("cascade exploded")
	}
	return l.faces, l.err
}

func (l *fakeLocator) Close() error { return nil }

type fakeEstimator struct {
	mu     sync.Mutex
	score  float32
	err    error
	calls  int
	shapes [][4]int64
}

func (e *fakeEstimator) Estimate(ctx context.Context, tensor entity.FaceTensor) (float32, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls++
	e.shapes = append(e.shapes, tensor.Shape)
	return e.score, e.err
}

func (e *fakeEstimator) Close() error { return nil }

// fixturePNG серое изображение w×h в PNG
func fixturePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = 128
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
