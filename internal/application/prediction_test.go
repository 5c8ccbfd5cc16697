package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"age-api/internal/domain/entity"
	"age-api/internal/infrastructure/vision"
)

var oneFace = []entity.FaceBox{{X: 10, Y: 10, Width: 100, Height: 100}}

func newTestService(locator *fakeLocator, estimator *fakeEstimator) *PredictionService {
	s := entity.DefaultSettings()
	return NewPredictionService(vision.NewDecoder(s.MaxPixels), locator, vision.NewPreprocessor(s), estimator, s)
}

func TestPredictionService_RoundTrip(t *testing.T) {
	est := &fakeEstimator{score: 0}
	svc := newTestService(&fakeLocator{faces: oneFace}, est)

	res := svc.PredictFromBytes(context.Background(), fixturePNG(t, 200, 150))
	require.True(t, res.Success)
	require.Equal(t, 58.0, res.PredictedAge)
	require.Equal(t, 0.99, res.Confidence)
	require.Equal(t, entity.FaceBox{X: 10, Y: 10, Width: 100, Height: 100}, res.FaceBox)
	require.Empty(t, res.Error)
	require.Equal(t, [][4]int64{{1, 224, 224, 3}}, est.shapes)
}

func TestPredictionService_NoFace(t *testing.T) {
	est := &fakeEstimator{}
	svc := newTestService(&fakeLocator{}, est)

	res := svc.PredictFromBytes(context.Background(), fixturePNG(t, 200, 150))
	require.False(t, res.Success)
	require.Contains(t, res.Error, "No face detected")
	require.Equal(t, entity.KindNoFace, res.Kind)
	require.Zero(t, est.calls)
}

func TestPredictionService_MultipleFaces(t *testing.T) {
	faces := []entity.FaceBox{
		{X: 0, Y: 0, Width: 60, Height: 60},
		{X: 70, Y: 0, Width: 60, Height: 60},
		{X: 0, Y: 70, Width: 60, Height: 60},
	}
	est := &fakeEstimator{}
	svc := newTestService(&fakeLocator{faces: faces}, est)

	res := svc.PredictFromBytes(context.Background(), fixturePNG(t, 200, 150))
	require.False(t, res.Success)
	require.Contains(t, res.Error, "Multiple faces detected (3 faces)")
	require.Equal(t, entity.KindMultipleFaces, res.Kind)
	require.Zero(t, est.calls)
}

func TestPredictionService_MalformedBytes(t *testing.T) {
	svc := newTestService(&fakeLocator{faces: oneFace}, &fakeEstimator{})

	for _, data := range [][]byte{nil, {}, []byte("garbage"), fixturePNG(t, 50, 50)[:40]} {
		res := svc.PredictFromBytes(context.Background(), data)
		require.False(t, res.Success)
		require.Equal(t, "Cannot decode image bytes", res.Error)
		require.Equal(t, entity.KindDecode, res.Kind)
	}
}

func TestPredictionService_OversizedImageIsDecodeFailure(t *testing.T) {
	s := entity.DefaultSettings()
	s.MaxPixels = 100 * 100
	est := &fakeEstimator{}
	svc := NewPredictionService(vision.NewDecoder(s.MaxPixels), &fakeLocator{faces: oneFace}, vision.NewPreprocessor(s), est, s)

	res := svc.PredictFromBytes(context.Background(), fixturePNG(t, 200, 150))
	require.False(t, res.Success)
	require.Equal(t, entity.KindDecode, res.Kind)
	require.Zero(t, est.calls)
}

func TestPredictionService_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "face.png")
	require.NoError(t, os.WriteFile(path, fixturePNG(t, 200, 150), 0o644))

	svc := newTestService(&fakeLocator{faces: oneFace}, &fakeEstimator{score: 1})

	res := svc.PredictFromFile(context.Background(), path)
	require.True(t, res.Success)
	require.Equal(t, 116.0, res.PredictedAge)
	require.Equal(t, 0.5, res.Confidence)

	res = svc.PredictFromFile(context.Background(), filepath.Join(dir, "missing.png"))
	require.False(t, res.Success)
	require.Equal(t, "Cannot load image file", res.Error)
}

func TestPredictionService_InferenceFailures(t *testing.T) {
	data := fixturePNG(t, 200, 150)

	cases := []struct {
		name    string
		locator *fakeLocator
		est     *fakeEstimator
	}{
		{"locator error", &fakeLocator{err: errors.New("boom")}, &fakeEstimator{}},
		{"locator panic", &fakeLocator{panic: true}, &fakeEstimator{}},
		{"estimator error", &fakeLocator{faces: oneFace}, &fakeEstimator{err: errors.New("session run failed")}},
		{"box outside image", &fakeLocator{faces: []entity.FaceBox{{X: 150, Y: 100, Width: 100, Height: 100}}}, &fakeEstimator{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newTestService(tc.locator, tc.est).PredictFromBytes(context.Background(), data)
			require.False(t, res.Success)
			require.Equal(t, entity.KindInference, res.Kind)
			require.NotEmpty(t, res.Error)
		})
	}
}

func TestPredictionService_OutOfRangeScoreIsClamped(t *testing.T) {
	svc := newTestService(&fakeLocator{faces: oneFace}, &fakeEstimator{score: 1.7})

	res := svc.PredictFromBytes(context.Background(), fixturePNG(t, 200, 150))
	require.True(t, res.Success)
	require.Equal(t, 116.0, res.PredictedAge)
	require.GreaterOrEqual(t, res.Confidence, 0.5)
	require.LessOrEqual(t, res.Confidence, 0.99)
}

func TestPredictionService_Idempotent(t *testing.T) {
	svc := newTestService(&fakeLocator{faces: oneFace}, &fakeEstimator{score: -0.42})
	data := fixturePNG(t, 200, 150)

	first := svc.PredictFromBytes(context.Background(), data)
	second := svc.PredictFromBytes(context.Background(), data)
	require.True(t, first.Success)
	require.Equal(t, first, second)
}

func TestPredictionService_Concurrent(t *testing.T) {
	est := &fakeEstimator{score: 0.1}
	svc := newTestService(&fakeLocator{faces: oneFace}, est)
	data := fixturePNG(t, 200, 150)

	var wg sync.WaitGroup
	results := make([]entity.PredictionResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = svc.PredictFromBytes(context.Background(), data)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.Equal(t, results[0], res)
	}
	require.Equal(t, 8, est.calls)
}
