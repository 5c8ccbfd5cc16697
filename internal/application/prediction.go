package app

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	log "github.com/sirupsen/logrus"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

// PredictionService единственная точка входа конвейера:
// декодирование → поиск лица → проверка политики → препроцессинг → модель → постпроцессинг.
// Создаётся один раз на процесс; модели только читаются.
type PredictionService struct {
	decoder      port.ImageDecoder
	locator      port.FaceLocator
	preprocessor port.FacePreprocessor
	estimator    port.AgeEstimator
	settings     entity.Settings

	// детектор и модель не рассчитаны на параллельные вызовы
	locateMu   sync.Mutex
	estimateMu sync.Mutex
}

// NewPredictionService собирает конвейер из уже загруженных компонентов.
func NewPredictionService(
	decoder port.ImageDecoder,
	locator port.FaceLocator,
	preprocessor port.FacePreprocessor,
	estimator port.AgeEstimator,
	settings entity.Settings,
) *PredictionService {
	return &PredictionService{
		decoder:      decoder,
		locator:      locator,
		preprocessor: preprocessor,
		estimator:    estimator,
		settings:     settings,
	}
}

// PredictFromBytes предсказывает возраст по закодированному изображению.
func (s *PredictionService) PredictFromBytes(ctx context.Context, data []byte) entity.PredictionResult {
	img, err := s.decoder.DecodeBytes(data)
	if err != nil {
		return s.fail(entity.NewDecodeError("Cannot decode image bytes", err))
	}
	return s.predict(ctx, img)
}

// PredictFromFile предсказывает возраст по файлу на диске.
func (s *PredictionService) PredictFromFile(ctx context.Context, path string) entity.PredictionResult {
	img, err := s.decoder.DecodeFile(path)
	if err != nil {
		return s.fail(entity.NewDecodeError("Cannot load image file", err))
	}
	return s.predict(ctx, img)
}

func (s *PredictionService) predict(ctx context.Context, img *entity.Image) entity.PredictionResult {
	trace := log.WithField("size", fmt.Sprintf("%dx%d", img.Width, img.Height))
	trace.WithField("stage", entity.StageDecoded).Debug("[Pipeline] Image decoded")

	faces, err := s.locate(ctx, img)
	if err != nil {
		return s.fail(entity.NewInferenceError(entity.StageDecoded, err))
	}
	trace.WithFields(log.Fields{"stage": entity.StageLocated, "faces": len(faces)}).Debug("[Pipeline] Faces located")

	switch {
	case len(faces) == 0:
		return s.fail(entity.NewNoFaceError())
	case len(faces) > 1:
		return s.fail(entity.NewMultipleFacesError(len(faces)))
	}
	box := faces[0]
	if !box.Within(img.Width, img.Height) {
		return s.fail(entity.NewInferenceError(entity.StageLocated, fmt.Errorf("face box %+v outside image", box)))
	}
	trace.WithFields(log.Fields{"stage": entity.StagePolicyChecked, "box": box}).Debug("[Pipeline] Single face accepted")

	tensor, err := s.preprocessor.Preprocess(img, box)
	if err != nil {
		return s.fail(entity.NewInferenceError(entity.StagePolicyChecked, fmt.Errorf("preprocess face: %w", err)))
	}
	trace.WithField("stage", entity.StagePreprocessed).Debug("[Pipeline] Face preprocessed")

	score, err := s.estimate(ctx, tensor)
	if err != nil {
		return s.fail(entity.NewInferenceError(entity.StagePreprocessed, err))
	}
	trace.WithFields(log.Fields{"stage": entity.StageEstimated, "score": score}).Debug("[Pipeline] Score estimated")

	result, clamped := Postprocess(score, box, s.settings)
	if clamped {
		trace.WithField("score", score).Warn("[Pipeline] Raw score outside [-1, 1], age clamped")
	}
	trace.WithFields(log.Fields{
		"stage":      entity.StageDone,
		"age":        result.PredictedAge,
		"confidence": result.Confidence,
	}).Info("[Pipeline] Age predicted")
	return result
}

func (s *PredictionService) locate(ctx context.Context, img *entity.Image) (faces []entity.FaceBox, err error) {
	s.locateMu.Lock()
	defer s.locateMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("face detector panic: %v", r)
		}
	}()

	faces, err = s.locator.Locate(ctx, img)
	if err != nil {
		return nil, fmt.Errorf("locate faces: %w", err)
	}
	return faces, nil
}

func (s *PredictionService) estimate(ctx context.Context, tensor entity.FaceTensor) (score float32, err error) {
	s.estimateMu.Lock()
	defer s.estimateMu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("age estimator panic: %v", r)
		}
	}()

	score, err = s.estimator.Estimate(ctx, tensor)
	if err != nil {
		return 0, fmt.Errorf("estimate age: %w", err)
	}
	if math.IsNaN(float64(score)) || math.IsInf(float64(score), 0) {
		return 0, errors.New("estimate age: model returned a non-finite score")
	}
	return score, nil
}

func (s *PredictionService) fail(err *entity.PipelineError) entity.PredictionResult {
	entry := log.WithFields(log.Fields{"stage": entity.StageError, "failed_after": err.Stage, "kind": err.Kind})
	if err.Kind == entity.KindInference {
		entry.WithError(err).Error("[Pipeline] Prediction failed")
	} else {
		entry.Info("[Pipeline] ", err.Message)
	}
	return entity.Failed(err)
}
