package app

import (
	"math"

	"age-api/internal/domain/entity"
)

// Denormalize переводит score модели из [-1, 1] в годы: ((score+1)/2)*maxAge.
func Denormalize(score, maxAge float64) float64 {
	return ((score + 1) / 2) * maxAge
}

// Confidence эвристика уверенности: 1-|score|, зажатая в [floor, ceil].
// Максимальна в центре диапазона (score=0), минимальна на краях (score=±1).
// Это не калиброванная вероятность, а заглушка, сохранённая как есть.
func Confidence(score, floor, ceil float64) float64 {
	return clamp(1-math.Abs(score), floor, ceil)
}

// Postprocess собирает успешный результат из score и рамки лица.
// clamped сообщает, что возраст вышел за [0, MaxAge] и был обрезан.
func Postprocess(score float32, box entity.FaceBox, s entity.Settings) (result entity.PredictionResult, clamped bool) {
	raw := Denormalize(float64(score), s.MaxAge)
	age := clamp(raw, 0, s.MaxAge)

	return entity.PredictionResult{
		Success:      true,
		PredictedAge: round(age, 1),
		Confidence:   round(Confidence(float64(score), s.ConfidenceFloor, s.ConfidenceCeil), 3),
		FaceBox:      box,
	}, age != raw
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
