package entity

import "time"

// UnsavedImagePath подставляется вместо пути, если загруженное фото сохранить не удалось.
const UnsavedImagePath = "unsaved"

// Stage шаг конвейера предсказания
type Stage string

const (
	StageStart         Stage = "start"
	StageDecoded       Stage = "decoded"
	StageLocated       Stage = "located"
	StagePolicyChecked Stage = "policy_checked"
	StagePreprocessed  Stage = "preprocessed"
	StageEstimated     Stage = "estimated"
	StageDone          Stage = "done"
	StageError         Stage = "error"
)

// FaceTensor вход модели возраста: плоский float32-буфер формы Shape (NHWC).
type FaceTensor struct {
	Shape [4]int64
	Data  []float32
}

// At возвращает значение по индексам (batch, y, x, channel).
func (t FaceTensor) At(n, y, x, c int) float32 {
	h, w, ch := int(t.Shape[1]), int(t.Shape[2]), int(t.Shape[3])
	return t.Data[((n*h+y)*w+x)*ch+c]
}

// PredictionResult итог одного запроса.
type PredictionResult struct {
	Success      bool      `json:"success"`
	PredictedAge float64   `json:"predicted_age"`
	Confidence   float64   `json:"confidence"`
	FaceBox      FaceBox   `json:"face_coordinates"`
	Error        string    `json:"error,omitempty"`
	Kind         ErrorKind `json:"-"` // пусто при успехе
}

// Failed собирает неуспешный результат из ошибки конвейера.
func Failed(err *PipelineError) PredictionResult {
	return PredictionResult{Success: false, Error: err.Message, Kind: err.Kind}
}

// PredictionRecord сохранённое предсказание пользователя.
type PredictionRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	ImagePath    string    `json:"image_path"`
	PredictedAge float64   `json:"predicted_age"`
	Confidence   float64   `json:"confidence"`
	CreatedAt    time.Time `json:"created_at"`
}
