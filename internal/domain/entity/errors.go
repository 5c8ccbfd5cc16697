package entity

import "fmt"

// ErrorKind категория ошибки запроса
type ErrorKind string

const (
	KindDecode        ErrorKind = "decode"
	KindNoFace        ErrorKind = "no_face"
	KindMultipleFaces ErrorKind = "multiple_faces"
	KindInference     ErrorKind = "inference"
)

// PipelineError ошибка, завершившая обработку одного запроса.
type PipelineError struct {
	Kind    ErrorKind
	Stage   Stage  // последний успешно пройденный шаг
	Message string // текст для клиента
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s at %s: %s: %v", e.Kind, e.Stage, e.Message, e.Err)
	}
	return fmt.Sprintf("%s at %s: %s", e.Kind, e.Stage, e.Message)
}

func (e *PipelineError) Unwrap() error { return e.Err }

// NewDecodeError изображение не читается
func NewDecodeError(message string, err error) *PipelineError {
	return &PipelineError{Kind: KindDecode, Stage: StageStart, Message: message, Err: err}
}

// NewNoFaceError детектор не нашёл лиц
func NewNoFaceError() *PipelineError {
	return &PipelineError{
		Kind:    KindNoFace,
		Stage:   StageLocated,
		Message: "No face detected in the image. Please ensure the image contains a clear, frontal face.",
	}
}

// NewMultipleFacesError найдено больше одного лица
func NewMultipleFacesError(count int) *PipelineError {
	return &PipelineError{
		Kind:    KindMultipleFaces,
		Stage:   StageLocated,
		Message: fmt.Sprintf("Multiple faces detected (%d faces). Please provide an image with only one face.", count),
	}
}

// NewInferenceError внутренний сбой детектора или модели
func NewInferenceError(stage Stage, err error) *PipelineError {
	return &PipelineError{
		Kind:    KindInference,
		Stage:   stage,
		Message: "Age prediction failed due to an internal error",
		Err:     err,
	}
}

// ModelLoadError модель не загрузилась при старте; сервис не может работать.
type ModelLoadError struct {
	Model string // "age estimator" или "face detector"
	Path  string
	Err   error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("failed to load %s from %s: %v", e.Model, e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error { return e.Err }

// PersistenceError сбой хранилища; на ответ клиенту не влияет.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
