package estimator

import (
	"context"
	"errors"
	"fmt"
	"os"

	ort "github.com/yalue/onnxruntime_go"

	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

const modelName = "age estimator"

// ONNXEstimator регрессионная модель возраста в onnxruntime.
// Входной и выходной тензоры выделяются один раз и переиспользуются,
// поэтому одновременно допустим только один вызов Estimate.
type ONNXEstimator struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
	inputShape   ort.Shape
}

// LoadONNX поднимает окружение onnxruntime и открывает модель.
// Модель должна принимать один float32-тензор [N,size,size,3] и отдавать одно число.
func LoadONNX(modelPath, libraryPath string, size int) (*ONNXEstimator, error) {
	fail := func(err error) (*ONNXEstimator, error) {
		return nil, &entity.ModelLoadError{Model: modelName, Path: modelPath, Err: err}
	}

	if _, err := os.Stat(modelPath); err != nil {
		return fail(err)
	}

	if libraryPath != "" {
		ort.SetSharedLibraryPath(libraryPath)
	}
	if !ort.IsInitialized() {
		if err := ort.InitializeEnvironment(); err != nil {
			return fail(fmt.Errorf("initialize onnx environment: %w", err))
		}
	}

	inputs, outputs, err := ort.GetInputOutputInfo(modelPath)
	if err != nil {
		return fail(fmt.Errorf("read model io: %w", err))
	}
	if len(inputs) != 1 || len(outputs) != 1 {
		return fail(fmt.Errorf("expected 1 input and 1 output, got %d and %d", len(inputs), len(outputs)))
	}

	inputShape := ort.NewShape(1, int64(size), int64(size), 3)
	if err := CheckShape(inputs[0].Dimensions, inputShape); err != nil {
		return fail(fmt.Errorf("input %q: %w", inputs[0].Name, err))
	}
	outputShape, err := ScalarOutputShape(outputs[0].Dimensions)
	if err != nil {
		return fail(fmt.Errorf("output %q: %w", outputs[0].Name, err))
	}

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return fail(fmt.Errorf("create input tensor: %w", err))
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return fail(fmt.Errorf("create output tensor: %w", err))
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{inputs[0].Name}, []string{outputs[0].Name},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return fail(fmt.Errorf("create onnx session: %w", err))
	}

	return &ONNXEstimator{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		inputShape:   inputShape,
	}, nil
}

// Estimate выполняет один прямой проход.
func (e *ONNXEstimator) Estimate(ctx context.Context, tensor entity.FaceTensor) (float32, error) {
	_ = ctx
	if err := CheckShape(ort.NewShape(tensor.Shape[:]...), e.inputShape); err != nil {
		return 0, err
	}

	data := e.inputTensor.GetData()
	if len(tensor.Data) != len(data) {
		return 0, fmt.Errorf("tensor has %d values, model expects %d", len(tensor.Data), len(data))
	}
	copy(data, tensor.Data)

	if err := e.session.Run(); err != nil {
		return 0, fmt.Errorf("inference failed: %w", err)
	}

	out := e.outputTensor.GetData()
	if len(out) == 0 {
		return 0, errors.New("model returned no output")
	}
	return out[0], nil
}

// Close освобождает тензоры, сессию и окружение onnxruntime.
func (e *ONNXEstimator) Close() error {
	if e.inputTensor != nil {
		e.inputTensor.Destroy()
	}
	if e.outputTensor != nil {
		e.outputTensor.Destroy()
	}
	if e.session != nil {
		e.session.Destroy()
	}
	return ort.DestroyEnvironment()
}

// CheckShape сравнивает размерности модели с ожидаемыми; -1 совпадает с любой.
func CheckShape(got, want ort.Shape) error {
	if len(got) != len(want) {
		return fmt.Errorf("shape %v has rank %d, want %v", got, len(got), want)
	}
	for i := range got {
		if got[i] != -1 && got[i] != want[i] {
			return fmt.Errorf("shape %v is incompatible with %v", got, want)
		}
	}
	return nil
}

// ScalarOutputShape проверяет, что выход содержит одно значение на пример,
// и возвращает его форму с batch = 1.
func ScalarOutputShape(dims ort.Shape) (ort.Shape, error) {
	if len(dims) == 0 {
		return nil, errors.New("output has no dimensions")
	}
	shape := make([]int64, len(dims))
	for i, d := range dims {
		switch {
		case i == 0 && d == -1:
			shape[i] = 1
		case d == -1:
			return nil, fmt.Errorf("dynamic output dimension %d", i)
		default:
			shape[i] = d
		}
	}
	out := ort.NewShape(shape...)
	if out.FlattenedSize() != 1 {
		return nil, fmt.Errorf("output %v is not a single score", dims)
	}
	return out, nil
}

// Проверка реализации интерфейса
var _ port.AgeEstimator = (*ONNXEstimator)(nil)
