package port

import "age-api/internal/domain/entity"

// ImageDecoder превращает сырые байты или файл в изображение
type ImageDecoder interface {
	DecodeBytes(data []byte) (*entity.Image, error)
	DecodeFile(path string) (*entity.Image, error)
}

// FacePreprocessor готовит вырезанное лицо к подаче в модель
type FacePreprocessor interface {
	Preprocess(img *entity.Image, box entity.FaceBox) (entity.FaceTensor, error)
}
