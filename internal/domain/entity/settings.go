package entity

// Settings собирает все константы конвейера в одном месте.
type Settings struct {
	// Декодер
	MaxPixels int // предел Width×Height загруженного изображения

	// Детектор лиц
	ScaleFactor  float64 // шаг масштаба между окнами поиска
	MinNeighbors int     // сколько соседних срабатываний подтверждают лицо
	MinFaceSize  int     // минимальная сторона лица в пикселях

	// Препроцессинг
	InputSize    int        // сторона квадратного входа модели
	ChannelMeans [3]float32 // средние по каналам в порядке RGB

	// Постпроцессинг
	MaxAge          float64 // максимальный возраст в обучающей выборке
	ConfidenceFloor float64
	ConfidenceCeil  float64
}

// DefaultSettings возвращает значения, с которыми обучалась и работала модель.
func DefaultSettings() Settings {
	return Settings{
		MaxPixels:       40_000_000,
		ScaleFactor:     1.2,
		MinNeighbors:    5,
		MinFaceSize:     60,
		InputSize:       224,
		ChannelMeans:    [3]float32{123.68, 116.78, 103.94},
		MaxAge:          116.0,
		ConfidenceFloor: 0.5,
		ConfidenceCeil:  0.99,
	}
}
