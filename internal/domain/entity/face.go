package entity

import "image"

// FaceBox представляет область с обнаруженным лицом
type FaceBox struct {
	X      int `json:"x"`      // координата X левого верхнего угла
	Y      int `json:"y"`      // координата Y левого верхнего угла
	Width  int `json:"width"`  // ширина области в пикселях
	Height int `json:"height"` // высота области в пикселях
}

// NewFaceBox строит FaceBox из прямоугольника детектора
func NewFaceBox(r image.Rectangle) FaceBox {
	return FaceBox{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rect возвращает область как image.Rectangle
func (b FaceBox) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.Width, b.Y+b.Height)
}

// Within проверяет, что область непустая и целиком лежит внутри изображения width×height.
func (b FaceBox) Within(width, height int) bool {
	if b.Width <= 0 || b.Height <= 0 || b.X < 0 || b.Y < 0 {
		return false
	}
	return b.X+b.Width <= width && b.Y+b.Height <= height
}
