package httpapi

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"age-api/internal/domain/entity"
)

// Recorder то, что HTTP-слою нужно от приложения
type Recorder interface {
	PredictAndRecord(ctx context.Context, userID int64, filename string, data []byte) (entity.PredictionResult, string)
	History(ctx context.Context, userID int64, limit int) ([]entity.PredictionRecord, error)
}

// Handler HTTP-обработчики сервиса
type Handler struct {
	recorder  Recorder
	maxUpload int64
}

// NewHandler создаёт обработчики; maxUpload в байтах.
func NewHandler(recorder Recorder, maxUpload int64) *Handler {
	return &Handler{recorder: recorder, maxUpload: maxUpload}
}

// predictResponse JSON-ответ предсказания; поля результата опускаются при ошибке
type predictResponse struct {
	Success         bool            `json:"success"`
	PredictedAge    *float64        `json:"predicted_age,omitempty"`
	Confidence      *float64        `json:"confidence,omitempty"`
	FaceCoordinates *entity.FaceBox `json:"face_coordinates,omitempty"`
	ImagePath       string          `json:"image_path,omitempty"`
	Error           string          `json:"error,omitempty"`
}

func newPredictResponse(res entity.PredictionResult, imagePath string) predictResponse {
	if !res.Success {
		return predictResponse{Success: false, Error: res.Error}
	}
	box := res.FaceBox
	return predictResponse{
		Success:         true,
		PredictedAge:    &res.PredictedAge,
		Confidence:      &res.Confidence,
		FaceCoordinates: &box,
		ImagePath:       imagePath,
	}
}

// statusFor сопоставляет категорию ошибки с HTTP-статусом
func statusFor(res entity.PredictionResult) int {
	switch res.Kind {
	case "":
		return http.StatusOK
	case entity.KindDecode:
		return http.StatusBadRequest
	case entity.KindNoFace, entity.KindMultipleFaces:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "API is running"})
}

// Predict POST /getAge, /api/predict: multipart-поле file (или image).
func (h *Handler) Predict(c *gin.Context) {
	userID, err := queryInt64(c, "user_id", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, predictResponse{Error: "user_id must be an integer"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	header, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		header, err = c.FormFile("image")
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, predictResponse{Error: "Uploaded file is too large"})
			return
		}
		c.JSON(http.StatusBadRequest, predictResponse{Error: "No image file provided. Use 'file' as the form field name"})
		return
	}

	data, err := readUpload(header)
	if err != nil {
		log.WithError(err).Warn("[HTTP] Couldn't read upload")
		c.JSON(http.StatusBadRequest, predictResponse{Error: "Failed to read uploaded file"})
		return
	}

	log.WithFields(log.Fields{"user_id": userID, "file": header.Filename, "bytes": len(data)}).Debug("[HTTP] Received upload")

	res, path := h.recorder.PredictAndRecord(c.Request.Context(), userID, header.Filename, data)
	c.JSON(statusFor(res), newPredictResponse(res, path))
}

// History GET /api/predictions?user_id=N&limit=M
func (h *Handler) History(c *gin.Context) {
	userID, err := queryInt64(c, "user_id", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id must be an integer"})
		return
	}
	limit, err := queryInt64(c, "limit", 20)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	records, err := h.recorder.History(c.Request.Context(), userID, int(limit))
	if err != nil {
		log.WithError(err).Error("[HTTP] Couldn't load history")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Couldn't load prediction history - please try again later"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user_id": userID, "predictions": records})
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func queryInt64(c *gin.Context, key string, def int64) (int64, error) {
	v := c.Query(key)
	if v == "" {
		return def, nil
	}
	return strconv.ParseInt(v, 10, 64)
}
