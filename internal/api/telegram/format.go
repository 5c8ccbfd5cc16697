package telegram

import (
	"fmt"
	"strings"

	"age-api/internal/domain/entity"
)

func formatResult(res entity.PredictionResult) string {
	return fmt.Sprintf("🎂 Возраст: %.1f\n📊 Уверенность: %.0f%%", res.PredictedAge, res.Confidence*100)
}

// failureText переводит ошибку конвейера в ответ пользователю
func failureText(res entity.PredictionResult) string {
	switch res.Kind {
	case entity.KindNoFace:
		return msgNoFace
	case entity.KindMultipleFaces:
		return "👥 " + res.Error
	case entity.KindDecode:
		return msgDecodeError
	default:
		return msgProcessingError
	}
}

func formatHistory(records []entity.PredictionRecord) string {
	if len(records) == 0 {
		return msgNoHistory
	}

	var sb strings.Builder
	sb.WriteString("🗂 Последние оценки:\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "• %s — %.1f (%.0f%%)\n", r.CreatedAt.Format("02.01.2006 15:04"), r.PredictedAge, r.Confidence*100)
	}
	return strings.TrimRight(sb.String(), "\n")
}
