package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	app "age-api/internal/application"
	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
)

const (
	msgStart = `👋 Привет! Я оцениваю возраст по фотографии лица.

📸 Отправьте мне фото, на котором видно одно лицо.

📋 Команды:
/age — оценить возраст
/history — последние оценки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото с одним лицом
2️⃣ Бот найдёт лицо и оценит возраст
3️⃣ Вы получите возраст, уверенность и фото с рамкой

💡 Рекомендации:
• Лицо должно смотреть в камеру
• В кадре должен быть только один человек
• Фото должно быть чётким и светлым`

	msgAwaitingPhoto   = "📸 Отправьте фото лица."
	msgCancelled       = "❌ Операция отменена. Отправьте /age для новой оценки."
	msgSendPhoto       = "📸 Пожалуйста, отправьте фото лица для оценки возраста."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing      = "⏳ Обрабатываю изображение..."
	msgBusy            = "⏳ Предыдущее фото ещё обрабатывается."
	msgNoFace          = "🙈 Лицо не найдено. Нужна чёткая фотография лица анфас."
	msgDecodeError     = "⚠️ Не удалось прочитать изображение. Попробуйте другой файл."
	msgProcessingError = "⚠️ Не удалось обработать изображение. Попробуйте сделать другое фото."
	msgNoHistory       = "🗂 Оценок пока нет."
)

// Recorder то, что боту нужно от приложения
type Recorder interface {
	PredictAndRecord(ctx context.Context, userID int64, filename string, data []byte) (entity.PredictionResult, string)
	History(ctx context.Context, userID int64, limit int) ([]entity.PredictionRecord, error)
}

// messenger часть Bot API, через которую бот отвечает и скачивает фото
type messenger interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetFileDirectURL(fileID string) (string, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	client      *tgbotapi.BotAPI
	api         messenger
	users       *app.UserService
	recorder    Recorder
	decoder     port.ImageDecoder
	highlighter port.FaceHighlighter // может быть nil
	httpc       *http.Client
}

// NewBot создаёт нового бота; highlighter может быть nil.
func NewBot(token string, users *app.UserService, recorder Recorder, decoder port.ImageDecoder, highlighter port.FaceHighlighter) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Infof("[Bot] Authorized on account %s", api.Self.UserName)

	b := newBot(api, users, recorder, decoder, highlighter)
	b.client = api
	return b, nil
}

func newBot(api messenger, users *app.UserService, recorder Recorder, decoder port.ImageDecoder, highlighter port.FaceHighlighter) *Bot {
	return &Bot{
		api:         api,
		users:       users,
		recorder:    recorder,
		decoder:     decoder,
		highlighter: highlighter,
		httpc:       &http.Client{Timeout: 60 * time.Second},
	}
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.client.GetUpdatesChan(u)
	defer b.client.StopReceivingUpdates()

	b.serve(ctx, updates)
	return nil
}

// serve обрабатывает каждое сообщение в своей горутине и при выходе
// дожидается всех начатых обработок
func (b *Bot) serve(ctx context.Context, updates tgbotapi.UpdatesChannel) {
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		log.WithError(err).Error("[Bot] Error getting user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		b.users.Reset(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "age":
		b.users.AwaitPhoto(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgAwaitingPhoto)

	case "history":
		records, err := b.recorder.History(ctx, user.ID, 5)
		if err != nil {
			log.WithError(err).Error("[Bot] Error loading history")
			b.sendMessage(msg.Chat.ID, msgProcessingError)
			return
		}
		b.sendMessage(msg.Chat.ID, formatHistory(records))

	case "cancel":
		b.users.Reset(ctx, user.ID, user.ChatID)
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto скачивает фото, оценивает возраст и отвечает результатом
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	claimed, err := b.users.StartProcessing(ctx, user.ID, user.ChatID)
	if err != nil {
		log.WithError(err).Error("[Bot] Error updating user state")
		return
	}
	if !claimed {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}
	defer b.users.Reset(ctx, user.ID, user.ChatID)

	b.sendMessage(msg.Chat.ID, msgProcessing)

	// Берём фото с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(photo.FileID)
	if err != nil {
		log.WithError(err).Error("[Bot] Error downloading photo")
		b.sendMessage(msg.Chat.ID, msgProcessingError)
		return
	}

	res, _ := b.recorder.PredictAndRecord(ctx, user.ID, photo.FileUniqueID+".jpg", imageData)
	if !res.Success {
		b.sendMessage(msg.Chat.ID, failureText(res))
		return
	}

	text := formatResult(res)
	if highlighted := b.highlight(imageData, res); highlighted != nil {
		upload := tgbotapi.NewPhoto(msg.Chat.ID, tgbotapi.FileBytes{Name: "face.jpg", Bytes: highlighted})
		upload.Caption = text
		_, err := b.api.Send(upload)
		if err == nil {
			return
		}
		log.WithError(err).Warn("[Bot] Error sending highlighted photo")
	}
	b.sendMessage(msg.Chat.ID, text)
}

// highlight возвращает фото с рамкой или nil, если нарисовать не удалось
func (b *Bot) highlight(imageData []byte, res entity.PredictionResult) []byte {
	if b.highlighter == nil {
		return nil
	}
	img, err := b.decoder.DecodeBytes(imageData)
	if err != nil {
		return nil
	}
	out, err := b.highlighter.Highlight(img, res.FaceBox, fmt.Sprintf("Age: %.1f", res.PredictedAge))
	if err != nil {
		log.WithError(err).Debug("[Bot] Highlight unavailable")
		return nil
	}
	return out
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(fileID string) ([]byte, error) {
	link, err := b.api.GetFileDirectURL(fileID)
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	resp, err := b.httpc.Get(link)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.WithError(err).Error("[Bot] Error sending message")
	}
}
