package entity

// UserState состояние пользователя в диалоге с ботом
type UserState string

const (
	StateIdle          UserState = "idle"           // ждём команду
	StateAwaitingPhoto UserState = "awaiting_photo" // ждём фото лица
	StateProcessing    UserState = "processing"     // идёт предсказание
)

// User пользователь сервиса (Telegram-пользователь или клиент HTTP API)
type User struct {
	ID       int64
	ChatID   int64
	Username string
	State    UserState
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateIdle,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Busy сообщает, что для пользователя уже идёт обработка
func (u *User) Busy() bool {
	return u.State == StateProcessing
}
