package container

import (
	"fmt"
	"time"

	app "age-api/internal/application"
	"age-api/internal/domain/entity"
	"age-api/internal/domain/port"
	"age-api/internal/infrastructure/vision"
)

// Deps то, что собирается снаружи: загруженные модели и хранилища.
type Deps struct {
	Locator        port.FaceLocator
	Estimator      port.AgeEstimator
	Settings       entity.Settings
	Users          port.UserRepository
	Images         port.ImageStore
	Records        port.PredictionRepository
	Accounts       port.AccountRepository
	BcryptCost     int
	Cache          port.ResultCache // может быть nil
	PersistTimeout time.Duration
}

type Container struct {
	Decoder           *vision.Decoder
	UserService       *app.UserService
	PredictionService *app.PredictionService
	RecordingService  *app.RecordingService
	AuthService       *app.AuthService
}

func New(d Deps) (*Container, error) {
	decoder := vision.NewDecoder(d.Settings.MaxPixels)
	predictionService := app.NewPredictionService(
		decoder,
		d.Locator,
		vision.NewPreprocessor(d.Settings),
		d.Estimator,
		d.Settings,
	)

	authService, err := app.NewAuthService(d.Accounts, d.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return &Container{
		Decoder:           decoder,
		UserService:       app.NewUserService(d.Users),
		PredictionService: predictionService,
		RecordingService:  app.NewRecordingService(predictionService, d.Images, d.Records, d.Cache, d.PersistTimeout),
		AuthService:       authService,
	}, nil
}
