package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rentkit/infras/otel"
	"rentkit/infras/postgres"
	"rentkit/internal/domains/maintenance/model"
	gDto "rentkit/shared/dto"
	gRepo "rentkit/shared/repository"
)

type MaintenanceLog interface {
	Insert(ctx context.Context, model model.MaintenanceLog) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.MaintenanceLog, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.MaintenanceLog, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.MaintenanceLog]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) MaintenanceLog {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.MaintenanceLog](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
