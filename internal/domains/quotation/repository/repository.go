package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"rentkit/infras/otel"
	"rentkit/infras/postgres"
	"rentkit/internal/domains/quotation/model"
	gDto "rentkit/shared/dto"
	gRepo "rentkit/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Quotation interface {
	Insert(ctx context.Context, model model.Quotation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Quotation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Quotation, error)
	GetLatest(ctx context.Context, filter gDto.FilterGroup) (model.Quotation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Quotation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Quotation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Quotation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetLatest returns the most recently created quotation matching the
// filter, or a zero quotation when none exists.
func (r *repositoryImpl) GetLatest(ctx context.Context, filter gDto.FilterGroup) (model.Quotation, error) {
	params := gDto.QueryParams{
		Limit:   1,
		SortBy:  "created_at",
		SortDir: gDto.SortDirDesc,
	}

	quotations, err := r.GetAll(ctx, params, filter)
	if err != nil {
		return model.Quotation{}, err
	}

	if len(quotations) == 0 {
		return model.Quotation{}, nil
	}

	return quotations[0], nil
}
