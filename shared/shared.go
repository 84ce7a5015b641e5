package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"rentkit/shared/cache"
	"rentkit/shared/constant"
	"rentkit/shared/dto"
	"rentkit/shared/timezone"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

func ConvertStringToBool(value string) *bool {
	if value == "" {
		return nil
	}

	boolValue, err := strconv.ParseBool(value)
	if err != nil {
		log.Error().Err(err).Msg("failed to convert string to bool")

		return nil
	}

	return &boolValue
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	updatedFields[constant.FieldModifiedAt] = timezone.Now()
	updatedFields[constant.FieldModifiedBy] = username

	return updatedFields
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterByOwner scopes a query to the records created by the given owner.
func FilterByOwner(owner, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    constant.FieldCreatedBy,
				Value:    owner,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// ScopeToOwner nests a caller-supplied filter inside the owner filter.
// List and count queries run through this, so whatever the handler
// built from query params can only ever narrow one owner's rows.
func ScopeToOwner(filter dto.FilterGroup, owner, table string) dto.FilterGroup {
	group := FilterByOwner(owner, table)
	if len(filter.Filters) > 0 {
		group.Filters = append(group.Filters, filter)
	}

	return group
}

// FilterByIDOwned scopes a lookup to one record id within one owner's data.
// Every read and mutation on owned entities goes through this filter, so a
// record belonging to another owner behaves exactly like a missing one.
func FilterByIDOwned(id, owner, fieldID, table string) dto.FilterGroup {
	group := FilterByOwner(owner, table)
	group.Filters = append(group.Filters, dto.Filter{
		Field:    fieldID,
		Value:    id,
		Operator: dto.FilterOperatorEq,
		Table:    table,
	})

	return group
}

// FilterByFieldOwned matches one column value within one owner's data,
// optionally excluding a record id. Used for per-owner uniqueness checks.
func FilterByFieldOwned(field string, value any, owner, fieldID, excludeID, table string) dto.FilterGroup {
	group := FilterByOwner(owner, table)
	group.Filters = append(group.Filters, dto.Filter{
		Field:    field,
		Value:    value,
		Operator: dto.FilterOperatorEq,
		Table:    table,
	})

	if excludeID != "" {
		group.Filters = append(group.Filters, dto.Filter{
			Field:    fieldID,
			Value:    excludeID,
			Operator: dto.FilterOperatorNotEq,
			Table:    table,
		})
	}

	return group
}

func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// BuildCacheKeyWithQuery derives a cache key from the query params and
// filter so differently-shaped list requests never collide.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	_, args := filter.GetWhereClause()

	encoded, err := json.Marshal(args)
	if err != nil {
		encoded = []byte(fmt.Sprintf("%v", args))
	}

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		string(encoded),
	)
}

func InvalidateCaches(ctx context.Context, store cache.RedisCache, prefix string) {
	if err := store.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache prefix")
	}
}
