package filter

import (
	"context"
	"strings"

	"wishbot/internal/domain"
	"wishbot/internal/metrics"
	"wishbot/internal/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/rs/zerolog"
)

// Engine returns the items a user may see, narrowed by an optional filter.
type Engine struct {
	store  domain.ItemQuerier
	logger *zerolog.Logger
}

func NewEngine(store domain.ItemQuerier, logger *zerolog.Logger) *Engine {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Engine{store: store, logger: logger}
}

// FilterItems returns visible items matching f, newest first.
// Contradictory filters (e.g. price_min above price_max) yield an empty list.
func (e *Engine) FilterItems(ctx context.Context, userID int64, f models.ItemFilter) ([]*models.ItemWithCategory, error) {
	items, err := e.store.QueryItems(ctx, Build(userID, f))
	if err != nil {
		return nil, err
	}

	metrics.IncFilterQuery(!f.IsEmpty())
	e.logger.Debug().
		Int64("user_id", userID).
		Bool("filtered", !f.IsEmpty()).
		Int("count", len(items)).
		Msg("Items filtered")
	return items, nil
}

// Visible is the base set of items a user owns or can reach through a
// category they own or hold a grant on.
func Visible(userID int64) sq.Sqlizer {
	return sq.Or{
		sq.Eq{"items.owner_id": userID},
		sq.Eq{"c.owner_id": userID},
		sq.Expr("items.category_id IN (SELECT category_id FROM shared_access WHERE user_id = ?)", userID),
	}
}

// Build composes the visibility base set and the filter predicates. Filters
// only ever narrow the base set.
func Build(userID int64, f models.ItemFilter) sq.Sqlizer {
	where := sq.And{Visible(userID)}

	if f.CategoryID != 0 {
		where = append(where, sq.Eq{"items.category_id": f.CategoryID})
	}

	if tag := models.NormalizeTag(f.Tag); tag != "" {
		where = append(where, sq.Expr(`LOWER(items.tags) LIKE ? ESCAPE '\'`, "%"+escapeLike(tag)+"%"))
	}

	where = append(where, pricePredicates(f)...)

	if f.LocationType != "" {
		where = append(where, sq.Eq{"items.location_type": f.LocationType})
	}
	if v := strings.TrimSpace(f.LocationValue); v != "" {
		where = append(where, sq.Eq{"items.location_value": v})
	}

	where = append(where, datePredicates(f)...)

	if f.ProductType != "" {
		where = append(where, sq.Eq{"items.product_type": f.ProductType})
	}

	return where
}

func pricePredicates(f models.ItemFilter) []sq.Sqlizer {
	if f.PriceExact.Valid {
		return []sq.Sqlizer{sq.Eq{"items.price": f.PriceExact.Decimal}}
	}

	var preds []sq.Sqlizer
	if f.PriceMin.Valid {
		preds = append(preds, sq.GtOrEq{"items.price": f.PriceMin.Decimal})
	}
	if f.PriceMax.Valid {
		preds = append(preds, sq.LtOrEq{"items.price": f.PriceMax.Decimal})
	}
	return preds
}

// datePredicates keeps items starting no earlier than the window start and
// ending (or, for single dates, starting) no later than the window end.
func datePredicates(f models.ItemFilter) []sq.Sqlizer {
	if f.DateFrom == nil && f.DateTo == nil {
		return nil
	}

	preds := []sq.Sqlizer{sq.NotEq{"items.date_from": nil}}
	if f.DateFrom != nil {
		preds = append(preds, sq.GtOrEq{"items.date_from": models.Day(*f.DateFrom)})
	}
	if f.DateTo != nil {
		preds = append(preds, sq.Expr("COALESCE(items.date_to, items.date_from) <= ?", models.Day(*f.DateTo)))
	}
	return preds
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
