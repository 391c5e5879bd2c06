package api

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/metrics"
	"wishbot/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const (
	dateLayout   = "2006-01-02"
	checkTimeout = 3 * time.Second
)

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("healthz")
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady runs every dependency check and reports each result.
func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("readyz")

	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	results := make(map[string]string, len(names))
	for _, name := range names {
		if err := s.checks[name](ctx); err != nil {
			s.logger.Warn().Err(err).Str("check", name).Msg("Readiness check failed")
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}
	writeJSON(w, status, map[string]any{"checks": results})
}

type itemResponse struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	CategoryID    int64    `json:"category_id"`
	Category      string   `json:"category"`
	Price         *string  `json:"price,omitempty"`
	Tags          []string `json:"tags"`
	LocationType  string   `json:"location_type,omitempty"`
	LocationValue string   `json:"location_value,omitempty"`
	DateFrom      string   `json:"date_from,omitempty"`
	DateTo        string   `json:"date_to,omitempty"`
	URL           string   `json:"url,omitempty"`
	Comment       string   `json:"comment,omitempty"`
	ProductType   string   `json:"product_type,omitempty"`
}

func toItemResponse(item *models.ItemWithCategory) itemResponse {
	resp := itemResponse{
		ID:            item.ID,
		Name:          item.Name,
		CategoryID:    item.CategoryID,
		Category:      item.CategoryName,
		Tags:          []string(item.Tags),
		LocationType:  string(item.LocationType),
		LocationValue: item.LocationValue,
		URL:           item.URL,
		Comment:       item.Comment,
		ProductType:   string(item.ProductType),
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if item.Price.Valid {
		p := item.Price.Decimal.StringFixed(2)
		resp.Price = &p
	}
	if item.DateFrom != nil {
		resp.DateFrom = item.DateFrom.Format(dateLayout)
	}
	if item.DateTo != nil {
		resp.DateTo = item.DateTo.Format(dateLayout)
	}
	return resp
}

func (s *HTTPServer) handleUserItems(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("user_items")

	telegramID, err := strconv.ParseInt(chi.URLParam(r, "telegram_id"), 10, 64)
	if err != nil || telegramID <= 0 {
		writeError(w, http.StatusBadRequest, "telegram_id must be a positive integer")
		return
	}

	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.users.GetUserByTelegramID(r.Context(), telegramID)
	if err != nil {
		if access.KindOf(err) == access.KindNotFound {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error().Err(err).Int64("telegram_id", telegramID).Msg("User lookup failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	items, err := s.items.Filter(r.Context(), user.ID, f)
	if err != nil {
		if access.KindOf(err) == access.KindValidation {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("Item query failed")
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := make([]itemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": out})
}

// parseFilter reads the item filter from query parameters.
func parseFilter(r *http.Request) (models.ItemFilter, error) {
	q := r.URL.Query()
	var f models.ItemFilter

	if v := strings.TrimSpace(q.Get("category_id")); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return f, fmt.Errorf("invalid category_id")
		}
		f.CategoryID = id
	}
	f.Tag = models.NormalizeTag(q.Get("tag"))

	var err error
	if f.PriceMin, err = parseDecimal(q.Get("price_min"), "price_min"); err != nil {
		return f, err
	}
	if f.PriceMax, err = parseDecimal(q.Get("price_max"), "price_max"); err != nil {
		return f, err
	}
	if f.PriceExact, err = parseDecimal(q.Get("price"), "price"); err != nil {
		return f, err
	}

	if v := strings.TrimSpace(q.Get("location_type")); v != "" {
		f.LocationType = models.LocationType(v)
		if !f.LocationType.Valid() {
			return f, fmt.Errorf("invalid location_type")
		}
	}
	f.LocationValue = strings.TrimSpace(q.Get("location"))

	if v := strings.TrimSpace(q.Get("type")); v != "" {
		f.ProductType = models.ProductType(v)
		if !f.ProductType.Valid() {
			return f, fmt.Errorf("invalid type")
		}
	}

	if f.DateFrom, err = parseDate(q.Get("date_from"), "date_from"); err != nil {
		return f, err
	}
	if f.DateTo, err = parseDate(q.Get("date_to"), "date_to"); err != nil {
		return f, err
	}
	return f, nil
}

func parseDecimal(raw, name string) (decimal.NullDecimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		return decimal.NullDecimal{}, fmt.Errorf("invalid %s", name)
	}
	return decimal.NewNullDecimal(d), nil
}

func parseDate(raw, name string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s; expected YYYY-MM-DD", name)
	}
	return &t, nil
}
