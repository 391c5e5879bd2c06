package bot

import (
	"encoding/json"
	"fmt"

	"wishbot/internal/models"
)

// Conversation steps stored in models.UserState.CurrentStep.
const (
	stepNone = ""

	stepCategoryName   = "category_name"
	stepCategoryRename = "category_rename"
	stepCategoryDate   = "category_date"
	stepEnterCode      = "enter_code"

	stepItemCategory      = "item_category"
	stepItemName          = "item_name"
	stepItemPrice         = "item_price"
	stepItemTags          = "item_tags"
	stepItemLocation      = "item_location"
	stepItemLocationValue = "item_location_value"
	stepItemDate          = "item_date"
	stepItemURL           = "item_url"
	stepItemComment       = "item_comment"
	stepItemPhoto         = "item_photo"
	stepItemType          = "item_type"
	stepItemConfirm       = "item_confirm"

	stepFilterTag      = "filter_tag"
	stepFilterExact    = "filter_exact"
	stepFilterRange    = "filter_range"
	stepFilterDates    = "filter_dates"
	stepFilterLocation = "filter_location"
)

// TempData keys.
const (
	keyFilter   = "filter"
	keyDraft    = "draft"
	keyEditing  = "editing"
	keyCategory = "category_id"
)

// addSteps is the order of the item creation flow.
var addSteps = []string{
	stepItemCategory,
	stepItemName,
	stepItemPrice,
	stepItemTags,
	stepItemLocation,
	stepItemLocationValue,
	stepItemDate,
	stepItemURL,
	stepItemComment,
	stepItemPhoto,
	stepItemType,
	stepItemConfirm,
}

func nextAddStep(current string, draft *models.Item) string {
	for i, step := range addSteps {
		if step != current || i+1 == len(addSteps) {
			continue
		}
		next := addSteps[i+1]
		if next == stepItemLocationValue && draft.LocationType == "" {
			next = addSteps[i+2]
		}
		return next
	}
	return stepItemConfirm
}

// loadState returns the user's state, never nil.
func (b *Bot) loadState(r *request) *models.UserState {
	state, err := b.stateService.GetUserState(r.ctx, r.user.ID)
	if err != nil || state == nil {
		return &models.UserState{UserID: r.user.ID, TempData: map[string]interface{}{}}
	}
	if state.TempData == nil {
		state.TempData = map[string]interface{}{}
	}
	return state
}

func (b *Bot) saveState(r *request, state *models.UserState, step string) {
	state.CurrentStep = step
	if err := b.stateService.SetUserState(r.ctx, r.user.ID, step, state.TempData); err != nil {
		b.logger.Error().Err(err).Int64("user_id", r.user.ID).Str("step", step).Msg("Failed to save state")
	}
}

// resetFlow drops everything but the active filter.
func (b *Bot) resetFlow(r *request, state *models.UserState) {
	data := map[string]interface{}{}
	if raw, ok := state.TempData[keyFilter]; ok {
		data[keyFilter] = raw
	}
	state.TempData = data
	b.saveState(r, state, stepNone)
}

func (b *Bot) clearState(r *request) {
	if err := b.stateService.ClearUserState(r.ctx, r.user.ID); err != nil {
		b.logger.Error().Err(err).Int64("user_id", r.user.ID).Msg("Failed to clear state")
	}
}

// The draft item and the filter are kept as JSON strings so they survive
// the state repository's serialization unchanged.

func draftOf(state *models.UserState) (*models.Item, error) {
	item := &models.Item{}
	raw := state.GetString(keyDraft)
	if raw == "" {
		return item, nil
	}
	if err := json.Unmarshal([]byte(raw), item); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return item, nil
}

func putDraft(state *models.UserState, item *models.Item) error {
	raw, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	state.Set(keyDraft, string(raw))
	return nil
}

func filterOf(state *models.UserState) models.ItemFilter {
	var f models.ItemFilter
	if raw := state.GetString(keyFilter); raw != "" {
		_ = json.Unmarshal([]byte(raw), &f)
	}
	return f
}

func putFilter(state *models.UserState, f models.ItemFilter) {
	if f.IsEmpty() {
		delete(state.TempData, keyFilter)
		return
	}
	raw, err := json.Marshal(f)
	if err != nil {
		return
	}
	state.Set(keyFilter, string(raw))
}
