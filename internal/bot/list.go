package bot

import (
	"fmt"
	"strings"

	"wishbot/internal/i18n"
	"wishbot/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// showList renders the items visible to the user under the active filter.
func (b *Bot) showList(r *request, state *models.UserState, page int, edit bool) {
	f := filterOf(state)
	items, err := b.items.Filter(r.ctx, r.user.ID, f)
	if err != nil {
		b.fail(r, err)
		return
	}

	footer := [][]tgbotapi.InlineKeyboardButton{
		row(button(r.t("btn.filter"), "flt:menu"), button(r.t("btn.export"), "export")),
		row(button(r.t("btn.menu"), "menu")),
	}

	title := r.t("msg.list", len(items))
	if !f.IsEmpty() {
		title += "\n" + b.describeFilter(r, f)
	}

	if len(items) == 0 {
		text := title + "\n\n" + r.t("msg.list_empty")
		kb := tgbotapi.NewInlineKeyboardMarkup(footer...)
		if edit {
			b.edit(r, text, kb)
		} else {
			b.send(r, text, kb)
		}
		return
	}

	params := PaginationParams{
		Page:       page,
		Title:      title,
		PagePrefix: "list_page",
		Footer:     footer,
		Edit:       edit,
	}
	b.renderPaginatedList(r, params, len(items), func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		for i, item := range items[startIdx:endIdx] {
			n := startIdx + i + 1
			content.WriteString(fmt.Sprintf("%d. *%s*", n, i18n.EscapeMarkdown(item.Name)))
			if item.Price.Valid {
				content.WriteString(" · " + formatPrice(item.Price))
			}
			if item.DateFrom != nil {
				content.WriteString(" · " + formatDates(item.DateFrom, item.DateTo))
			}
			content.WriteString("\n   📁 " + i18n.EscapeMarkdown(item.CategoryName))
			if len(item.Tags) > 0 {
				content.WriteString(" " + i18n.EscapeMarkdown(item.Tags.String()))
			}
			content.WriteString("\n")

			keyboard = append(keyboard, row(button(
				fmt.Sprintf("%d. %s", n, truncate(item.Name, 40)),
				callbackData("item", item.ID),
			)))
		}
		return content.String(), keyboard
	})
}

// describeFilter lists the active criteria, one per line.
func (b *Bot) describeFilter(r *request, f models.ItemFilter) string {
	var lines []string
	add := func(field, value string) {
		lines = append(lines, fmt.Sprintf("%s: %s", r.t("field."+field), value))
	}

	if f.CategoryID != 0 {
		name := fmt.Sprintf("#%d", f.CategoryID)
		if c, err := b.categories.Get(r.ctx, r.user.ID, f.CategoryID); err == nil {
			name = i18n.EscapeMarkdown(c.Name)
		}
		add("category", name)
	}
	if f.Tag != "" {
		add("tags", i18n.EscapeMarkdown("#"+f.Tag))
	}
	switch {
	case f.PriceExact.Valid:
		add("price", "= "+formatPrice(f.PriceExact))
	case f.PriceMin.Valid && f.PriceMax.Valid:
		add("price", formatPrice(f.PriceMin)+" – "+formatPrice(f.PriceMax))
	case f.PriceMin.Valid:
		add("price", "≥ "+formatPrice(f.PriceMin))
	case f.PriceMax.Valid:
		add("price", "≤ "+formatPrice(f.PriceMax))
	}
	if f.LocationType != "" {
		loc := r.t("location." + string(f.LocationType))
		if f.LocationValue != "" {
			loc += ", " + i18n.EscapeMarkdown(f.LocationValue)
		}
		add("location", loc)
	}
	if f.DateFrom != nil {
		add("date", formatDates(f.DateFrom, f.DateTo))
	}
	if f.ProductType != "" {
		add("type", r.t("product."+string(f.ProductType)))
	}
	return strings.Join(lines, "\n")
}
