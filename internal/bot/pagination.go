package bot

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type PaginationParams struct {
	Page       int
	Title      string
	PagePrefix string
	Footer     [][]tgbotapi.InlineKeyboardButton
	Edit       bool
}

// renderPaginatedList draws one page of a list with navigation buttons. The
// renderer receives the bounds of the current page.
func (b *Bot) renderPaginatedList(r *request, params PaginationParams, totalCount int, renderer func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton)) {
	itemsPerPage := b.pageSize()

	totalPages := (totalCount + itemsPerPage - 1) / itemsPerPage
	if params.Page >= totalPages && totalPages > 0 {
		params.Page = totalPages - 1
	}
	if params.Page < 0 {
		params.Page = 0
	}

	startIdx := params.Page * itemsPerPage
	endIdx := startIdx + itemsPerPage
	if endIdx > totalCount {
		endIdx = totalCount
	}

	content, keyboard := renderer(startIdx, endIdx)

	var message strings.Builder
	message.WriteString(params.Title)
	message.WriteString("\n\n")
	if totalPages > 1 {
		message.WriteString(r.t("msg.page", params.Page+1, totalPages))
		message.WriteString("\n\n")
	}
	message.WriteString(content)

	var navButtons []tgbotapi.InlineKeyboardButton
	if params.Page > 0 {
		navButtons = append(navButtons, button(r.t("btn.prev"), fmt.Sprintf("%s:%d", params.PagePrefix, params.Page-1)))
	}
	if endIdx < totalCount {
		navButtons = append(navButtons, button(r.t("btn.next"), fmt.Sprintf("%s:%d", params.PagePrefix, params.Page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}
	keyboard = append(keyboard, params.Footer...)

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if params.Edit {
		b.edit(r, message.String(), markup)
		return
	}
	b.send(r, message.String(), markup)
}
