package notify

import (
	"fmt"
	"strings"

	"wishbot/internal/events"
	"wishbot/internal/i18n"
	"wishbot/internal/models"
)

const dateLayout = models.DateFormat

func displayName(u *models.User, lang models.Language) string {
	if name := u.DisplayName(); name != "" {
		return i18n.EscapeMarkdown(name)
	}
	return i18n.Pick(lang, "User", "Пользователь")
}

// ItemReminderText renders the reminder for an item due in days.
func ItemReminderText(lang models.Language, r Reminder) string {
	name := i18n.EscapeMarkdown(r.Item.Name)
	date := r.Date.Format(dateLayout)

	var b strings.Builder
	b.WriteString(i18n.Pick(lang, "🔔 Reminder!\n\n", "🔔 Напоминание!\n\n"))
	switch r.DaysBefore {
	case 0:
		b.WriteString(i18n.Pick(lang,
			fmt.Sprintf("Today (%s) you have a scheduled item:\n", date),
			fmt.Sprintf("Сегодня (%s) у вас запланирован элемент:\n", date)))
	case 1:
		b.WriteString(i18n.Pick(lang,
			fmt.Sprintf("Tomorrow (%s) you have a scheduled item:\n", date),
			fmt.Sprintf("Завтра (%s) у вас запланирован элемент:\n", date)))
	default:
		b.WriteString(i18n.Pick(lang,
			fmt.Sprintf("In %d days (%s) you have a scheduled item:\n", r.DaysBefore, date),
			fmt.Sprintf("Через %d дн. (%s) у вас запланирован элемент:\n", r.DaysBefore, date)))
	}
	fmt.Fprintf(&b, "🎯 *%s*", name)

	if r.Item.Comment != "" {
		b.WriteString(i18n.Pick(lang, "\n💬 Comment: ", "\n💬 Комментарий: "))
		b.WriteString(i18n.EscapeMarkdown(r.Item.Comment))
	}
	return b.String()
}

func CategoryReminderText(lang models.Language, r Reminder) string {
	name := i18n.EscapeMarkdown(r.Category.Name)
	date := r.Date.Format(dateLayout)
	return i18n.Pick(lang,
		fmt.Sprintf("🔔 Category reminder!\n\nIn %d days (%s) this category is due:\n📁 *%s*", r.DaysBefore, date, name),
		fmt.Sprintf("🔔 Напоминание о категории!\n\nЧерез %d дн. (%s) наступает дата категории:\n📁 *%s*", r.DaysBefore, date, name))
}

func actionVerb(eventType string, lang models.Language) string {
	switch eventType {
	case events.EventItemEdited:
		return i18n.Pick(lang, "edited", "отредактировал")
	case events.EventItemDeleted:
		return i18n.Pick(lang, "deleted", "удалил")
	case events.EventItemMoved:
		return i18n.Pick(lang, "moved", "переместил")
	default:
		return i18n.Pick(lang, "updated", "изменил")
	}
}

// ItemChangeText renders a change notice for a member of a shared category.
func ItemChangeText(lang models.Language, eventType string, p events.ItemChangedPayload) string {
	category := i18n.EscapeMarkdown(p.CategoryName)
	item := i18n.EscapeMarkdown(p.ItemName)
	actor := i18n.EscapeMarkdown(p.ActorName)
	if actor == "" {
		actor = i18n.Pick(lang, "User", "Пользователь")
	}

	if eventType == events.EventItemAdded {
		return i18n.Pick(lang,
			fmt.Sprintf("📢 New item in a shared category!\n\n📁 Category: *%s*\n👤 Added by: %s\n🎯 Item: *%s*", category, actor, item),
			fmt.Sprintf("📢 Новый элемент в общей категории!\n\n📁 Категория: *%s*\n👤 Добавил: %s\n🎯 Элемент: *%s*", category, actor, item))
	}

	verb := actionVerb(eventType, lang)
	return i18n.Pick(lang,
		fmt.Sprintf("🔄 Shared category update!\n\n📁 Category: *%s*\n👤 %s %s an item:\n🎯 *%s*", category, actor, verb, item),
		fmt.Sprintf("🔄 Изменение в общей категории!\n\n📁 Категория: *%s*\n👤 %s %s элемент:\n🎯 *%s*", category, actor, verb, item))
}

func AccessGrantedText(lang models.Language, p events.AccessChangedPayload, owner *models.User) string {
	category := i18n.EscapeMarkdown(p.CategoryName)
	ownerName := displayName(owner, lang)
	access := i18n.Pick(lang, "View only", "Просмотр")
	if p.CanEdit {
		access = i18n.Pick(lang, "Edit", "Редактирование")
	}
	return i18n.Pick(lang,
		fmt.Sprintf("🔗 You have been granted access to a category!\n\n📁 Category: *%s*\n👤 Owner: %s\n🔐 Access type: %s", category, ownerName, access),
		fmt.Sprintf("🔗 Вам предоставлен доступ к категории!\n\n📁 Категория: *%s*\n👤 Владелец: %s\n🔐 Тип доступа: %s", category, ownerName, access))
}

func AccessRevokedText(lang models.Language, p events.AccessChangedPayload, owner *models.User) string {
	category := i18n.EscapeMarkdown(p.CategoryName)
	ownerName := displayName(owner, lang)
	return i18n.Pick(lang,
		fmt.Sprintf("❌ Category access revoked!\n\n📁 Category: *%s*\n👤 Owner: %s", category, ownerName),
		fmt.Sprintf("❌ Доступ к категории отозван!\n\n📁 Категория: *%s*\n👤 Владелец: %s", category, ownerName))
}
