package i18n

import "wishbot/internal/models"

const (
	en = models.LanguageEN
	ru = models.LanguageRU
)

var catalog = map[string]map[models.Language]string{
	// Main menu
	"btn.add_item":     {en: "➕ Add item", ru: "➕ Добавить элемент"},
	"btn.add_category": {en: "📁 Add category", ru: "📁 Добавить категорию"},
	"btn.categories":   {en: "👥 Manage categories", ru: "👥 Управление категориями"},
	"btn.list":         {en: "📃 View list", ru: "📃 Посмотреть список"},
	"btn.filter":       {en: "🔍 Filtering", ru: "🔍 Фильтрация"},
	"btn.enter_code":   {en: "🔑 Enter code", ru: "🔑 Ввести код"},
	"btn.settings":     {en: "⚙️ Settings", ru: "⚙️ Настройки"},

	// Common buttons
	"btn.back":       {en: "◀️ Back", ru: "◀️ Назад"},
	"btn.menu":       {en: "◀️ Back to main menu", ru: "◀️ Назад в главное меню"},
	"btn.skip":       {en: "⏭ Skip", ru: "⏭ Пропустить"},
	"btn.continue":   {en: "⏭ Continue", ru: "⏭ Продолжить"},
	"btn.add_new":    {en: "➕ Add new", ru: "➕ Добавить новое"},
	"btn.yes":        {en: "✅ Yes", ru: "✅ Да"},
	"btn.no":         {en: "❌ No", ru: "❌ Нет"},
	"btn.save":       {en: "✅ Save", ru: "✅ Сохранить"},
	"btn.cancel":     {en: "❌ Cancel", ru: "❌ Отмена"},
	"btn.edit":       {en: "✏️ Edit", ru: "✏️ Редактировать"},
	"btn.delete":     {en: "🗑 Delete", ru: "🗑 Удалить"},
	"btn.move":       {en: "📦 Move", ru: "📦 Переместить"},
	"btn.prev":       {en: "⬅️ Prev", ru: "⬅️ Назад"},
	"btn.next":       {en: "Next ➡️", ru: "Вперед ➡️"},
	"btn.notify_on":  {en: "🔔 Reminders: on", ru: "🔔 Напоминания: вкл"},
	"btn.notify_off": {en: "🔕 Reminders: off", ru: "🔕 Напоминания: выкл"},
	"btn.export":     {en: "📊 Export to Excel", ru: "📊 Выгрузить в Excel"},
	"btn.show":       {en: "📃 Show results", ru: "📃 Показать результат"},

	// Category screen
	"btn.items":          {en: "📃 Items", ru: "📃 Элементы"},
	"btn.rename":         {en: "✏️ Rename", ru: "✏️ Переименовать"},
	"btn.set_date":       {en: "📅 Set date", ru: "📅 Указать дату"},
	"btn.clear_date":     {en: "🗑 Clear date", ru: "🗑 Убрать дату"},
	"btn.change_sharing": {en: "🔄 Change access type", ru: "🔄 Изменить тип доступа"},
	"btn.share_code":     {en: "🔑 Get access code", ru: "🔑 Получить код доступа"},
	"btn.members":        {en: "👥 Manage users", ru: "👥 Пользователи"},

	// Settings
	"btn.toggle_notifications": {en: "🔔 Toggle reminders", ru: "🔔 Вкл/выкл напоминания"},
	"btn.lang_en":              {en: "🇬🇧 English", ru: "🇬🇧 English"},
	"btn.lang_ru":              {en: "🇷🇺 Русский", ru: "🇷🇺 Русский"},

	// Enumerations
	"location.in_city":     {en: "🏙 In the city", ru: "🏙 В городе"},
	"location.out_of_city": {en: "🌲 Outside the city", ru: "🌲 За городом"},
	"location.by_district": {en: "🏘 By district", ru: "🏘 По району"},

	"product.event": {en: "🎪 Event", ru: "🎪 Мероприятие"},
	"product.venue": {en: "🍽 Cafe/restaurant", ru: "🍽 Кафе/ресторан"},
	"product.item":  {en: "🛍 Item", ru: "🛍 Вещь"},

	"sharing.private":       {en: "🔒 Private", ru: "🔒 Личная"},
	"sharing.view_only":     {en: "👁 View only", ru: "👁 Только просмотр"},
	"sharing.collaborative": {en: "✍️ Collaborative", ru: "✍️ Общая"},

	"role.owner":  {en: "owner", ru: "владелец"},
	"role.editor": {en: "editor", ru: "редактор"},
	"role.viewer": {en: "viewer", ru: "просмотр"},

	// Fields
	"field.name":     {en: "📝 Name", ru: "📝 Название"},
	"field.category": {en: "📁 Category", ru: "📁 Категория"},
	"field.tags":     {en: "🏷 Tags", ru: "🏷 Теги"},
	"field.price":    {en: "💸 Price", ru: "💸 Цена"},
	"field.date":     {en: "📅 Date", ru: "📅 Дата"},
	"field.location": {en: "📍 Location", ru: "📍 Местоположение"},
	"field.comment":  {en: "💬 Comment", ru: "💬 Комментарий"},
	"field.url":      {en: "🔗 Link", ru: "🔗 Ссылка"},
	"field.photo":    {en: "📷 Photo", ru: "📷 Фото"},
	"field.type":     {en: "🎯 Type", ru: "🎯 Тип"},

	// Filters
	"filter.by_category": {en: "📁 By category", ru: "📁 По категории"},
	"filter.by_tag":      {en: "🏷 By tag", ru: "🏷 По тегу"},
	"filter.by_price":    {en: "💸 By price", ru: "💸 По стоимости"},
	"filter.by_location": {en: "📍 By location", ru: "📍 По местоположению"},
	"filter.by_date":     {en: "📅 By date", ru: "📅 По дате"},
	"filter.by_type":     {en: "🎯 By type", ru: "🎯 По типу"},
	"filter.reset":       {en: "🔄 Reset filters", ru: "🔄 Сбросить фильтры"},
	"filter.exact_price": {en: "💰 Exact amount", ru: "💰 Точная сумма"},
	"filter.price_range": {en: "↔️ Custom range", ru: "↔️ Свой диапазон"},

	"price.max_1000":    {en: "up to 1 000", ru: "до 1 000"},
	"price.1000_3000":   {en: "1 000 – 3 000", ru: "1 000 – 3 000"},
	"price.3000_5000":   {en: "3 000 – 5 000", ru: "3 000 – 5 000"},
	"price.5000_10000":  {en: "5 000 – 10 000", ru: "5 000 – 10 000"},
	"price.min_10000":   {en: "from 10 000", ru: "от 10 000"},
	"date.this_week":    {en: "📅 This week", ru: "📅 Эта неделя"},
	"date.this_month":   {en: "📅 This month", ru: "📅 Этот месяц"},
	"date.custom_range": {en: "📅 Custom range", ru: "📅 С/по даты"},

	// Messages
	"msg.welcome":         {en: "👋 Hi, %s! I keep your wishlists: things to buy, places to visit and events to attend.", ru: "👋 Привет, %s! Я храню ваши списки желаний: вещи, места и события."},
	"msg.main_menu":       {en: "Choose an action:", ru: "Выберите действие:"},
	"msg.rate_limited":    {en: "⚠️ You are sending messages too often. Please wait a little.", ru: "⚠️ Вы отправляете сообщения слишком часто. Пожалуйста, подождите немного."},
	"msg.unknown":         {en: "I did not understand that. Please use the menu.", ru: "Не понял вас. Пожалуйста, воспользуйтесь меню."},
	"msg.enter_value":     {en: "Enter a new value:", ru: "Введите новое значение:"},
	"msg.invalid_price":   {en: "⚠️ Enter a number, for example 1500 or 99.90.", ru: "⚠️ Введите число, например 1500 или 99,90."},
	"msg.invalid_date":    {en: "⚠️ Use the format DD.MM.YYYY or DD.MM.YYYY - DD.MM.YYYY.", ru: "⚠️ Используйте формат ДД.ММ.ГГГГ или ДД.ММ.ГГГГ - ДД.ММ.ГГГГ."},
	"msg.invalid_range":   {en: "⚠️ Enter the range as min-max, for example 1000-5000.", ru: "⚠️ Введите диапазон как мин-макс, например 1000-5000."},
	"msg.photo_expected":  {en: "⚠️ Send a photo or press Skip.", ru: "⚠️ Отправьте фото или нажмите «Пропустить»."},
	"msg.photo_too_large": {en: "⚠️ The photo is too large.", ru: "⚠️ Фото слишком большое."},

	"msg.category_name":      {en: "Enter the category name:", ru: "Введите название категории:"},
	"msg.category_created":   {en: "✅ Category *%s* created.", ru: "✅ Категория *%s* создана."},
	"msg.categories":         {en: "📂 *Your categories*", ru: "📂 *Ваши категории*"},
	"msg.no_categories":      {en: "You have no categories yet.", ru: "У вас пока нет категорий."},
	"msg.category_card":      {en: "📁 *%s*\nAccess: %s\nYour role: %s", ru: "📁 *%s*\nДоступ: %s\nВаша роль: %s"},
	"msg.category_date":      {en: "📅 Date: %s", ru: "📅 Дата: %s"},
	"msg.category_code":      {en: "🔑 Code: `%s`", ru: "🔑 Код: `%s`"},
	"msg.renamed":            {en: "✅ Category renamed.", ru: "✅ Категория переименована."},
	"msg.date_prompt":        {en: "Enter the date as DD.MM.YYYY:", ru: "Введите дату в формате ДД.ММ.ГГГГ:"},
	"msg.date_saved":         {en: "✅ Date saved.", ru: "✅ Дата сохранена."},
	"msg.date_cleared":       {en: "✅ Date removed.", ru: "✅ Дата удалена."},
	"msg.choose_sharing":     {en: "Choose the access type:", ru: "Выберите тип доступа:"},
	"msg.sharing_changed":    {en: "✅ Access type: %s", ru: "✅ Тип доступа: %s"},
	"msg.share_code":         {en: "🔑 Access code: `%s`\nSend it to people you want to share *%s* with.", ru: "🔑 Код доступа: `%s`\nОтправьте его тем, с кем хотите поделиться *%s*."},
	"msg.access_revoked":     {en: "Access revoked for %d user(s).", ru: "Доступ отозван у пользователей: %d."},
	"msg.confirm_delete_cat": {en: "Delete *%s* with all its items?", ru: "Удалить *%s* со всеми элементами?"},
	"msg.category_deleted":   {en: "🗑 Category deleted.", ru: "🗑 Категория удалена."},
	"msg.members":            {en: "👥 *Users with access*", ru: "👥 *Пользователи с доступом*"},
	"msg.no_members":         {en: "Nobody else has access yet.", ru: "Пока ни у кого нет доступа."},

	"msg.enter_code":   {en: "Enter the access code:", ru: "Введите код доступа:"},
	"msg.code_granted": {en: "✅ You now have access to *%s* (%s).", ru: "✅ Теперь у вас есть доступ к *%s* (%s)."},
	"msg.code_already": {en: "ℹ️ You already have access to *%s*.", ru: "ℹ️ У вас уже есть доступ к *%s*."},

	"msg.choose_category":   {en: "Choose a category:", ru: "Выберите категорию:"},
	"msg.no_editable":       {en: "Create a category first.", ru: "Сначала создайте категорию."},
	"msg.item_name":         {en: "Enter the name:", ru: "Введите название:"},
	"msg.item_price":        {en: "Enter the price or press Skip:", ru: "Введите цену или нажмите «Пропустить»:"},
	"msg.item_tags":         {en: "Enter tags separated by spaces or commas, pick one below, or press Continue:", ru: "Введите теги через пробел или запятую, выберите ниже или нажмите «Продолжить»:"},
	"msg.item_tags_current": {en: "Tags: %s", ru: "Теги: %s"},
	"msg.item_location":     {en: "Where is it?", ru: "Где это?"},
	"msg.item_location_val": {en: "Enter the place or pick a saved one:", ru: "Введите место или выберите сохраненное:"},
	"msg.item_date":         {en: "Enter a date DD.MM.YYYY or a range DD.MM.YYYY - DD.MM.YYYY, or press Skip:", ru: "Введите дату ДД.ММ.ГГГГ или период ДД.ММ.ГГГГ - ДД.ММ.ГГГГ, или нажмите «Пропустить»:"},
	"msg.item_url":          {en: "Send a link or press Skip:", ru: "Отправьте ссылку или нажмите «Пропустить»:"},
	"msg.item_comment":      {en: "Add a comment or press Skip:", ru: "Добавьте комментарий или нажмите «Пропустить»:"},
	"msg.item_photo":        {en: "Send a photo or press Skip:", ru: "Отправьте фото или нажмите «Пропустить»:"},
	"msg.item_type":         {en: "Choose the type:", ru: "Выберите тип:"},
	"msg.item_confirm":      {en: "Check the item:\n\n%s", ru: "Проверьте элемент:\n\n%s"},
	"msg.item_saved":        {en: "✅ Item saved.", ru: "✅ Элемент сохранен."},
	"msg.item_updated":      {en: "✅ Item updated.", ru: "✅ Элемент обновлен."},
	"msg.item_deleted":      {en: "🗑 Item deleted.", ru: "🗑 Элемент удален."},
	"msg.item_moved":        {en: "✅ Moved to *%s*.", ru: "✅ Перемещено в *%s*."},
	"msg.confirm_delete":    {en: "Delete *%s*?", ru: "Удалить *%s*?"},
	"msg.choose_field":      {en: "What do you want to change?", ru: "Что изменить?"},
	"msg.move_to":           {en: "Move to:", ru: "Переместить в:"},
	"msg.no_targets":        {en: "There is no other category you can edit.", ru: "Нет других категорий, которые вы можете редактировать."},
	"msg.reminders_on":      {en: "🔔 Reminders enabled.", ru: "🔔 Напоминания включены."},
	"msg.reminders_off":     {en: "🔕 Reminders disabled.", ru: "🔕 Напоминания выключены."},
	"msg.cancelled":         {en: "Cancelled.", ru: "Отменено."},

	"msg.list":       {en: "📃 *Items* (%d)", ru: "📃 *Элементы* (%d)"},
	"msg.list_empty": {en: "No items found.", ru: "Ничего не найдено."},
	"msg.page":       {en: "Page %d of %d", ru: "Страница %d из %d"},

	"msg.filter":          {en: "🔍 *Filter*\n\n%s", ru: "🔍 *Фильтр*\n\n%s"},
	"msg.filter_none":     {en: "No filters set.", ru: "Фильтры не заданы."},
	"msg.filter_tag":      {en: "Enter a tag or pick one:", ru: "Введите тег или выберите:"},
	"msg.filter_price":    {en: "Choose a price range:", ru: "Выберите диапазон цен:"},
	"msg.filter_exact":    {en: "Enter the exact amount:", ru: "Введите точную сумму:"},
	"msg.filter_range":    {en: "Enter the range as min-max, for example 1000-5000:", ru: "Введите диапазон как мин-макс, например 1000-5000:"},
	"msg.filter_dates":    {en: "Enter the range DD.MM.YYYY - DD.MM.YYYY:", ru: "Введите период ДД.ММ.ГГГГ - ДД.ММ.ГГГГ:"},
	"msg.filter_location": {en: "Choose the location type:", ru: "Выберите тип местоположения:"},
	"msg.filter_type":     {en: "Choose the type:", ru: "Выберите тип:"},
	"msg.filter_reset":    {en: "🔄 Filters reset.", ru: "🔄 Фильтры сброшены."},
	"msg.filter_applied":  {en: "✅ Filter updated.", ru: "✅ Фильтр обновлен."},
	"msg.export_caption":  {en: "📊 Items: %d", ru: "📊 Элементов: %d"},

	"msg.settings":     {en: "⚙️ *Settings*\n\nReminders: %s\nLanguage: %s", ru: "⚙️ *Настройки*\n\nНапоминания: %s\nЯзык: %s"},
	"msg.on":           {en: "on", ru: "вкл"},
	"msg.off":          {en: "off", ru: "выкл"},
	"msg.language_set": {en: "✅ Language: English", ru: "✅ Язык: русский"},

	// Errors
	"err.generic":          {en: "❌ Something went wrong. Please try again later.", ru: "❌ Произошла ошибка. Пожалуйста, попробуйте позже."},
	"err.not_found":        {en: "⚠️ Not found or no access.", ru: "⚠️ Не найдено или нет доступа."},
	"err.validation":       {en: "⚠️ Please check the value and try again.", ru: "⚠️ Проверьте значение и попробуйте еще раз."},
	"err.category_limit":   {en: "⚠️ You have reached the category limit.", ru: "⚠️ Достигнут лимит категорий."},
	"err.item_limit":       {en: "⚠️ You have reached the item limit.", ru: "⚠️ Достигнут лимит элементов."},
	"err.invalid_code":     {en: "⚠️ This does not look like an access code.", ru: "⚠️ Это не похоже на код доступа."},
	"err.code_not_found":   {en: "⚠️ Access code not found.", ru: "⚠️ Код доступа не найден."},
	"err.category_private": {en: "⚠️ This category is private.", ru: "⚠️ Эта категория личная."},
	"err.self_owned":       {en: "ℹ️ This is your own category.", ru: "ℹ️ Это ваша собственная категория."},
	"err.rate_limited":     {en: "⛔ Too many attempts. Try again in %d min.", ru: "⛔ Слишком много попыток. Попробуйте через %d мин."},
	"err.exhausted":        {en: "❌ Could not create an access code. Please try again later.", ru: "❌ Не удалось создать код доступа. Попробуйте позже."},
	"err.conflict":         {en: "⚠️ This was changed at the same time. Please try again.", ru: "⚠️ Данные изменились одновременно. Попробуйте еще раз."},
}
