package bot

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/config"
	"wishbot/internal/database"
	"wishbot/internal/domain"
	"wishbot/internal/events"
	"wishbot/internal/filter"
	"wishbot/internal/i18n"
	"wishbot/internal/models"
	"wishbot/internal/repository"
	"wishbot/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMessage struct {
	ChatID   int64
	Text     string
	Markup   interface{}
	Edited   bool
	PhotoID  string
	Document string
}

type mockTelegramService struct {
	domain.TelegramService
	mu          sync.Mutex
	updatesChan chan tgbotapi.Update
	sent        []sentMessage
	answered    []string
	docExisted  bool
}

func (m *mockTelegramService) record(msg sentMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
}

func (m *mockTelegramService) GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return m.updatesChan
}

func (m *mockTelegramService) GetSelf() tgbotapi.User {
	return tgbotapi.User{UserName: "test_bot"}
}

func (m *mockTelegramService) StopReceivingUpdates() {}

func (m *mockTelegramService) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		m.record(sentMessage{ChatID: msg.ChatID, Text: msg.Text, Markup: msg.ReplyMarkup})
	}
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendMessage(chatID int64, text string) (tgbotapi.Message, error) {
	m.record(sentMessage{ChatID: chatID, Text: text})
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) EditMessage(chatID int64, messageID int, text string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := sentMessage{ChatID: chatID, Text: text, Edited: true}
	if keyboard != nil {
		msg.Markup = *keyboard
	}
	m.record(msg)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendPhoto(chatID int64, fileID, caption string, keyboard *tgbotapi.InlineKeyboardMarkup) (tgbotapi.Message, error) {
	msg := sentMessage{ChatID: chatID, Text: caption, PhotoID: fileID}
	if keyboard != nil {
		msg.Markup = *keyboard
	}
	m.record(msg)
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) SendDocument(chatID int64, path, caption string) (tgbotapi.Message, error) {
	_, err := os.Stat(path)
	m.mu.Lock()
	m.docExisted = err == nil
	m.mu.Unlock()
	m.record(sentMessage{ChatID: chatID, Text: caption, Document: path})
	return tgbotapi.Message{}, nil
}

func (m *mockTelegramService) AnswerCallback(callbackID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.answered = append(m.answered, callbackID)
	return nil
}

func (m *mockTelegramService) last() sentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.sent) == 0 {
		return sentMessage{}
	}
	return m.sent[len(m.sent)-1]
}

func (m *mockTelegramService) texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sent))
	for _, s := range m.sent {
		out = append(out, s.Text)
	}
	return out
}

// callbacks returns the data of every inline button sent so far.
func (m *mockTelegramService) callbacks() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, s := range m.sent {
		kb, ok := s.Markup.(tgbotapi.InlineKeyboardMarkup)
		if !ok {
			continue
		}
		for _, r := range kb.InlineKeyboard {
			for _, btn := range r {
				if btn.CallbackData != nil {
					out = append(out, *btn.CallbackData)
				}
			}
		}
	}
	return out
}

func (m *mockTelegramService) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = nil
}

type mockStateManager struct {
	domain.StateManager
	allowed bool
}

func (m *mockStateManager) CheckRateLimit(ctx context.Context, userID int64, limit int, window time.Duration) (bool, error) {
	return m.allowed, nil
}

type harness struct {
	t          *testing.T
	ctx        context.Context
	bot        *Bot
	tg         *mockTelegramService
	cfg        *config.Config
	db         *database.DB
	state      *service.StateService
	users      *service.UserService
	categories *service.CategoryService
	items      *service.ItemService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := zerolog.Nop()

	db, err := database.NewDB(config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "bot.db"),
	}, &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	cfg := &config.Config{
		Access: config.AccessConfig{
			CodeLength:            10,
			MaxAttempts:           5,
			BlockSeconds:          900,
			AttemptWindowSeconds:  900,
			MaxGenerationAttempts: 10,
		},
		Limits:  config.LimitsConfig{MaxItemsPerUser: 100, MaxCategoriesPerUser: 10, MaxPhotoBytes: 1000},
		Bot:     config.BotConfig{PaginationSize: 2, RateLimitMessages: 1000},
		Exports: config.ExportConfig{Path: t.TempDir()},
	}

	engine := access.NewEngine(db, repository.NewMemoryCounter(), cfg.Access, &logger)
	bus := events.NewEventBus()
	h := &harness{
		t:          t,
		ctx:        context.Background(),
		tg:         &mockTelegramService{updatesChan: make(chan tgbotapi.Update, 1)},
		cfg:        cfg,
		db:         db,
		state:      service.NewStateService(repository.NewMemoryStateRepository(time.Hour), &logger),
		users:      service.NewUserService(db, &logger),
		categories: service.NewCategoryService(db, engine, bus, cfg.Limits, &logger),
		items:      service.NewItemService(db, engine, filter.NewEngine(db, &logger), bus, cfg.Limits, &logger),
	}
	h.bot = NewBot(h.tg, cfg, h.state, h.users, h.categories, h.items, NewMetrics(prometheus.NewRegistry()), &logger)
	h.bot.now = func() time.Time { return time.Date(2026, 7, 15, 12, 0, 0, 0, time.UTC) }
	return h
}

func (h *harness) message(from int64, msg *tgbotapi.Message) {
	msg.From = &tgbotapi.User{ID: from, FirstName: "User", UserName: "user", LanguageCode: "en"}
	msg.Chat = &tgbotapi.Chat{ID: from}
	h.bot.processUpdate(h.ctx, tgbotapi.Update{Message: msg})
}

func (h *harness) text(from int64, text string) {
	h.message(from, &tgbotapi.Message{Text: text})
}

func (h *harness) command(from int64, cmd string) {
	h.message(from, &tgbotapi.Message{
		Text:     "/" + cmd,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd) + 1}},
	})
}

func (h *harness) button(from int64, key string) {
	h.text(from, i18n.T(models.LanguageEN, key))
}

func (h *harness) press(from int64, data string) {
	h.bot.processUpdate(h.ctx, tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb-" + data,
		From:    &tgbotapi.User{ID: from, FirstName: "User", LanguageCode: "en"},
		Message: &tgbotapi.Message{MessageID: 42, Chat: &tgbotapi.Chat{ID: from}},
		Data:    data,
	}})
}

func (h *harness) user(telegramID int64) *models.User {
	h.t.Helper()
	u, err := h.users.EnsureUser(h.ctx, telegramID, "user", "User", "", "en")
	require.NoError(h.t, err)
	return u
}

func (h *harness) step(telegramID int64) string {
	h.t.Helper()
	state, err := h.state.GetUserState(h.ctx, h.user(telegramID).ID)
	require.NoError(h.t, err)
	if state == nil {
		return stepNone
	}
	return state.CurrentStep
}

func (h *harness) category(owner *models.User, name string) *models.Category {
	h.t.Helper()
	c, err := h.categories.Create(h.ctx, owner, name, nil)
	require.NoError(h.t, err)
	return c
}

func en(key string, args ...interface{}) string {
	return i18n.T(models.LanguageEN, key, args...)
}

func TestBotStart(t *testing.T) {
	h := newHarness(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.bot.Start(ctx) }()

	h.tg.updatesChan <- tgbotapi.Update{Message: &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 123, UserName: "testuser", FirstName: "Test", LanguageCode: "ru"},
		Chat:     &tgbotapi.Chat{ID: 123},
		Text:     "/start",
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}}

	require.Eventually(t, func() bool { return len(h.tg.texts()) > 0 }, time.Second, 10*time.Millisecond)
	cancel()
	require.NoError(t, <-done)

	u, err := h.users.GetUserByTelegramID(context.Background(), 123)
	require.NoError(t, err)
	assert.Equal(t, "testuser", u.Username)
	assert.Equal(t, models.LanguageRU, u.Language)

	last := h.tg.last()
	assert.Equal(t, i18n.T(models.LanguageRU, "msg.welcome", "Test"), last.Text)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, last.Markup)
}

func TestBot_RateLimited(t *testing.T) {
	h := newHarness(t)
	h.bot.stateService = &mockStateManager{allowed: false}

	h.text(7, "hello")

	assert.Equal(t, []string{en("msg.rate_limited")}, h.tg.texts())
	_, err := h.users.GetUserByTelegramID(h.ctx, 7)
	assert.Error(t, err, "rate limited users are not registered")
}

func TestBot_IgnoresBots(t *testing.T) {
	h := newHarness(t)
	h.bot.processUpdate(h.ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		From: &tgbotapi.User{ID: 9, IsBot: true},
		Chat: &tgbotapi.Chat{ID: 9},
		Text: "/start",
	}})
	assert.Empty(t, h.tg.texts())
}

func TestBot_CategoryAndItemFlow(t *testing.T) {
	h := newHarness(t)
	const uid = 100

	h.button(uid, "btn.add_category")
	assert.Equal(t, stepCategoryName, h.step(uid))

	h.text(uid, "Trip")
	assert.Contains(t, h.tg.texts(), en("msg.category_created", "Trip"))
	assert.Equal(t, stepNone, h.step(uid))

	user := h.user(uid)
	cats, err := h.categories.List(h.ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, cats, 1)
	catID := cats[0].ID

	h.button(uid, "btn.add_item")
	assert.Equal(t, stepItemCategory, h.step(uid))
	assert.Contains(t, h.tg.callbacks(), callbackData("add_cat", catID))

	h.press(uid, callbackData("add_cat", catID))
	assert.Equal(t, stepItemName, h.step(uid))

	h.button(uid, "btn.skip")
	assert.Equal(t, stepItemName, h.step(uid), "name is required")

	h.text(uid, "Tent")
	assert.Equal(t, stepItemPrice, h.step(uid))

	h.text(uid, "abc")
	assert.Equal(t, en("msg.invalid_price"), h.tg.last().Text)
	assert.Equal(t, stepItemPrice, h.step(uid))

	h.text(uid, "2 500")
	assert.Equal(t, stepItemTags, h.step(uid))

	h.text(uid, "#Camping, gear")
	assert.Equal(t, stepItemTags, h.step(uid), "typed tags accumulate")
	assert.Contains(t, h.tg.last().Text, en("msg.item_tags_current", i18n.EscapeMarkdown("#camping #gear")))

	h.press(uid, "add_skip")
	assert.Equal(t, stepItemLocation, h.step(uid))

	h.press(uid, "add_loc:in_city")
	assert.Equal(t, stepItemLocationValue, h.step(uid))

	h.text(uid, "Moscow")
	assert.Equal(t, stepItemDate, h.step(uid))

	h.text(uid, "32.01.2026")
	assert.Equal(t, en("msg.invalid_date"), h.tg.last().Text)

	h.text(uid, "01.08.2026 - 03.08.2026")
	assert.Equal(t, stepItemURL, h.step(uid))

	h.text(uid, "not a link")
	assert.Equal(t, stepItemURL, h.step(uid))

	h.button(uid, "btn.skip")
	assert.Equal(t, stepItemComment, h.step(uid))

	h.text(uid, "Four people")
	assert.Equal(t, stepItemPhoto, h.step(uid))

	h.text(uid, "no photo here")
	assert.Equal(t, en("msg.photo_expected"), h.tg.last().Text)

	h.message(uid, &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small", FileSize: 100}, {FileID: "huge", FileSize: 5000}}})
	assert.Equal(t, en("msg.photo_too_large"), h.tg.last().Text)

	h.message(uid, &tgbotapi.Message{Photo: []tgbotapi.PhotoSize{{FileID: "small", FileSize: 100}, {FileID: "big", FileSize: 900}}})
	assert.Equal(t, stepItemType, h.step(uid))

	h.press(uid, "add_type:venue")
	assert.Equal(t, stepItemConfirm, h.step(uid))
	assert.Contains(t, h.tg.last().Text, "*Tent*")

	h.press(uid, "add_save")
	assert.Equal(t, stepNone, h.step(uid))
	assert.Contains(t, h.tg.texts(), en("msg.item_saved"))
	assert.Equal(t, "big", h.tg.last().PhotoID, "card is sent with the photo")

	items, err := h.items.Filter(h.ctx, user.ID, models.ItemFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	item := items[0]
	assert.Equal(t, "Tent", item.Name)
	assert.Equal(t, "2500", item.Price.Decimal.String())
	assert.Equal(t, models.Tags{"camping", "gear"}, item.Tags)
	assert.Equal(t, models.LocationInCity, item.LocationType)
	assert.Equal(t, "Moscow", item.LocationValue)
	require.NotNil(t, item.DateTo)
	assert.Equal(t, "03.08.2026", item.DateTo.Format(models.DateFormat))
	assert.Empty(t, item.URL)
	assert.Equal(t, "Four people", item.Comment)
	assert.Equal(t, "big", item.PhotoFileID)
	assert.Equal(t, models.ProductVenue, item.ProductType)
	assert.True(t, item.NotificationsEnabled, "new items start with reminders on")

	dayStart := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	due, err := h.db.DueItemReminders(h.ctx, dayStart, dayStart.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, item.ID, due[0].ID)
}

func TestBot_LocationSkipJumpsToDate(t *testing.T) {
	h := newHarness(t)
	const uid = 101
	cat := h.category(h.user(uid), "Home")

	h.button(uid, "btn.add_item")
	h.press(uid, callbackData("add_cat", cat.ID))
	h.text(uid, "Lamp")
	h.button(uid, "btn.skip")
	h.press(uid, "add_skip")
	h.press(uid, "add_skip")
	assert.Equal(t, stepItemDate, h.step(uid))
}

func TestBot_BackClearsFlowKeepsFilter(t *testing.T) {
	h := newHarness(t)
	const uid = 102
	cat := h.category(h.user(uid), "Home")

	h.press(uid, "flt_type:event")
	h.button(uid, "btn.add_item")
	h.press(uid, callbackData("add_cat", cat.ID))
	require.Equal(t, stepItemName, h.step(uid))

	h.button(uid, "btn.back")
	assert.Equal(t, stepNone, h.step(uid))
	assert.Equal(t, en("msg.cancelled"), h.tg.last().Text)

	state, err := h.state.GetUserState(h.ctx, h.user(uid).ID)
	require.NoError(t, err)
	assert.Equal(t, models.ProductEvent, filterOf(state).ProductType)
	assert.False(t, state.Has(keyDraft))
}

func TestBot_EditAndDeleteItem(t *testing.T) {
	h := newHarness(t)
	const uid = 103
	user := h.user(uid)
	cat := h.category(user, "Gifts")
	item := &models.Item{Name: "Book", CategoryID: cat.ID, Tags: models.Tags{"read"}}
	require.NoError(t, h.items.Create(h.ctx, user, item))

	h.press(uid, callbackData("item", item.ID))
	assert.Contains(t, h.tg.callbacks(), callbackData("item_edit", item.ID))

	h.press(uid, callbackData("item_edit", item.ID))
	assert.Contains(t, h.tg.callbacks(), "item_field:"+strconv.FormatInt(item.ID, 10)+":price")

	h.press(uid, "item_field:"+strconv.FormatInt(item.ID, 10)+":price")
	assert.Equal(t, stepItemPrice, h.step(uid))
	h.text(uid, "99,90")
	assert.Equal(t, stepNone, h.step(uid))
	assert.Contains(t, h.tg.texts(), en("msg.item_updated"))

	got, _, err := h.items.Get(h.ctx, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "99.9", got.Price.Decimal.String())
	assert.Equal(t, models.Tags{"read"}, got.Tags, "other fields are kept")

	h.press(uid, "item_field:"+strconv.FormatInt(item.ID, 10)+":tags")
	h.text(uid, "fiction, gift")
	got, _, err = h.items.Get(h.ctx, user.ID, item.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Tags{"fiction", "gift"}, got.Tags, "typed tags replace the set when editing")

	h.press(uid, callbackData("item_delete", item.ID))
	assert.Equal(t, en("msg.confirm_delete", "Book"), h.tg.last().Text)
	h.press(uid, callbackData("item_delete_ok", item.ID))
	assert.Equal(t, en("msg.item_deleted"), h.tg.last().Text)

	_, _, err = h.items.Get(h.ctx, user.ID, item.ID)
	assert.Equal(t, access.KindNotFound, access.KindOf(err))
}

func TestBot_ViewerSeesNoEditButtons(t *testing.T) {
	h := newHarness(t)
	owner := h.user(1)
	const viewerID = 2
	h.user(viewerID)

	cat := h.category(owner, "Shared")
	change, err := h.categories.ChangeSharing(h.ctx, owner.ID, cat.ID, models.SharingViewOnly)
	require.NoError(t, err)
	item := &models.Item{Name: "Vase", CategoryID: cat.ID}
	require.NoError(t, h.items.Create(h.ctx, owner, item))

	h.button(viewerID, "btn.enter_code")
	assert.Equal(t, stepEnterCode, h.step(viewerID))
	h.text(viewerID, strings.ToLower(change.Code))
	assert.Contains(t, h.tg.texts(), en("msg.code_granted", "Shared", en("role.viewer")))

	h.tg.reset()
	h.press(viewerID, callbackData("item", item.ID))
	assert.NotContains(t, h.tg.callbacks(), callbackData("item_edit", item.ID))
	assert.Contains(t, h.tg.callbacks(), "list_page:0")

	h.press(viewerID, callbackData("item_delete_ok", item.ID))
	assert.Equal(t, en("err.not_found"), h.tg.last().Text)

	h.button(viewerID, "btn.enter_code")
	h.text(viewerID, "ZZZZZZZZZZ")
	assert.Contains(t, h.tg.texts(), en("err.code_not_found"))
	assert.Equal(t, stepNone, h.step(viewerID))
}

func TestBot_ListPaginationAndFilter(t *testing.T) {
	h := newHarness(t)
	const uid = 104
	user := h.user(uid)
	cat := h.category(user, "Shop")
	for _, it := range []struct {
		name  string
		price int64
	}{{"Pen", 50}, {"Mug", 300}, {"Chair", 4000}} {
		require.NoError(t, h.items.Create(h.ctx, user, &models.Item{Name: it.name, CategoryID: cat.ID, Price: models.NewDecimal(it.price)}))
	}

	h.button(uid, "btn.list")
	last := h.tg.last()
	assert.Contains(t, last.Text, en("msg.list", 3))
	assert.Contains(t, last.Text, en("msg.page", 1, 2))
	assert.Contains(t, h.tg.callbacks(), "list_page:1")

	h.press(uid, "list_page:1")
	last = h.tg.last()
	assert.True(t, last.Edited)
	assert.Contains(t, last.Text, en("msg.page", 2, 2))

	h.press(uid, "flt_price:max_1000")
	h.tg.reset()
	h.press(uid, "flt:show")
	last = h.tg.last()
	assert.Contains(t, last.Text, en("msg.list", 2))
	assert.NotContains(t, last.Text, "Chair")

	h.press(uid, "flt_price:exact")
	assert.Equal(t, stepFilterExact, h.step(uid))
	h.text(uid, "4000")
	assert.Equal(t, stepNone, h.step(uid))
	h.press(uid, "flt:show")
	assert.Contains(t, h.tg.last().Text, en("msg.list", 1))

	h.press(uid, "flt:reset")
	h.press(uid, "flt:show")
	assert.Contains(t, h.tg.last().Text, en("msg.list", 3))
}

func TestBot_Export(t *testing.T) {
	h := newHarness(t)
	const uid = 105
	user := h.user(uid)
	cat := h.category(user, "Shop")
	require.NoError(t, h.items.Create(h.ctx, user, &models.Item{Name: "Pen", CategoryID: cat.ID, Price: models.NewDecimal(50)}))

	h.press(uid, "export")
	last := h.tg.last()
	require.NotEmpty(t, last.Document)
	assert.Equal(t, en("msg.export_caption", 1), last.Text)
	assert.True(t, h.tg.docExisted)

	_, err := os.Stat(last.Document)
	assert.True(t, os.IsNotExist(err), "export file is removed after sending")
}

func TestBot_Settings(t *testing.T) {
	h := newHarness(t)
	const uid = 106

	h.button(uid, "btn.settings")
	assert.Equal(t, en("msg.settings", en("msg.on"), en("btn.lang_en")), h.tg.last().Text)

	h.press(uid, "set:notify")
	assert.False(t, h.user(uid).NotificationsEnabled)

	h.press(uid, "set:lang:ru")
	u := h.user(uid)
	assert.Equal(t, models.LanguageRU, u.Language)
	assert.Contains(t, h.tg.texts(), i18n.T(models.LanguageRU, "msg.language_set"))

	h.text(uid, i18n.T(models.LanguageRU, "btn.list"))
	assert.Contains(t, h.tg.last().Text, i18n.T(models.LanguageRU, "msg.list", 0))
}

func TestBot_CategoryScreens(t *testing.T) {
	h := newHarness(t)
	const uid = 107
	user := h.user(uid)
	cat := h.category(user, "Party")

	h.press(uid, callbackData("cat_sharing", cat.ID))
	assert.Contains(t, h.tg.callbacks(), callbackData("cat_sharing", cat.ID)+":collaborative")

	h.press(uid, callbackData("cat_sharing", cat.ID)+":collaborative")
	c, err := h.categories.Get(h.ctx, user.ID, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SharingCollaborative, c.SharingType)
	assert.Len(t, c.Code(), 10)

	h.press(uid, callbackData("cat_date", cat.ID))
	h.text(uid, "20.09.2026")
	c, err = h.categories.Get(h.ctx, user.ID, cat.ID)
	require.NoError(t, err)
	require.NotNil(t, c.Date)
	assert.Equal(t, "20.09.2026", c.Date.Format(models.DateFormat))

	h.press(uid, callbackData("cat_rename", cat.ID))
	h.text(uid, "Birthday")
	assert.Contains(t, h.tg.texts(), en("msg.renamed"))

	h.press(uid, callbackData("cat_delete", cat.ID))
	assert.Equal(t, en("msg.confirm_delete_cat", "Birthday"), h.tg.last().Text)
	h.press(uid, callbackData("cat_delete_ok", cat.ID))
	assert.Equal(t, en("msg.category_deleted"), h.tg.last().Text)

	_, err = h.categories.Get(h.ctx, user.ID, cat.ID)
	assert.Equal(t, access.KindNotFound, access.KindOf(err))
}

func TestBot_UnknownCallbackIsAnswered(t *testing.T) {
	h := newHarness(t)
	h.press(108, "nonsense:1")
	assert.Equal(t, []string{"cb-nonsense:1"}, h.tg.answered)
}
