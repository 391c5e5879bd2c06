package bot

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wishbot/internal/i18n"
	"wishbot/internal/models"

	"github.com/xuri/excelize/v2"
)

// exportList sends the filtered list as an Excel workbook.
func (b *Bot) exportList(r *request, state *models.UserState) {
	items, err := b.items.Filter(r.ctx, r.user.ID, filterOf(state))
	if err != nil {
		b.fail(r, err)
		return
	}
	if len(items) == 0 {
		b.send(r, r.t("msg.list_empty"), nil)
		return
	}

	path, err := b.exportToExcel(r, items)
	if err != nil {
		b.fail(r, err)
		return
	}
	defer func() {
		if err := os.Remove(path); err != nil {
			b.logger.Warn().Err(err).Str("path", path).Msg("Failed to remove export file")
		}
	}()

	if _, err := b.tgService.SendDocument(r.chatID, path, r.t("msg.export_caption", len(items))); err != nil {
		b.fail(r, fmt.Errorf("send export: %w", err))
		return
	}
	if b.metrics != nil {
		b.metrics.Exports.Inc()
	}
	b.logger.Info().Int64("user_id", r.user.ID).Int("items", len(items)).Msg("Items exported")
}

// exportToExcel writes items to a new workbook and returns its path.
func (b *Bot) exportToExcel(r *request, items []*models.ItemWithCategory) (string, error) {
	dir := b.config.Exports.Path
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := i18n.Pick(r.lang(), "Items", "Элементы")
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		i18n.Pick(r.lang(), "Name", "Название"),
		i18n.Pick(r.lang(), "Category", "Категория"),
		i18n.Pick(r.lang(), "Type", "Тип"),
		i18n.Pick(r.lang(), "Price", "Цена"),
		i18n.Pick(r.lang(), "Tags", "Теги"),
		i18n.Pick(r.lang(), "Location", "Местоположение"),
		i18n.Pick(r.lang(), "Place", "Место"),
		i18n.Pick(r.lang(), "From", "С"),
		i18n.Pick(r.lang(), "To", "По"),
		i18n.Pick(r.lang(), "Link", "Ссылка"),
		i18n.Pick(r.lang(), "Comment", "Комментарий"),
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for i, item := range items {
		rowNum := i + 2
		values := []interface{}{
			item.Name,
			item.CategoryName,
			enumText(r, "product.", string(item.ProductType)),
			nil,
			item.Tags.String(),
			enumText(r, "location.", string(item.LocationType)),
			item.LocationValue,
			dateCell(item.DateFrom),
			dateCell(item.DateTo),
			item.URL,
			item.Comment,
		}
		if item.Price.Valid {
			values[3] = item.Price.Decimal.InexactFloat64()
		}
		for col, v := range values {
			if v == nil {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col+1, rowNum)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	lastHeader, _ := excelize.CoordinatesToCellName(len(headers), 1)
	_ = f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle)

	priceStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4})
	_ = f.SetCellStyle(sheetName, "D2", fmt.Sprintf("D%d", len(items)+1), priceStyle)

	_ = f.SetColWidth(sheetName, "A", "A", 35)
	_ = f.SetColWidth(sheetName, "B", "G", 18)
	_ = f.SetColWidth(sheetName, "H", "I", 12)
	_ = f.SetColWidth(sheetName, "J", "K", 40)
	_ = f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	if sheetName != "Sheet1" {
		_ = f.DeleteSheet("Sheet1")
	}

	fileName := fmt.Sprintf("wishlist_%d_%s.xlsx", r.user.ID, b.now().Format("20060102_150405"))
	filePath := filepath.Join(dir, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %w", err)
	}
	return filePath, nil
}

func enumText(r *request, prefix, value string) string {
	if value == "" {
		return ""
	}
	return r.t(prefix + value)
}

func dateCell(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.Format(models.DateFormat)
}
