// Package notify decides which reminders are due, fans out change notices
// to the members of shared categories and delivers both through a chat
// gateway.
package notify

import (
	"context"
	"fmt"
	"sort"
	"time"

	"wishbot/internal/config"
	"wishbot/internal/domain"
	"wishbot/internal/models"
)

type Kind string

const (
	KindItem     Kind = "item_reminder"
	KindCategory Kind = "category_reminder"
)

// Reminder is one due (user, item) or (user, category) pair.
type Reminder struct {
	Kind       Kind
	User       *models.User
	Item       *models.ItemWithCategory
	Category   *models.Category
	DaysBefore int
	Date       time.Time
}

type reminderKey struct {
	userID     int64
	entityID   int64
	daysBefore int
	kind       Kind
}

// Planner computes due reminders for a moment in time.
type Planner struct {
	store        domain.ReminderStore
	daysBefore   []int
	categoryDays int
	loc          *time.Location
}

func NewPlanner(store domain.ReminderStore, cfg config.NotificationConfig) *Planner {
	return &Planner{
		store:        store,
		daysBefore:   cfg.DaysBefore,
		categoryDays: cfg.CategoryDaysBefore,
		loc:          cfg.Location(),
	}
}

// Plan returns item reminders for every configured lead time followed by
// category reminders. A (user, item, days) triple appears at most once.
func (p *Planner) Plan(ctx context.Context, now time.Time) ([]Reminder, error) {
	today := models.Day(now.In(p.loc))
	seen := make(map[reminderKey]struct{})
	var out []Reminder

	for _, days := range p.daysBefore {
		target := today.AddDate(0, 0, days)
		items, err := p.store.DueItemReminders(ctx, target, target.AddDate(0, 0, 1))
		if err != nil {
			return nil, fmt.Errorf("item reminders for %d days: %w", days, err)
		}

		owners, err := p.users(ctx, ownerIDsOfItems(items))
		if err != nil {
			return nil, err
		}

		for _, item := range items {
			owner, ok := owners[item.OwnerID]
			if !ok {
				continue
			}
			key := reminderKey{userID: owner.ID, entityID: item.ID, daysBefore: days, kind: KindItem}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, Reminder{Kind: KindItem, User: owner, Item: item, DaysBefore: days, Date: *item.DateFrom})
		}
	}

	target := today.AddDate(0, 0, p.categoryDays)
	categories, err := p.store.DueCategoryReminders(ctx, target, target.AddDate(0, 0, 1))
	if err != nil {
		return nil, fmt.Errorf("category reminders: %w", err)
	}

	ids := make([]int64, 0, len(categories))
	for _, c := range categories {
		ids = append(ids, c.OwnerID)
	}
	owners, err := p.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	for _, c := range categories {
		owner, ok := owners[c.OwnerID]
		if !ok || c.Date == nil {
			continue
		}
		key := reminderKey{userID: owner.ID, entityID: c.ID, daysBefore: p.categoryDays, kind: KindCategory}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, Reminder{Kind: KindCategory, User: owner, Category: c, DaysBefore: p.categoryDays, Date: *c.Date})
	}

	return out, nil
}

func (p *Planner) users(ctx context.Context, ids []int64) (map[int64]*models.User, error) {
	if len(ids) == 0 {
		return map[int64]*models.User{}, nil
	}
	users, err := p.store.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load reminder recipients: %w", err)
	}
	byID := make(map[int64]*models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	return byID, nil
}

func ownerIDsOfItems(items []*models.ItemWithCategory) []int64 {
	set := make(map[int64]struct{}, len(items))
	for _, it := range items {
		set[it.OwnerID] = struct{}{}
	}
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
