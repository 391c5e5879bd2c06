package bot

import (
	"errors"
	"time"

	"wishbot/internal/access"
	"wishbot/internal/i18n"
	"wishbot/internal/models"
	"wishbot/internal/service"

	"github.com/rs/zerolog"
)

// errorText maps a service error to the message shown to the user. Not
// found and forbidden share a text so existence is never revealed.
func errorText(lang models.Language, err error) string {
	switch {
	case err == nil:
		return ""
	case is(err, service.ErrCategoryLimit):
		return i18n.T(lang, "err.category_limit")
	case is(err, service.ErrItemLimit):
		return i18n.T(lang, "err.item_limit")
	}

	switch access.KindOf(err) {
	case access.KindNotFound:
		if is(err, access.ErrCodeNotFound) {
			return i18n.T(lang, "err.code_not_found")
		}
		return i18n.T(lang, "err.not_found")
	case access.KindForbidden:
		return i18n.T(lang, "err.not_found")
	case access.KindValidation:
		if is(err, access.ErrInvalidCode) {
			return i18n.T(lang, "err.invalid_code")
		}
		return i18n.T(lang, "err.validation")
	case access.KindRateLimited:
		minutes := int((access.RetryAfter(err) + time.Minute - 1) / time.Minute)
		if minutes < 1 {
			minutes = 1
		}
		return i18n.T(lang, "err.rate_limited", minutes)
	case access.KindCategoryIsPrivate:
		return i18n.T(lang, "err.category_private")
	case access.KindSelfOwned:
		return i18n.T(lang, "err.self_owned")
	case access.KindExhausted:
		return i18n.T(lang, "err.exhausted")
	case access.KindConflict:
		return i18n.T(lang, "err.conflict")
	default:
		return i18n.T(lang, "err.generic")
	}
}

// is compares against a specific sentinel; errors.Is only matches the kind.
func is(err error, sentinel *access.Error) bool {
	var e *access.Error
	return errors.As(err, &e) && e.Msg == sentinel.Msg
}

// fail reports err to the user, logging unexpected failures.
func (b *Bot) fail(r *request, err error) {
	kind := access.KindOf(err)
	l := zerolog.Ctx(r.ctx).Debug()
	if kind == access.KindUnknown {
		l = zerolog.Ctx(r.ctx).Error()
		if b.metrics != nil {
			b.metrics.ErrorsTotal.Inc()
		}
	}
	l.Err(err).Int64("user_id", r.user.ID).Str("kind", kind.String()).Msg("Request failed")
	b.sendMessage(r.chatID, errorText(r.lang(), err))
}
