package service

import (
	"errors"
	"fmt"
	"strings"

	"wishbot/internal/access"
	"wishbot/internal/database"

	"github.com/go-playground/validator/v10"
)

var (
	ErrCategoryLimit = &access.Error{Kind: access.KindValidation, Msg: "category limit reached"}
	ErrItemLimit     = &access.Error{Kind: access.KindValidation, Msg: "item limit reached"}
	ErrNotFound      = &access.Error{Kind: access.KindNotFound, Msg: "not found"}
)

func invalid(format string, args ...interface{}) error {
	return &access.Error{Kind: access.KindValidation, Msg: fmt.Sprintf(format, args...)}
}

// lookup maps the store's not-found sentinel onto the shared error kinds.
func lookup(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, database.ErrNotFound) {
		return &access.Error{Kind: access.KindNotFound, Msg: what + " not found", Err: err}
	}
	return fmt.Errorf("load %s: %w", what, err)
}

// validationError flattens validator failures into one validation error.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s(%s)", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return &access.Error{Kind: access.KindValidation, Msg: "invalid " + strings.Join(fields, ", "), Err: err}
}
