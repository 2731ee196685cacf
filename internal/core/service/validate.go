package service

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-playground/validator/v10"

	"github.com/newsroom/news-management/internal/core/domain"
)

// emailValidator applies the same validator/v10 email grammar as the request
// validator in the handler package.
var emailValidator = validator.New()

var (
	required = validation.Required.Error("is required")

	validEmail = validation.By(func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if err := emailValidator.Var(s, "required,email"); err != nil {
			return errors.New("must be a valid email")
		}
		return nil
	})

	positiveIDs = validation.By(func(value interface{}) error {
		ids, _ := value.([]int)
		for _, id := range ids {
			if id <= 0 {
				return errors.New("must contain positive ids")
			}
		}
		return nil
	})
)

func maxRunes(n int) validation.Rule {
	return validation.RuneLength(0, n).Error(fmt.Sprintf("must be at most %d characters", n))
}

// notBlank validates value after trimming so whitespace-only input fails the
// required rule.
func notBlank(value string, rules ...validation.Rule) error {
	return validation.Validate(strings.TrimSpace(value), append([]validation.Rule{required}, rules...)...)
}

// fieldError flattens ozzo errors into a domain.ValidationError keyed by the
// request field names.
func fieldError(errs validation.Errors) error {
	if errs.Filter() == nil {
		return nil
	}
	fields := make(map[string]string, len(errs))
	for field, err := range errs {
		fields[field] = err.Error()
	}
	return &domain.ValidationError{Fields: fields}
}
