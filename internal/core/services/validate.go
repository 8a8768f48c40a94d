package services

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/Vitor-VarelAI/threadsift/internal/core/domain"
)

// subredditPattern matches Reddit community names.
var subredditPattern = regexp.MustCompile(`^[A-Za-z0-9_]{2,21}$`)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// structValidator returns the shared validator instance.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
		_ = validate.RegisterValidation("subreddit", func(fl validator.FieldLevel) bool {
			return subredditPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// validateStruct checks v against its validate tags.
// Failures wrap domain.ErrInvalidInput.
func validateStruct(v any) error {
	err := structValidator().Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "subreddit":
		return fmt.Sprintf("%s %q is not a valid subreddit name", field, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}

// ValidateQuery checks a search query before it reaches the platform.
func ValidateQuery(q domain.SearchQuery) error {
	if err := validateStruct(q); err != nil {
		return err
	}
	if strings.TrimSpace(q.Term) == "" {
		return fmt.Errorf("%w: term is required", domain.ErrInvalidInput)
	}
	if q.Scope == domain.ScopeSubreddit {
		if err := structValidator().Var(q.Term, "subreddit"); err != nil {
			return fmt.Errorf("%w: %q is not a valid subreddit name", domain.ErrInvalidInput, q.Term)
		}
	}
	return nil
}
