package cases

import (
	"errors"
	"fmt"
	"html"
	"reflect"
	"regexp"
	"strings"

	"casewatch/backend/internal/apperr"
	"casewatch/backend/internal/config"
	"casewatch/backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

var referencePattern = regexp.MustCompile(`^[A-Za-z0-9/-]+$`)

// hasReference reports whether a case carries something verifiable: a
// plausible FIR/court reference or a source URL.
func hasReference(ref, sourceURL string) bool {
	ref = strings.TrimSpace(ref)
	if len(ref) >= config.MinReferenceLength && referencePattern.MatchString(ref) {
		return true
	}
	return strings.TrimSpace(sourceURL) != ""
}

// matchTerm returns the first term found in text, ignoring case.
func matchTerm(text string, terms []string) (string, bool) {
	lower := strings.ToLower(text)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return term, true
		}
	}
	return "", false
}

func checkAbusive(fields ...string) error {
	for _, f := range fields {
		if _, ok := matchTerm(f, config.AbusiveTerms); ok {
			return apperr.New(apperr.KindAbusiveContent, "content contains abusive language")
		}
	}
	return nil
}

func checkGuilt(fields ...string) error {
	for _, f := range fields {
		if phrase, ok := matchTerm(f, config.GuiltPhrases); ok {
			return apperr.Newf(apperr.KindGuiltDeclaration,
				"legal commentary must not declare guilt (found %q)", phrase)
		}
	}
	return nil
}

// plainText strips every tag and returns trimmed text. Entities escaped by
// the sanitizer are decoded again since the result is stored as text.
type plainText struct {
	policy *bluemonday.Policy
}

func newPlainText() plainText {
	return plainText{policy: bluemonday.StrictPolicy()}
}

func (p plainText) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.policy.Sanitize(s)))
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("case_category", func(fl validator.FieldLevel) bool {
		return models.CaseCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("update_type", func(fl validator.FieldLevel) bool {
		return models.UpdateType(fl.Field().String()).Valid()
	})
	return v
}

// validationError turns validator output into a ValidationError naming the
// first offending field.
func validationError(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperr.Wrap(err, apperr.KindValidation, "invalid input")
	}
	fe := fieldErrs[0]
	var msg string
	switch fe.Tag() {
	case "required":
		msg = fmt.Sprintf("%s is required", fe.Field())
	case "url":
		msg = fmt.Sprintf("%s must be a valid URL", fe.Field())
	case "max":
		msg = fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "case_category":
		msg = fmt.Sprintf("%s must be one of ACCIDENT, ASSAULT, CORRUPTION, PUBLIC_SAFETY, OTHER", fe.Field())
	case "update_type":
		msg = fmt.Sprintf("%s is not a known update type", fe.Field())
	default:
		msg = fmt.Sprintf("%s is invalid", fe.Field())
	}
	return apperr.Wrap(err, apperr.KindValidation, msg)
}
