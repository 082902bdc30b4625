package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/stemsi/resultbook/internal/model"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

var academicYearPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// customTags are registered on top of the validator's built-in tags.
var customTags = []struct {
	tag     string
	fn      govalidator.Func
	message string
}{
	{"academic_year", validAcademicYear, "{0} must be an academic year like 2024-25"},
	{"class_name", validClassName, "{0} must be a class level followed by a section letter, e.g. 5A"},
}

// Setup registers the validator with English translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	for _, ct := range customTags {
		_ = v.RegisterValidation(ct.tag, ct.fn)
		msg := ct.message
		tag := ct.tag
		_ = v.RegisterTranslation(tag, trans,
			func(u ut.Translator) error { return u.Add(tag, msg, true) },
			func(u ut.Translator, fe govalidator.FieldError) string {
				t, _ := u.T(fe.Tag(), fe.Field())
				return t
			},
		)
	}
}

// validAcademicYear accepts "YYYY-YY" where the second year follows the first.
func validAcademicYear(fl govalidator.FieldLevel) bool {
	m := academicYearPattern.FindStringSubmatch(fl.Field().String())
	if m == nil {
		return false
	}
	start, _ := strconv.Atoi(m[1])
	end, _ := strconv.Atoi(m[2])
	return (start+1)%100 == end
}

func validClassName(fl govalidator.FieldLevel) bool {
	return model.IsValidClassName(fl.Field().String())
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans == nil {
				fields[fe.Field()] = fe.Error()
				continue
			}
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}

// BindQuery binds and validates query string parameters into dst.
func BindQuery(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindQuery(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
