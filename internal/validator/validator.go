package validator

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"tours-api/internal/models"
)

// slugRegex matches valid slugs: lowercase alphanumeric with hyphens, no leading/trailing/consecutive hyphens
var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

var (
	once  sync.Once
	trans ut.Translator
)

// validateSlug validates that a string is a valid slug
func validateSlug(fl validator.FieldLevel) bool {
	return slugRegex.MatchString(fl.Field().String())
}

func validateDifficulty(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case models.DifficultyEasy, models.DifficultyMedium, models.DifficultyDifficult:
		return true
	}
	return false
}

func validateMongoID(fl validator.FieldLevel) bool {
	return primitive.IsValidObjectID(fl.Field().String())
}

func validateRole(fl validator.FieldLevel) bool {
	_, ok := models.ParseRole(fl.Field().String())
	return ok
}

// jsonName reports fields by their JSON name so messages match the payload.
func jsonName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

var customMessages = map[string]string{
	"slug":       "{0} must be lowercase letters, digits and single hyphens",
	"difficulty": "{0} is either: easy, medium, difficult",
	"mongoid":    "{0} must be a valid id",
	"role":       "{0} must be one of: user, guide, lead-guide, admin",
}

// RegisterCustomValidators registers all custom validators and English
// translations with gin's validator. Safe to call more than once.
func RegisterCustomValidators() {
	once.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		register(v)
	})
}

func register(v *validator.Validate) {
	v.RegisterTagNameFunc(jsonName)
	_ = v.RegisterValidation("slug", validateSlug)
	_ = v.RegisterValidation("difficulty", validateDifficulty)
	_ = v.RegisterValidation("mongoid", validateMongoID)
	_ = v.RegisterValidation("role", validateRole)

	locale := en.New()
	trans, _ = ut.New(locale, locale).GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)

	for tag, msg := range customMessages {
		msg := msg
		_ = v.RegisterTranslation(tag, trans,
			func(t ut.Translator) error { return t.Add(tag, msg, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				s, _ := t.T(fe.Tag(), fe.Field())
				return s
			},
		)
	}
}

// Messages renders each field error as an English sentence.
func Messages(errs validator.ValidationErrors) []string {
	out := make([]string, 0, len(errs))
	for _, fe := range errs {
		if trans != nil {
			out = append(out, fe.Translate(trans))
			continue
		}
		out = append(out, fe.Error())
	}
	return out
}
