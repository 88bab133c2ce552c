// Package bind provides JSON bind and validation helpers for handlers
package bind

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	perr "codewarden/internal/platform/errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ValidatorSvc holds a singleton validator and translator
type ValidatorSvc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *ValidatorSvc
)

// Init initializes the singleton validator with english translations and json tag names
func Init() *ValidatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		vSvc = &ValidatorSvc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *ValidatorSvc {
	if vSvc == nil {
		return Init()
	}
	return vSvc
}

// JSON decodes the request body into dst and validates it.
// Returns a platform error with code Validation or JSON on failure
func JSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return perr.JSONErrf("empty request body")
	}
	defer func() { _, _ = io.Copy(io.Discard, r.Body) }()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeJSON, "decode json body")
	}
	if dec.More() {
		return perr.JSONErrf("unexpected trailing content in json body")
	}
	return Validate(dst)
}

// Validate runs struct validation on dst and maps the first field error
func Validate(dst any) error {
	svc := Get()
	if err := svc.Validator.Struct(dst); err != nil {
		var ferrs validator.ValidationErrors
		if ok := asValidationErrors(err, &ferrs); ok && len(ferrs) > 0 {
			fe := ferrs[0]
			return perr.WithField(
				perr.Newf(perr.ErrorCodeValidation, "%s", fe.Translate(svc.Translator)),
				fe.Field(),
			)
		}
		return perr.Wrap(err, perr.ErrorCodeValidation, "validate payload")
	}
	return nil
}

func asValidationErrors(err error, target *validator.ValidationErrors) bool {
	ve, ok := err.(validator.ValidationErrors)
	if !ok {
		return false
	}
	*target = ve
	return true
}
