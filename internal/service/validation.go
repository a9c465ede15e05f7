package service

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/egannguyen/storefront-backend/internal/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validateRequest checks s and reports the first failing field. messages
// overrides the default message per json field.
func validateRequest(s any, messages map[string]string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperror.Validation(err.Error())
	}
	field := verrs[0].Field()
	if msg, ok := messages[field]; ok {
		return apperror.Validation(msg)
	}
	if strings.HasPrefix(verrs[0].Tag(), "required") {
		return apperror.Validationf("Missing required field: %s", field)
	}
	return apperror.Validationf("Invalid value for field: %s", field)
}

// LooseString accepts either a JSON string or a JSON number.
type LooseString string

func (s *LooseString) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		*s = LooseString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*s = LooseString(n.String())
	return nil
}
