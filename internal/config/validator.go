package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/t-okubo/revplan/internal/cadence"
)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("cadence", isValidCadence); err != nil {
		return nil, nil, fmt.Errorf("failed to register cadence validation: %w", err)
	}
	if err := validate.RegisterTranslation("cadence", trans, func(ut ut.Translator) error {
		return ut.Add("cadence", "{0} must be a duration or a 5-field cron expression", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("cadence", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register cadence translation: %w", err)
	}

	return validate, trans, nil
}

func isValidCadence(fl validator.FieldLevel) bool {
	_, err := cadence.Parse(fl.Field().String())
	return err == nil
}
