package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/at-ishikawa/dictforge/internal/render"
)

type customRule struct {
	tag     string
	fn      validator.Func
	message string
}

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

	rules := []customRule{
		{tag: "file", fn: isFileReadable, message: "{0} must be an existing and readable file"},
		{tag: "dir", fn: isDirectory, message: "{0} must be an existing directory"},
		{tag: "output_format", fn: isOutputFormat, message: "{0} must be one of " + strings.Join(render.TagNames(), ", ")},
	}
	for _, rule := range rules {
		if err := validate.RegisterValidation(rule.tag, rule.fn); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s validation: %w", rule.tag, err)
		}
		tag, message := rule.tag, rule.message
		if err := validate.RegisterTranslation(tag, trans, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		}); err != nil {
			return nil, nil, fmt.Errorf("failed to register %s translation: %w", tag, err)
		}
	}

	return validate, trans, nil
}

// translate renders fe with the dotted config key, e.g. build.zip_with, in
// place of the bare field name that the translations start with.
func translate(fe validator.FieldError, trans ut.Translator) string {
	msg := fe.Translate(trans)
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	if rest, ok := strings.CutPrefix(msg, fe.Field()); ok {
		return key + rest
	}
	return msg
}

func isFileReadable(fl validator.FieldLevel) bool {
	path := fl.Field().String()
	if path == "" {
		return false
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	if info.IsDir() {
		return false
	}

	// Check if the owner has read permission
	return info.Mode().Perm()&(1<<(uint(7))) != 0
}

func isDirectory(fl validator.FieldLevel) bool {
	info, err := os.Stat(fl.Field().String())
	if err != nil {
		return false
	}
	return info.IsDir()
}

func isOutputFormat(fl validator.FieldLevel) bool {
	_, err := render.ParseTag(fl.Field().String())
	return err == nil
}
