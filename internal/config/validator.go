package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ValidateConfig performs validation on the GlobalConfig structure.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "text", "json":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("optionsbackend", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", BackendStatic, BackendFile, BackendSQLite:
			return true
		default:
			return false
		}
	})

	validate.RegisterStructValidation(validateOptionsConfig, OptionsConfig{})

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("configuration validation error: %w", err)
	}

	messages := make([]string, 0, len(errs))
	for _, e := range errs {
		msg := fmt.Sprintf("Validation failed for '%s': rule '%s'", trimRootNamespace(e.Namespace()), e.Tag())
		if e.Param() != "" {
			msg += fmt.Sprintf(" (expected: %s)", e.Param())
		}
		if e.Value() != nil && e.Value() != "" {
			msg += fmt.Sprintf(", actual: '%v'", e.Value())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("configuration validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// validateOptionsConfig requires the path of the selected backend.
func validateOptionsConfig(sl validator.StructLevel) {
	oc := sl.Current().Interface().(OptionsConfig)
	switch strings.ToLower(oc.Backend) {
	case BackendFile:
		if strings.TrimSpace(oc.FilePath) == "" {
			sl.ReportError(oc.FilePath, "FilePath", "file_path", "required_for_backend", BackendFile)
		}
	case BackendSQLite:
		if strings.TrimSpace(oc.SQLitePath) == "" {
			sl.ReportError(oc.SQLitePath, "SQLitePath", "sqlite_path", "required_for_backend", BackendSQLite)
		}
	}
}

func trimRootNamespace(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
