package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ValidationError points at the config file, line or key that is wrong.
type ValidationError struct {
	FilePath string
	// Line is 1-based; 0 means unknown.
	Line    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	switch {
	case e.Line > 0:
		return fmt.Sprintf("%s:%d: %s", e.FilePath, e.Line, e.Message)
	case e.Field != "":
		return fmt.Sprintf("%s: field '%s': %s", e.FilePath, e.Field, e.Message)
	default:
		return fmt.Sprintf("%s: %s", e.FilePath, e.Message)
	}
}

// "yaml: line 3: mapping values are not allowed in this context"
var yamlLinePattern = regexp.MustCompile(`^yaml: line (\d+): (.+)$`)

// ValidateYAMLSyntax parses the YAML file at path and reports the first
// syntax error with its line. A missing or blank file is valid.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &ValidationError{FilePath: path, Message: err.Error()}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		verr := &ValidationError{FilePath: path, Message: strings.TrimPrefix(err.Error(), "yaml: ")}
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			verr.Line, _ = strconv.Atoi(m[1])
			verr.Message = m[2]
		}
		return verr
	}
	return nil
}

// valueValidator checks Configuration struct tags and reports fields by
// their config key.
var valueValidator = newValueValidator()

func newValueValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return f.Tag.Get("koanf")
	})
	_ = v.RegisterValidation("repo", func(fl validator.FieldLevel) bool {
		owner, name, ok := strings.Cut(fl.Field().String(), "/")
		return ok && owner != "" && name != "" && !strings.Contains(name, "/")
	})
	return v
}

// ValidateConfigValues checks the merged configuration. Every invalid key
// is reported; the result wraps one ValidationError per key.
func ValidateConfigValues(cfg *Configuration, source string) error {
	err := valueValidator.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &ValidationError{FilePath: source, Message: err.Error()}
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, &ValidationError{
			FilePath: source,
			Field:    fe.Field(),
			Message:  describeFieldError(fe),
		})
	}
	return errors.Join(errs...)
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "url":
		return "must be a valid URL"
	case "repo":
		return "must be in owner/name form"
	default:
		return "failed validation: " + fe.Tag()
	}
}
