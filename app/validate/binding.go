package validate

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// LooseEmail is the binding tag for the permissive email rule the sign-in
// forms use: something@something.something, no RFC checks.
const LooseEmail = "loose_email"

var looseEmailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// Messages maps "field.tag" to the message shown when that binding tag
// fails. A bare "field" key covers every tag on the field.
type Messages map[string]string

// Messager is implemented by request types that carry their own messages.
type Messager interface {
	ValidationMessages() Messages
}

func init() {
	engine, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Report fields by their JSON names so messages line up with form inputs.
	engine.RegisterTagNameFunc(jsonName)

	if err := engine.RegisterValidation(LooseEmail, func(fl validator.FieldLevel) bool {
		return looseEmailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Struct checks obj's binding tags exactly as gin does when binding a
// request body.
func Struct(obj any) error {
	return Translate(binding.Validator.ValidateStruct(obj), obj)
}

// Translate turns validator failures on obj into an *Error keyed by JSON
// field name. Any other error is returned unchanged.
func Translate(err error, obj any) error {
	var fieldErrs validator.ValidationErrors
	if err == nil || !errors.As(err, &fieldErrs) {
		return err
	}

	var messages Messages
	if m, ok := obj.(Messager); ok {
		messages = m.ValidationMessages()
	}

	v := New()
	for _, fe := range fieldErrs {
		v.Add(fe.Field(), messages.lookup(fe.Field(), fe.Tag()))
	}
	return v.Err()
}

func (m Messages) lookup(field, tag string) string {
	if msg, ok := m[field+"."+tag]; ok {
		return msg
	}
	if msg, ok := m[field]; ok {
		return msg
	}
	return "Invalid value"
}
