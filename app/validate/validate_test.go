package validate

import (
	"errors"
	"testing"
)

func TestErrorEmptyReturnsNil(t *testing.T) {
	v := New()
	if err := v.Err(); err != nil {
		t.Errorf("Expected nil error for empty validation, got %v", err)
	}
}

func TestErrorFirstMessageWins(t *testing.T) {
	v := New()
	v.Add("email", "Email is required")
	v.Add("email", "Email is invalid")

	if v.Fields["email"] != "Email is required" {
		t.Errorf("Expected first message to be kept, got '%s'", v.Fields["email"])
	}
}

func TestErrorMessageIsSorted(t *testing.T) {
	v := New()
	v.Add("password", "too short")
	v.Add("email", "invalid")

	want := "validation failed: email: invalid; password: too short"
	if v.Error() != want {
		t.Errorf("Expected '%s', got '%s'", want, v.Error())
	}
}

func TestFieldIsDetectableWithErrorsAs(t *testing.T) {
	var err error = Field("selection", "Please select at least 2 NEOs to compare")

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatal("Expected errors.As to match *Error")
	}
	if verr.Fields["selection"] == "" {
		t.Error("Expected selection field message")
	}
}

type signInForm struct {
	Email    string `json:"email" binding:"required,loose_email"`
	Password string `json:"password" binding:"required,min=6"`
	Internal string `json:"-" binding:"required"`
}

func (signInForm) ValidationMessages() Messages {
	return Messages{
		"email.required":    "Email is required",
		"email.loose_email": "Email is invalid",
		"password":          "Password is no good",
	}
}

func TestStructUsesJSONNamesAndMessages(t *testing.T) {
	err := Struct(signInForm{Email: "ada@example", Password: "123"})

	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if verr.Fields["email"] != "Email is invalid" {
		t.Errorf("Expected tag-specific email message, got %q", verr.Fields["email"])
	}
	if verr.Fields["password"] != "Password is no good" {
		t.Errorf("Expected field-wide password message, got %q", verr.Fields["password"])
	}
	if verr.Fields["Internal"] != "Invalid value" {
		t.Errorf("Expected fallback message under the Go field name, got %v", verr.Fields)
	}
}

func TestLooseEmailRule(t *testing.T) {
	tests := map[string]bool{
		"ada@example.com": true,
		"a@b.c":           true,
		"ada@example":     false,
		"ada.example.com": false,
		"@example.com":    false,
	}

	for email, valid := range tests {
		err := Struct(signInForm{Email: email, Password: "secret1", Internal: "x"})
		if (err == nil) != valid {
			t.Errorf("Email %q: expected valid=%v, got %v", email, valid, err)
		}
	}
}

func TestTranslatePassesOtherErrors(t *testing.T) {
	plain := errors.New("unexpected EOF")
	if got := Translate(plain, signInForm{}); got != plain {
		t.Errorf("Expected error to pass through, got %v", got)
	}
	if got := Translate(nil, signInForm{}); got != nil {
		t.Errorf("Expected nil, got %v", got)
	}
}
