package validation

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name   string `json:"name" validate:"required,max=5"`
	Rating int    `json:"rating" validate:"gte=1,lte=5"`
	Mode   string `yaml:"mode" validate:"omitempty,oneof=recent score"`
	Plain  string `validate:"omitempty,min=2"`
}

func TestStructValid(t *testing.T) {
	if err := Struct(&sample{Name: "ok", Rating: 3, Mode: "score"}); err != nil {
		t.Errorf("expected valid, got %v", err)
	}
}

func TestStructCollectsFields(t *testing.T) {
	err := Struct(&sample{Name: "", Rating: 9, Mode: "random", Plain: "x"})
	var verr *Error
	if !errors.As(err, &verr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if len(verr.Fields) != 4 {
		t.Fatalf("expected 4 field errors, got %+v", verr.Fields)
	}

	want := map[string]string{
		"name":   "name is required",
		"rating": "rating must be less than or equal to 5",
		"mode":   "mode must be one of: recent score",
		"Plain":  "Plain must be at least 2 characters",
	}
	for _, f := range verr.Fields {
		if want[f.Field] != f.Message {
			t.Errorf("field %s: expected %q, got %q", f.Field, want[f.Field], f.Message)
		}
	}
	if !strings.Contains(err.Error(), "name is required") {
		t.Errorf("unexpected combined message %q", err.Error())
	}
}

func TestValidatorSingleton(t *testing.T) {
	if Validator() != Validator() {
		t.Error("expected the same validator instance")
	}
}
