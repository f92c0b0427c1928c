package models

import (
	"errors"
	"testing"
)

func TestValidationErrorsIs(t *testing.T) {
	validation := &ValidationErrors{}
	validation.Add("id", ErrEmptyID)

	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrEmptyID) {
		t.Fatalf("expected errors.Is to match ErrEmptyID, got %v", err)
	}
}

func TestValidationErrorsNestedFields(t *testing.T) {
	nested := &ValidationErrors{}
	nested.AddMessage("id", "story id is required")

	validation := &ValidationErrors{}
	validation.Add("stories[0]", nested)

	err := validation.Err()
	if err == nil {
		t.Fatal("expected error")
	}

	list, ok := err.(*ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors type, got %T", err)
	}
	if list.Len() != 1 {
		t.Fatalf("expected 1 error, got %d", list.Len())
	}
	if list.Errors[0].Field != "stories[0].id" {
		t.Fatalf("expected field stories[0].id, got %q", list.Errors[0].Field)
	}
}

func TestValidationErrorsEmptyIsNil(t *testing.T) {
	var validation *ValidationErrors
	if validation.Err() != nil {
		t.Fatal("nil receiver should report no error")
	}
	validation = &ValidationErrors{}
	validation.Add("ignored", nil)
	validation.AddMessage("ignored", "")
	if validation.Err() != nil {
		t.Fatalf("expected no error, got %v", validation.Err())
	}
}
