// Vitrina - Static Media Catalog Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrina

package validation

import (
	"strings"
	"testing"
)

type sampleEnvelope struct {
	Name  string   `validate:"required"`
	Kind  string   `validate:"required,oneof=book movie"`
	Items []string `validate:"required"`
}

func TestValidateStructSuccess(t *testing.T) {
	s := sampleEnvelope{Name: "catalog", Kind: "book", Items: []string{"a"}}
	if err := ValidateStruct(&s); err != nil {
		t.Errorf("Expected valid struct, got %v", err)
	}
}

func TestValidateStructMissingRequired(t *testing.T) {
	s := sampleEnvelope{Kind: "book", Items: []string{"a"}}
	err := ValidateStruct(&s)
	if err == nil {
		t.Fatal("Expected validation error for missing Name")
	}
	if !strings.Contains(err.Error(), "Name is required") {
		t.Errorf("Expected translated required message, got %q", err.Error())
	}
}

func TestValidateStructOneOf(t *testing.T) {
	s := sampleEnvelope{Name: "catalog", Kind: "podcast", Items: []string{"a"}}
	err := ValidateStruct(&s)
	if err == nil {
		t.Fatal("Expected validation error for bad Kind")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Errorf("Expected oneof message, got %q", err.Error())
	}
}

func TestValidateStructCollectsAllFields(t *testing.T) {
	s := sampleEnvelope{}
	err := ValidateStruct(&s)
	if err == nil {
		t.Fatal("Expected validation errors")
	}
	if len(err.Errors()) != 3 {
		t.Errorf("Expected 3 field errors, got %d", len(err.Errors()))
	}
}

func TestGetValidatorSingleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("Expected the same validator instance across calls")
	}
}
