// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrRequiredFieldMissing matches every *RequiredFieldError.
	ErrRequiredFieldMissing = errors.New("required field missing")

	// ErrInvalidField matches every *FieldError.
	ErrInvalidField = errors.New("invalid field value")

	// ErrUnknownPageType is returned for type names outside the registry.
	ErrUnknownPageType = errors.New("unknown page type")
)

// RequiredFieldError reports a mandatory field left empty on a page type.
type RequiredFieldError struct {
	Type  PageType
	Field string
}

func (e *RequiredFieldError) Error() string {
	return fmt.Sprintf("%s: field %q is required", e.Type, e.Field)
}

func (e *RequiredFieldError) Is(target error) bool {
	return target == ErrRequiredFieldMissing
}

// FieldError reports a field whose value has the wrong shape.
type FieldError struct {
	Type   PageType
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: field %q %s", e.Type, e.Field, e.Reason)
}

func (e *FieldError) Is(target error) bool {
	return target == ErrInvalidField
}
