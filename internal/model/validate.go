// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
)

// rule is one required-field check of a page type.
type rule struct {
	field   string
	missing func(Content) bool
}

// required builds a rule for content variant T. Content of another type
// counts as missing so a mismatched table entry fails loudly.
func required[T any](field string, missing func(*T) bool) rule {
	return rule{
		field: field,
		missing: func(c Content) bool {
			v, ok := any(c).(*T)
			return !ok || v == nil || missing(v)
		},
	}
}

// requiredFields is the fixed table of mandatory fields per page type.
// Title is checked for every type separately.
var requiredFields = map[PageType][]rule{
	TypeStandardPage: {
		required("body", func(c *StandardPage) bool { return c.Body.IsEmpty() }),
	},
	TypeHomePage: {
		required("hero_text", func(c *HomePage) bool { return strings.TrimSpace(c.HeroText) == "" }),
	},
	TypeGalleryPage: {
		required("collection", func(c *GalleryPage) bool { return c.CollectionID == nil }),
	},
	TypeFormPage: {
		required("body", func(c *FormPage) bool { return c.Body.IsEmpty() }),
	},
	TypeLocationPage: {
		required("lat_long", func(c *LocationPage) bool { return strings.TrimSpace(c.LatLong) == "" }),
	},
}

// latLongPattern matches "lat, long" pairs such as "64.144367, -21.939182".
var latLongPattern = regexp.MustCompile(`^-?\d+(\.\d+)?,\s*-?\d+(\.\d+)?$`)

// RequiredFields lists the mandatory content fields of t, excluding title.
func RequiredFields(t PageType) []string {
	rules := requiredFields[t]
	fields := make([]string, len(rules))
	for i, r := range rules {
		fields[i] = r.field
	}
	return fields
}

// Validate checks p against its type's rules. The first violation is
// returned; format problems are joined after required-field checks pass.
func Validate(p *Page) error {
	if p.Content == nil {
		return &RequiredFieldError{Type: TypeRoot, Field: "content"}
	}
	t := p.Type()
	if isNilPointer(p.Content) {
		return &RequiredFieldError{Type: t, Field: "content"}
	}
	if !IsKnownType(t) {
		return ErrUnknownPageType
	}
	if strings.TrimSpace(p.Title) == "" {
		return &RequiredFieldError{Type: t, Field: "title"}
	}
	for _, r := range requiredFields[t] {
		if r.missing(p.Content) {
			return &RequiredFieldError{Type: t, Field: r.field}
		}
	}
	return validateFormats(t, p.Content)
}

// isNilPointer reports whether c holds a typed nil pointer.
func isNilPointer(c Content) bool {
	v := reflect.ValueOf(c)
	return v.Kind() == reflect.Pointer && v.IsNil()
}

func validateFormats(t PageType, c Content) error {
	var errs []error
	switch v := c.(type) {
	case *LocationPage:
		if !latLongPattern.MatchString(strings.TrimSpace(v.LatLong)) {
			errs = append(errs, &FieldError{Type: t, Field: "lat_long", Reason: "must be a \"lat, long\" pair"})
		}
	case *FormPage:
		for _, f := range v.FormFields {
			if strings.TrimSpace(f.Label) == "" {
				errs = append(errs, &FieldError{Type: t, Field: "form_fields", Reason: "has a field without a label"})
				break
			}
		}
	}
	return errors.Join(errs...)
}
