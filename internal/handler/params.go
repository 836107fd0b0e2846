// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ErrInvalidParam is wrapped by every parameter parsing error.
var ErrInvalidParam = errors.New("invalid parameter")

// ParseIDParam parses the "id" URL parameter.
func ParseIDParam(r *http.Request) (int64, error) {
	return ParseURLParamInt64(r, "id")
}

// ParseURLParamInt64 parses a named URL parameter as int64.
func ParseURLParamInt64(r *http.Request, name string) (int64, error) {
	str := chi.URLParam(r, name)
	if str == "" {
		return 0, fmt.Errorf("%w: %s is required", ErrInvalidParam, name)
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", ErrInvalidParam, name)
	}
	return val, nil
}

// QueryInt parses a non-negative integer query parameter. A missing or
// empty parameter yields defaultVal.
func QueryInt(q url.Values, name string, defaultVal int) (int, error) {
	str := q.Get(name)
	if str == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(str)
	if err != nil || val < 0 {
		return 0, fmt.Errorf("%w: %s must be a non-negative integer", ErrInvalidParam, name)
	}
	return val, nil
}

// QueryID parses a positive id query parameter. A missing parameter yields 0.
func QueryID(q url.Values, name string) (int64, error) {
	str := q.Get(name)
	if str == "" {
		return 0, nil
	}
	val, err := strconv.ParseInt(str, 10, 64)
	if err != nil || val <= 0 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidParam, name)
	}
	return val, nil
}

// QueryBool parses a boolean query parameter. A missing parameter yields nil.
func QueryBool(q url.Values, name string) (*bool, error) {
	str := q.Get(name)
	if str == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(str)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidParam, name)
	}
	return &val, nil
}

// CheckQueryKeys rejects query parameters outside allowed.
func CheckQueryKeys(q url.Values, allowed map[string]bool) error {
	for key := range q {
		if !allowed[key] {
			return fmt.Errorf("%w: query parameter is not an operation or a recognised field: %s", ErrInvalidParam, key)
		}
	}
	return nil
}
