// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/olegiv/bakery/internal/richtext"
)

// PageType is the qualified type name of a page variant, as exposed in the
// content API's meta.type.
type PageType string

const (
	TypeRoot               PageType = "wagtailcore.Page"
	TypeHomePage           PageType = "base.HomePage"
	TypeStandardPage       PageType = "base.StandardPage"
	TypeGalleryPage        PageType = "base.GalleryPage"
	TypeFormPage           PageType = "base.FormPage"
	TypeBlogIndexPage      PageType = "blog.BlogIndexPage"
	TypeBlogPage           PageType = "blog.BlogPage"
	TypeBreadsIndexPage    PageType = "breads.BreadsIndexPage"
	TypeBreadPage          PageType = "breads.BreadPage"
	TypeLocationsIndexPage PageType = "locations.LocationsIndexPage"
	TypeLocationPage       PageType = "locations.LocationPage"
)

// Content is the type specific payload of a page.
type Content interface {
	PageType() PageType
}

// RefKind names the table a content reference points into.
type RefKind string

const (
	RefImage      RefKind = "image"
	RefPage       RefKind = "page"
	RefCollection RefKind = "collection"
	RefCountry    RefKind = "country"
	RefBreadType  RefKind = "bread_type"
	RefIngredient RefKind = "ingredient"
	RefPerson     RefKind = "person"
)

// Object types of tagged records.
const (
	TagObjectPage     = "page"
	TagObjectImage    = "image"
	TagObjectDocument = "document"
)

// Ref is a reference from page content to another record.
type Ref struct {
	Field string
	Kind  RefKind
	ID    int64
}

// Referencer is implemented by content that points at other records.
type Referencer interface {
	Refs() []Ref
}

// RootContent is the payload of the untyped tree root.
type RootContent struct{}

func (*RootContent) PageType() PageType { return TypeRoot }

type HomePage struct {
	ImageID              *int64          `json:"image"`
	HeroText             string          `json:"hero_text"`
	HeroCTA              string          `json:"hero_cta"`
	HeroCTALinkID        *int64          `json:"hero_cta_link"`
	Body                 richtext.Stream `json:"body"`
	PromoImageID         *int64          `json:"promo_image"`
	PromoTitle           string          `json:"promo_title"`
	PromoText            string          `json:"promo_text"`
	FeaturedSectionTitle string          `json:"featured_section_1_title"`
	FeaturedSectionID    *int64          `json:"featured_section_1"`
}

func (*HomePage) PageType() PageType { return TypeHomePage }

func (c *HomePage) Refs() []Ref {
	refs := imageRefs(c.Body)
	refs = appendRef(refs, "image", RefImage, c.ImageID)
	refs = appendRef(refs, "promo_image", RefImage, c.PromoImageID)
	refs = appendRef(refs, "hero_cta_link", RefPage, c.HeroCTALinkID)
	return appendRef(refs, "featured_section_1", RefPage, c.FeaturedSectionID)
}

type StandardPage struct {
	Introduction string          `json:"introduction"`
	ImageID      *int64          `json:"image"`
	Body         richtext.Stream `json:"body"`
}

func (*StandardPage) PageType() PageType { return TypeStandardPage }

func (c *StandardPage) Refs() []Ref {
	return appendRef(imageRefs(c.Body), "image", RefImage, c.ImageID)
}

type GalleryPage struct {
	Introduction string          `json:"introduction"`
	ImageID      *int64          `json:"image"`
	Body         richtext.Stream `json:"body"`
	CollectionID *int64          `json:"collection"`
}

func (*GalleryPage) PageType() PageType { return TypeGalleryPage }

func (c *GalleryPage) Refs() []Ref {
	refs := appendRef(imageRefs(c.Body), "image", RefImage, c.ImageID)
	return appendRef(refs, "collection", RefCollection, c.CollectionID)
}

// FormField is one input of a FormPage.
type FormField struct {
	Label        string `json:"label"`
	FieldType    string `json:"field_type"`
	Required     bool   `json:"required"`
	Choices      string `json:"choices,omitempty"`
	DefaultValue string `json:"default_value,omitempty"`
	HelpText     string `json:"help_text,omitempty"`
}

type FormPage struct {
	ImageID      *int64          `json:"image"`
	Body         richtext.Stream `json:"body"`
	ThankYouText string          `json:"thank_you_text"`
	ToAddress    string          `json:"to_address"`
	FromAddress  string          `json:"from_address"`
	Subject      string          `json:"subject"`
	FormFields   []FormField     `json:"form_fields"`
}

func (*FormPage) PageType() PageType { return TypeFormPage }

func (c *FormPage) Refs() []Ref {
	return appendRef(imageRefs(c.Body), "image", RefImage, c.ImageID)
}

type BlogIndexPage struct {
	Introduction string `json:"introduction"`
	ImageID      *int64 `json:"image"`
}

func (*BlogIndexPage) PageType() PageType { return TypeBlogIndexPage }

func (c *BlogIndexPage) Refs() []Ref {
	return appendRef(nil, "image", RefImage, c.ImageID)
}

type BlogPage struct {
	Introduction  string          `json:"introduction"`
	ImageID       *int64          `json:"image"`
	Body          richtext.Stream `json:"body"`
	Subtitle      string          `json:"subtitle"`
	DatePublished *Date           `json:"date_published"`
}

func (*BlogPage) PageType() PageType { return TypeBlogPage }

func (c *BlogPage) Refs() []Ref {
	return appendRef(imageRefs(c.Body), "image", RefImage, c.ImageID)
}

type BreadsIndexPage struct {
	Introduction string `json:"introduction"`
	ImageID      *int64 `json:"image"`
}

func (*BreadsIndexPage) PageType() PageType { return TypeBreadsIndexPage }

func (c *BreadsIndexPage) Refs() []Ref {
	return appendRef(nil, "image", RefImage, c.ImageID)
}

type BreadPage struct {
	Introduction  string          `json:"introduction"`
	ImageID       *int64          `json:"image"`
	Body          richtext.Stream `json:"body"`
	OriginID      *int64          `json:"origin"`
	BreadTypeID   *int64          `json:"bread_type"`
	IngredientIDs []int64         `json:"ingredients"`
}

func (*BreadPage) PageType() PageType { return TypeBreadPage }

func (c *BreadPage) Refs() []Ref {
	refs := appendRef(imageRefs(c.Body), "image", RefImage, c.ImageID)
	refs = appendRef(refs, "origin", RefCountry, c.OriginID)
	refs = appendRef(refs, "bread_type", RefBreadType, c.BreadTypeID)
	for _, id := range c.IngredientIDs {
		refs = append(refs, Ref{Field: "ingredients", Kind: RefIngredient, ID: id})
	}
	return refs
}

type LocationsIndexPage struct {
	Introduction string `json:"introduction"`
	ImageID      *int64 `json:"image"`
}

func (*LocationsIndexPage) PageType() PageType { return TypeLocationsIndexPage }

func (c *LocationsIndexPage) Refs() []Ref {
	return appendRef(nil, "image", RefImage, c.ImageID)
}

// OperatingHours is one opening slot of a location.
type OperatingHours struct {
	Day         string `json:"day"`
	OpeningTime string `json:"opening_time,omitempty"`
	ClosingTime string `json:"closing_time,omitempty"`
	Closed      bool   `json:"closed"`
}

type LocationPage struct {
	Introduction     string           `json:"introduction"`
	ImageID          *int64           `json:"image"`
	Body             richtext.Stream  `json:"body"`
	Address          string           `json:"address"`
	LatLong          string           `json:"lat_long"`
	HoursOfOperation []OperatingHours `json:"hours_of_operation"`
}

func (*LocationPage) PageType() PageType { return TypeLocationPage }

func (c *LocationPage) Refs() []Ref {
	return appendRef(imageRefs(c.Body), "image", RefImage, c.ImageID)
}

var contentFactories = map[PageType]func() Content{
	TypeRoot:               func() Content { return &RootContent{} },
	TypeHomePage:           func() Content { return &HomePage{} },
	TypeStandardPage:       func() Content { return &StandardPage{} },
	TypeGalleryPage:        func() Content { return &GalleryPage{} },
	TypeFormPage:           func() Content { return &FormPage{} },
	TypeBlogIndexPage:      func() Content { return &BlogIndexPage{} },
	TypeBlogPage:           func() Content { return &BlogPage{} },
	TypeBreadsIndexPage:    func() Content { return &BreadsIndexPage{} },
	TypeBreadPage:          func() Content { return &BreadPage{} },
	TypeLocationsIndexPage: func() Content { return &LocationsIndexPage{} },
	TypeLocationPage:       func() Content { return &LocationPage{} },
}

// PageTypes returns every registered page type name, sorted.
func PageTypes() []PageType {
	types := make([]PageType, 0, len(contentFactories))
	for t := range contentFactories {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

// IsKnownType reports whether t names a registered page variant.
func IsKnownType(t PageType) bool {
	_, ok := contentFactories[t]
	return ok
}

// EncodeContent serializes content for storage. Nil content encodes as {}.
func EncodeContent(c Content) (string, error) {
	if c == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encoding %s content: %w", c.PageType(), err)
	}
	return string(raw), nil
}

// DecodeContent rebuilds typed content from its stored form.
func DecodeContent(t PageType, raw string) (Content, error) {
	factory, ok := contentFactories[t]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPageType, t)
	}
	c := factory()
	if raw == "" {
		return c, nil
	}
	if err := json.Unmarshal([]byte(raw), c); err != nil {
		return nil, fmt.Errorf("decoding %s content: %w", t, err)
	}
	return c, nil
}

// RefsOf returns the references held by c, if any.
func RefsOf(c Content) []Ref {
	if r, ok := c.(Referencer); ok {
		return r.Refs()
	}
	return nil
}

func appendRef(refs []Ref, field string, kind RefKind, id *int64) []Ref {
	if id == nil {
		return refs
	}
	return append(refs, Ref{Field: field, Kind: kind, ID: *id})
}

func imageRefs(s richtext.Stream) []Ref {
	var refs []Ref
	for _, id := range s.ImageIDs() {
		refs = append(refs, Ref{Field: "body", Kind: RefImage, ID: id})
	}
	return refs
}

// SanitizeBodies cleans the paragraph HTML of every body stream held by c.
func SanitizeBodies(c Content) {
	switch v := c.(type) {
	case *HomePage:
		v.Body = richtext.Sanitize(v.Body)
	case *StandardPage:
		v.Body = richtext.Sanitize(v.Body)
	case *GalleryPage:
		v.Body = richtext.Sanitize(v.Body)
	case *FormPage:
		v.Body = richtext.Sanitize(v.Body)
	case *BlogPage:
		v.Body = richtext.Sanitize(v.Body)
	case *BreadPage:
		v.Body = richtext.Sanitize(v.Body)
	case *LocationPage:
		v.Body = richtext.Sanitize(v.Body)
	}
}
