// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"strconv"
	"strings"
	"time"
)

// Country is the origin of a bread.
type Country struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (c Country) String() string { return c.Title }

// BreadType classifies breads (sourdough, flatbread, ...).
type BreadType struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (b BreadType) String() string { return b.Title }

// BreadIngredient is an ingredient that bread pages list.
type BreadIngredient struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (b BreadIngredient) String() string { return b.Name }

// PreviewMode is a (name, label) pair offered when previewing a snippet.
type PreviewMode struct {
	Name  string
	Label string
}

// Person is a staff member who can author blog posts.
type Person struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	JobTitle  string    `json:"job_title"`
	ImageID   *int64    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p Person) String() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// PreviewModes lists the ways a person can be previewed.
func (Person) PreviewModes() []PreviewMode {
	return []PreviewMode{
		{Name: "", Label: "Default"},
		{Name: "blog_post", Label: "Blog post"},
	}
}

// PreviewTemplate is the template a preview of the person renders with.
func (Person) PreviewTemplate(mode string) string {
	return "base.html"
}

// PreviewContext builds the template context for a person preview. The
// blog_post mode wraps the person in a stand-in page.
func (p Person) PreviewContext(mode string) map[string]any {
	ctx := map[string]any{"person": p}
	if mode == "blog_post" {
		ctx["page"] = map[string]any{
			"title":   "Blog post",
			"authors": []Person{p},
		}
	}
	return ctx
}

// FooterText is the shared footer copy.
type FooterText struct {
	ID   int64  `json:"id"`
	Body string `json:"body"`
}

func (FooterText) String() string { return "Footer text" }

func (FooterText) PreviewTemplate(string) string { return "base.html" }

func (f FooterText) PreviewContext(string) map[string]any {
	return map[string]any{"footer_text": f.Body}
}

// GenericSettings holds install-wide social links.
type GenericSettings struct {
	TwitterURL      string `json:"twitter_url"`
	GitHubURL       string `json:"github_url"`
	OrganisationURL string `json:"organisation_url"`
}

// SiteSettings holds per-site presentation options.
type SiteSettings struct {
	ID          int64  `json:"id"`
	SiteID      int64  `json:"site_id"`
	TitleSuffix string `json:"title_suffix"`
}

// DefaultTitleSuffix is the title suffix of a site without settings.
const DefaultTitleSuffix = "The Wagtail Bakery"

// Site binds a hostname to a page subtree.
type Site struct {
	ID            int64  `json:"id"`
	Hostname      string `json:"hostname"`
	Port          int64  `json:"port"`
	SiteName      string `json:"site_name"`
	RootPageID    int64  `json:"root_page"`
	IsDefaultSite bool   `json:"is_default_site"`
}

// RootURL returns the site's base URL.
func (s Site) RootURL() string {
	scheme := "http"
	if s.Port == 443 {
		scheme = "https"
	}
	if s.Port == 80 || s.Port == 443 || s.Port == 0 {
		return scheme + "://" + s.Hostname
	}
	return scheme + "://" + s.Hostname + ":" + strconv.FormatInt(s.Port, 10)
}

// User is an account that can own pages and workflow tasks.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserApprovalTask is a workflow step that a single user approves.
type UserApprovalTask struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}
