// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/store"
	"github.com/olegiv/bakery/internal/util"
)

// SnippetService manages the flat reference records pages point at.
// Natural keys are not unique: lookups by title or name return the oldest
// match.
type SnippetService struct {
	queries *store.Queries
	cache   cache.Cache
	logger  *slog.Logger
	now     clock
}

// NewSnippetService creates a snippet service. c may be nil.
func NewSnippetService(db *sql.DB, c cache.Cache, logger *slog.Logger) *SnippetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnippetService{
		queries: store.New(db),
		cache:   c,
		logger:  logger,
		now:     time.Now,
	}
}

func requireText(kind, field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s %s", model.ErrRequiredFieldMissing, kind, field)
	}
	return nil
}

// affected turns a zero-row update or delete into ErrNotFound.
func affected(n int64, err error, kind string, id int64) error {
	if err != nil {
		return fmt.Errorf("writing %s %d: %w", kind, id, err)
	}
	if n == 0 {
		return fmt.Errorf("%s %d: %w", kind, id, store.ErrNotFound)
	}
	return nil
}

func (s *SnippetService) changed(ctx context.Context) {
	invalidate(ctx, s.cache, s.logger)
}

// Countries

func (s *SnippetService) CreateCountry(ctx context.Context, title string) (model.Country, error) {
	if err := requireText("country", "title", title); err != nil {
		return model.Country{}, err
	}
	row, err := s.queries.CreateCountry(ctx, title)
	if err != nil {
		return model.Country{}, fmt.Errorf("creating country: %w", err)
	}
	return model.Country{ID: row.ID, Title: row.Title}, nil
}

func (s *SnippetService) GetCountry(ctx context.Context, id int64) (model.Country, error) {
	row, err := s.queries.GetCountry(ctx, id)
	if err != nil {
		return model.Country{}, fmt.Errorf("getting country %d: %w", id, err)
	}
	return model.Country{ID: row.ID, Title: row.Title}, nil
}

func (s *SnippetService) CountryByTitle(ctx context.Context, title string) (model.Country, error) {
	row, err := s.queries.GetCountryByTitle(ctx, title)
	if err != nil {
		return model.Country{}, fmt.Errorf("getting country %q: %w", title, err)
	}
	return model.Country{ID: row.ID, Title: row.Title}, nil
}

func (s *SnippetService) ListCountries(ctx context.Context) ([]model.Country, error) {
	rows, err := s.queries.ListCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing countries: %w", err)
	}
	items := make([]model.Country, len(rows))
	for i, row := range rows {
		items[i] = model.Country{ID: row.ID, Title: row.Title}
	}
	return items, nil
}

func (s *SnippetService) UpdateCountry(ctx context.Context, id int64, title string) error {
	if err := requireText("country", "title", title); err != nil {
		return err
	}
	n, err := s.queries.UpdateCountry(ctx, store.UpdateCountryParams{Title: title, ID: id})
	if err := affected(n, err, "country", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) DeleteCountry(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteCountry(ctx, id)
	if err := affected(n, err, "country", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) CountCountries(ctx context.Context) (int64, error) {
	return s.queries.CountCountries(ctx)
}

// Bread types

func (s *SnippetService) CreateBreadType(ctx context.Context, title string) (model.BreadType, error) {
	if err := requireText("bread type", "title", title); err != nil {
		return model.BreadType{}, err
	}
	row, err := s.queries.CreateBreadType(ctx, title)
	if err != nil {
		return model.BreadType{}, fmt.Errorf("creating bread type: %w", err)
	}
	return model.BreadType{ID: row.ID, Title: row.Title}, nil
}

func (s *SnippetService) GetBreadType(ctx context.Context, id int64) (model.BreadType, error) {
	row, err := s.queries.GetBreadType(ctx, id)
	if err != nil {
		return model.BreadType{}, fmt.Errorf("getting bread type %d: %w", id, err)
	}
	return model.BreadType{ID: row.ID, Title: row.Title}, nil
}

func (s *SnippetService) BreadTypeByTitle(ctx context.Context, title string) (model.BreadType, error) {
	row, err := s.queries.GetBreadTypeByTitle(ctx, title)
	if err != nil {
		return model.BreadType{}, fmt.Errorf("getting bread type %q: %w", title, err)
	}
	return model.BreadType{ID: row.ID, Title: row.Title}, nil
}

func (s *SnippetService) ListBreadTypes(ctx context.Context) ([]model.BreadType, error) {
	rows, err := s.queries.ListBreadTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing bread types: %w", err)
	}
	items := make([]model.BreadType, len(rows))
	for i, row := range rows {
		items[i] = model.BreadType{ID: row.ID, Title: row.Title}
	}
	return items, nil
}

func (s *SnippetService) UpdateBreadType(ctx context.Context, id int64, title string) error {
	if err := requireText("bread type", "title", title); err != nil {
		return err
	}
	n, err := s.queries.UpdateBreadType(ctx, store.UpdateBreadTypeParams{Title: title, ID: id})
	if err := affected(n, err, "bread type", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) DeleteBreadType(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteBreadType(ctx, id)
	if err := affected(n, err, "bread type", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) CountBreadTypes(ctx context.Context) (int64, error) {
	return s.queries.CountBreadTypes(ctx)
}

// Bread ingredients

func (s *SnippetService) CreateBreadIngredient(ctx context.Context, name string) (model.BreadIngredient, error) {
	if err := requireText("ingredient", "name", name); err != nil {
		return model.BreadIngredient{}, err
	}
	row, err := s.queries.CreateBreadIngredient(ctx, name)
	if err != nil {
		return model.BreadIngredient{}, fmt.Errorf("creating ingredient: %w", err)
	}
	return model.BreadIngredient{ID: row.ID, Name: row.Name}, nil
}

func (s *SnippetService) GetBreadIngredient(ctx context.Context, id int64) (model.BreadIngredient, error) {
	row, err := s.queries.GetBreadIngredient(ctx, id)
	if err != nil {
		return model.BreadIngredient{}, fmt.Errorf("getting ingredient %d: %w", id, err)
	}
	return model.BreadIngredient{ID: row.ID, Name: row.Name}, nil
}

func (s *SnippetService) BreadIngredientByName(ctx context.Context, name string) (model.BreadIngredient, error) {
	row, err := s.queries.GetBreadIngredientByName(ctx, name)
	if err != nil {
		return model.BreadIngredient{}, fmt.Errorf("getting ingredient %q: %w", name, err)
	}
	return model.BreadIngredient{ID: row.ID, Name: row.Name}, nil
}

func (s *SnippetService) ListBreadIngredients(ctx context.Context) ([]model.BreadIngredient, error) {
	rows, err := s.queries.ListBreadIngredients(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing ingredients: %w", err)
	}
	items := make([]model.BreadIngredient, len(rows))
	for i, row := range rows {
		items[i] = model.BreadIngredient{ID: row.ID, Name: row.Name}
	}
	return items, nil
}

func (s *SnippetService) UpdateBreadIngredient(ctx context.Context, id int64, name string) error {
	if err := requireText("ingredient", "name", name); err != nil {
		return err
	}
	n, err := s.queries.UpdateBreadIngredient(ctx, store.UpdateBreadIngredientParams{Name: name, ID: id})
	if err := affected(n, err, "ingredient", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) DeleteBreadIngredient(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteBreadIngredient(ctx, id)
	if err := affected(n, err, "ingredient", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) CountBreadIngredients(ctx context.Context) (int64, error) {
	return s.queries.CountBreadIngredients(ctx)
}

// People

// CreatePerson stores p and returns it with its id and timestamps set.
func (s *SnippetService) CreatePerson(ctx context.Context, p model.Person) (model.Person, error) {
	if err := requireText("person", "first_name", p.FirstName); err != nil {
		return model.Person{}, err
	}
	if err := requireText("person", "last_name", p.LastName); err != nil {
		return model.Person{}, err
	}
	if err := s.checkImage(ctx, p.ImageID); err != nil {
		return model.Person{}, err
	}
	now := s.now().UTC()
	row, err := s.queries.CreatePerson(ctx, store.CreatePersonParams{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		JobTitle:  p.JobTitle,
		ImageID:   util.NullInt64FromPtr(p.ImageID),
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return model.Person{}, fmt.Errorf("creating person: %w", err)
	}
	return toPerson(row), nil
}

func (s *SnippetService) GetPerson(ctx context.Context, id int64) (model.Person, error) {
	row, err := s.queries.GetPerson(ctx, id)
	if err != nil {
		return model.Person{}, fmt.Errorf("getting person %d: %w", id, err)
	}
	return toPerson(row), nil
}

func (s *SnippetService) PersonByName(ctx context.Context, firstName, lastName string) (model.Person, error) {
	row, err := s.queries.GetPersonByName(ctx, store.GetPersonByNameParams{FirstName: firstName, LastName: lastName})
	if err != nil {
		return model.Person{}, fmt.Errorf("getting person %s %s: %w", firstName, lastName, err)
	}
	return toPerson(row), nil
}

func (s *SnippetService) ListPeople(ctx context.Context) ([]model.Person, error) {
	rows, err := s.queries.ListPeople(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing people: %w", err)
	}
	items := make([]model.Person, len(rows))
	for i, row := range rows {
		items[i] = toPerson(row)
	}
	return items, nil
}

// UpdatePerson writes every editable field of p.
func (s *SnippetService) UpdatePerson(ctx context.Context, p model.Person) error {
	if err := requireText("person", "first_name", p.FirstName); err != nil {
		return err
	}
	if err := requireText("person", "last_name", p.LastName); err != nil {
		return err
	}
	if err := s.checkImage(ctx, p.ImageID); err != nil {
		return err
	}
	n, err := s.queries.UpdatePerson(ctx, store.UpdatePersonParams{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		JobTitle:  p.JobTitle,
		ImageID:   util.NullInt64FromPtr(p.ImageID),
		UpdatedAt: s.now().UTC(),
		ID:        p.ID,
	})
	if err := affected(n, err, "person", p.ID); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) DeletePerson(ctx context.Context, id int64) error {
	n, err := s.queries.DeletePerson(ctx, id)
	if err := affected(n, err, "person", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) CountPeople(ctx context.Context) (int64, error) {
	return s.queries.CountPeople(ctx)
}

func (s *SnippetService) checkImage(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	_, err := s.queries.GetImage(ctx, *id)
	if store.IsNotFound(err) {
		return &ReferenceError{Field: "image", Kind: model.RefImage, ID: *id}
	}
	return err
}

// Footer texts

func (s *SnippetService) CreateFooterText(ctx context.Context, body string) (model.FooterText, error) {
	if err := requireText("footer text", "body", body); err != nil {
		return model.FooterText{}, err
	}
	row, err := s.queries.CreateFooterText(ctx, body)
	if err != nil {
		return model.FooterText{}, fmt.Errorf("creating footer text: %w", err)
	}
	s.changed(ctx)
	return model.FooterText{ID: row.ID, Body: row.Body}, nil
}

func (s *SnippetService) GetFooterText(ctx context.Context, id int64) (model.FooterText, error) {
	row, err := s.queries.GetFooterText(ctx, id)
	if err != nil {
		return model.FooterText{}, fmt.Errorf("getting footer text %d: %w", id, err)
	}
	return model.FooterText{ID: row.ID, Body: row.Body}, nil
}

// LatestFooterText returns the most recently created footer text, the one
// the site displays.
func (s *SnippetService) LatestFooterText(ctx context.Context) (model.FooterText, error) {
	row, err := s.queries.GetLatestFooterText(ctx)
	if err != nil {
		return model.FooterText{}, fmt.Errorf("getting footer text: %w", err)
	}
	return model.FooterText{ID: row.ID, Body: row.Body}, nil
}

func (s *SnippetService) UpdateFooterText(ctx context.Context, id int64, body string) error {
	if err := requireText("footer text", "body", body); err != nil {
		return err
	}
	n, err := s.queries.UpdateFooterText(ctx, store.UpdateFooterTextParams{Body: body, ID: id})
	if err := affected(n, err, "footer text", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) DeleteFooterText(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteFooterText(ctx, id)
	if err := affected(n, err, "footer text", id); err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

func (s *SnippetService) CountFooterTexts(ctx context.Context) (int64, error) {
	return s.queries.CountFooterTexts(ctx)
}

// Settings

// GenericSettings returns the install-wide settings. Unsaved settings are
// returned empty.
func (s *SnippetService) GenericSettings(ctx context.Context) (model.GenericSettings, error) {
	row, err := s.queries.GetGenericSettings(ctx)
	if store.IsNotFound(err) {
		return model.GenericSettings{}, nil
	}
	if err != nil {
		return model.GenericSettings{}, fmt.Errorf("getting generic settings: %w", err)
	}
	return model.GenericSettings{
		TwitterURL:      row.TwitterUrl,
		GitHubURL:       row.GithubUrl,
		OrganisationURL: row.OrganisationUrl,
	}, nil
}

func (s *SnippetService) SaveGenericSettings(ctx context.Context, g model.GenericSettings) error {
	_, err := s.queries.UpsertGenericSettings(ctx, store.UpsertGenericSettingsParams{
		TwitterUrl:      g.TwitterURL,
		GithubUrl:       g.GitHubURL,
		OrganisationUrl: g.OrganisationURL,
	})
	if err != nil {
		return fmt.Errorf("saving generic settings: %w", err)
	}
	s.changed(ctx)
	return nil
}

// SiteSettings returns the settings of a site, or the defaults when none
// were saved.
func (s *SnippetService) SiteSettings(ctx context.Context, siteID int64) (model.SiteSettings, error) {
	row, err := s.queries.GetSiteSettings(ctx, siteID)
	if store.IsNotFound(err) {
		return model.SiteSettings{SiteID: siteID, TitleSuffix: model.DefaultTitleSuffix}, nil
	}
	if err != nil {
		return model.SiteSettings{}, fmt.Errorf("getting settings of site %d: %w", siteID, err)
	}
	return model.SiteSettings{ID: row.ID, SiteID: row.SiteID, TitleSuffix: row.TitleSuffix}, nil
}

func (s *SnippetService) SaveSiteSettings(ctx context.Context, settings model.SiteSettings) (model.SiteSettings, error) {
	row, err := s.queries.UpsertSiteSettings(ctx, store.UpsertSiteSettingsParams{
		SiteID:      settings.SiteID,
		TitleSuffix: settings.TitleSuffix,
	})
	if err != nil {
		return model.SiteSettings{}, fmt.Errorf("saving settings of site %d: %w", settings.SiteID, err)
	}
	s.changed(ctx)
	return model.SiteSettings{ID: row.ID, SiteID: row.SiteID, TitleSuffix: row.TitleSuffix}, nil
}

func toPerson(row store.Person) model.Person {
	return model.Person{
		ID:        row.ID,
		FirstName: row.FirstName,
		LastName:  row.LastName,
		JobTitle:  row.JobTitle,
		ImageID:   util.PtrFromNullInt64(row.ImageID),
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}
