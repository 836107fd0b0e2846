// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/bakery/internal/auth"
	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/store"
)

// ErrInvalidCredentials is returned by Authenticate for an unknown user, a
// wrong password or an inactive account.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SiteService manages sites and their root pages.
type SiteService struct {
	db      *sql.DB
	queries *store.Queries
	cache   cache.Cache
	logger  *slog.Logger
}

// NewSiteService creates a site service. Site changes move page URLs, so
// writes drop cached API details from c, which may be nil.
func NewSiteService(db *sql.DB, c cache.Cache, logger *slog.Logger) *SiteService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SiteService{db: db, queries: store.New(db), cache: c, logger: logger}
}

// Create stores a site. When the site is the default, any previous default
// loses the flag in the same transaction.
func (s *SiteService) Create(ctx context.Context, site model.Site) (model.Site, error) {
	if strings.TrimSpace(site.Hostname) == "" {
		return model.Site{}, fmt.Errorf("%w: site hostname", model.ErrRequiredFieldMissing)
	}
	if site.Port == 0 {
		site.Port = 80
	}
	var row store.Site
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		if _, err := q.GetPage(ctx, site.RootPageID); err != nil {
			if store.IsNotFound(err) {
				return &ReferenceError{Field: "root_page", Kind: model.RefPage, ID: site.RootPageID}
			}
			return err
		}
		if site.IsDefaultSite {
			if err := q.ClearDefaultSite(ctx); err != nil {
				return err
			}
		}
		var err error
		row, err = q.CreateSite(ctx, store.CreateSiteParams{
			Hostname:      site.Hostname,
			Port:          site.Port,
			SiteName:      site.SiteName,
			RootPageID:    site.RootPageID,
			IsDefaultSite: site.IsDefaultSite,
		})
		if err != nil {
			return fmt.Errorf("creating site %s: %w", site.Hostname, err)
		}
		return nil
	})
	if err != nil {
		return model.Site{}, err
	}
	invalidate(ctx, s.cache, s.logger)
	return toSite(row), nil
}

// Get returns a site.
func (s *SiteService) Get(ctx context.Context, id int64) (model.Site, error) {
	row, err := s.queries.GetSite(ctx, id)
	if err != nil {
		return model.Site{}, fmt.Errorf("getting site %d: %w", id, err)
	}
	return toSite(row), nil
}

// Default returns the default site.
func (s *SiteService) Default(ctx context.Context) (model.Site, error) {
	row, err := s.queries.GetDefaultSite(ctx)
	if err != nil {
		return model.Site{}, fmt.Errorf("getting default site: %w", err)
	}
	return toSite(row), nil
}

// SiteRoot is a site together with the tree path of its root page.
type SiteRoot struct {
	model.Site
	RootPath string
}

// Roots returns every site with the tree path of its root page, the default
// site first. Page URLs are built from the deepest root covering a page.
func (s *SiteService) Roots(ctx context.Context) ([]SiteRoot, error) {
	rows, err := s.queries.ListSiteRoots(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing site roots: %w", err)
	}
	roots := make([]SiteRoot, len(rows))
	for i, row := range rows {
		roots[i] = SiteRoot{Site: toSite(row.Site), RootPath: row.RootPath}
	}
	return roots, nil
}

func toSite(row store.Site) model.Site {
	return model.Site{
		ID:            row.ID,
		Hostname:      row.Hostname,
		Port:          row.Port,
		SiteName:      row.SiteName,
		RootPageID:    row.RootPageID,
		IsDefaultSite: row.IsDefaultSite,
	}
}

// UserService manages editor accounts and their approval tasks.
type UserService struct {
	queries *store.Queries
	now     clock
}

// NewUserService creates a user service.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{queries: store.New(db), now: time.Now}
}

// Create stores an active user with an argon2id password hash.
func (s *UserService) Create(ctx context.Context, u model.User, password string) (model.User, error) {
	if strings.TrimSpace(u.Username) == "" {
		return model.User{}, fmt.Errorf("%w: username", model.ErrRequiredFieldMissing)
	}
	if password == "" {
		return model.User{}, fmt.Errorf("%w: password", model.ErrRequiredFieldMissing)
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return model.User{}, fmt.Errorf("hashing password: %w", err)
	}
	row, err := s.queries.CreateUser(ctx, store.CreateUserParams{
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: hash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsActive:     true,
		IsSuperuser:  u.IsSuperuser,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return model.User{}, fmt.Errorf("creating user %s: %w", u.Username, err)
	}
	return toUser(row), nil
}

// Get returns a user.
func (s *UserService) Get(ctx context.Context, id int64) (model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return model.User{}, fmt.Errorf("getting user %d: %w", id, err)
	}
	return toUser(row), nil
}

// ByUsername returns the user with username.
func (s *UserService) ByUsername(ctx context.Context, username string) (model.User, error) {
	row, err := s.queries.GetUserByUsername(ctx, username)
	if err != nil {
		return model.User{}, fmt.Errorf("getting user %s: %w", username, err)
	}
	return toUser(row), nil
}

// Authenticate checks a username and password pair.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (model.User, error) {
	row, err := s.queries.GetUserByUsername(ctx, username)
	if store.IsNotFound(err) {
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user %s: %w", username, err)
	}
	ok, err := auth.CheckPassword(password, row.PasswordHash)
	if err != nil {
		return model.User{}, fmt.Errorf("checking password of %s: %w", username, err)
	}
	if !ok || !row.IsActive {
		return model.User{}, ErrInvalidCredentials
	}
	return toUser(row), nil
}

// Count returns the number of users.
func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.queries.CountUsers(ctx)
}

// CreateApprovalTask stores a workflow task assigned to userID.
func (s *UserService) CreateApprovalTask(ctx context.Context, name string, userID int64) (model.UserApprovalTask, error) {
	if strings.TrimSpace(name) == "" {
		return model.UserApprovalTask{}, fmt.Errorf("%w: task name", model.ErrRequiredFieldMissing)
	}
	row, err := s.queries.CreateUserApprovalTask(ctx, store.CreateUserApprovalTaskParams{
		Name:      name,
		Active:    true,
		UserID:    userID,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return model.UserApprovalTask{}, fmt.Errorf("creating approval task %q: %w", name, err)
	}
	return toTask(row), nil
}

// ApprovalTask returns a workflow task.
func (s *UserService) ApprovalTask(ctx context.Context, id int64) (model.UserApprovalTask, error) {
	row, err := s.queries.GetUserApprovalTask(ctx, id)
	if err != nil {
		return model.UserApprovalTask{}, fmt.Errorf("getting approval task %d: %w", id, err)
	}
	return toTask(row), nil
}

func toUser(row store.User) model.User {
	return model.User{
		ID:          row.ID,
		Username:    row.Username,
		Email:       row.Email,
		FirstName:   row.FirstName,
		LastName:    row.LastName,
		IsActive:    row.IsActive,
		IsSuperuser: row.IsSuperuser,
		CreatedAt:   row.CreatedAt,
	}
}

func toTask(row store.UserApprovalTask) model.UserApprovalTask {
	return model.UserApprovalTask{
		ID:        row.ID,
		Name:      row.Name,
		Active:    row.Active,
		UserID:    row.UserID,
		CreatedAt: row.CreatedAt,
	}
}
