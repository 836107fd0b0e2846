// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/olegiv/bakery/internal/cache"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/store"
	"github.com/olegiv/bakery/internal/tree"
	"github.com/olegiv/bakery/internal/util"
)

// DefaultLocale is the language of pages created without one.
const DefaultLocale = "en"

// BreadsPerPage is the page size of the breads index.
const BreadsPerPage = 12

// PageService maintains the page tree.
type PageService struct {
	db      *sql.DB
	queries *store.Queries
	cache   cache.Cache
	logger  *slog.Logger
	now     clock
}

// NewPageService creates a page service. c may be nil.
func NewPageService(db *sql.DB, c cache.Cache, logger *slog.Logger) *PageService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageService{
		db:      db,
		queries: store.New(db),
		cache:   c,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the page with the given id.
func (s *PageService) Get(ctx context.Context, id int64) (*model.Page, error) {
	row, err := s.queries.GetPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting page %d: %w", id, err)
	}
	return toPage(row)
}

// Root returns the tree root.
func (s *PageService) Root(ctx context.Context) (*model.Page, error) {
	return s.Get(ctx, model.RootPageID)
}

// ChildBySlug returns the child of parentID with the given slug.
func (s *PageService) ChildBySlug(ctx context.Context, parentID int64, slug string) (*model.Page, error) {
	row, err := s.queries.GetChildBySlug(ctx, store.GetChildBySlugParams{ParentID: parentID, Slug: slug})
	if err != nil {
		return nil, fmt.Errorf("getting child %q of page %d: %w", slug, parentID, err)
	}
	return toPage(row)
}

// FirstChildOfType returns the first child of parentID with type t.
func (s *PageService) FirstChildOfType(ctx context.Context, parentID int64, t model.PageType) (*model.Page, error) {
	row, err := s.queries.GetFirstChildByType(ctx, store.GetFirstChildByTypeParams{ParentID: parentID, PageType: string(t)})
	if err != nil {
		return nil, fmt.Errorf("getting %s child of page %d: %w", t, parentID, err)
	}
	return toPage(row)
}

// Insert validates p and adds it as the last child of parentID. The path is
// computed inside the transaction, so concurrent inserts under one parent
// get distinct ordinals. On success p is updated in place and returned.
func (s *PageService) Insert(ctx context.Context, parentID int64, p *model.Page) (*model.Page, error) {
	if err := s.prepare(p); err != nil {
		return nil, err
	}
	locale, err := localeCode(p)
	if err != nil {
		return nil, err
	}
	content, err := model.EncodeContent(p.Content)
	if err != nil {
		return nil, err
	}
	if p.TranslationKey == "" {
		p.TranslationKey = uuid.NewString()
	}
	now := s.now().UTC()

	var id int64
	err = store.InTx(ctx, s.db, func(q *store.Queries) error {
		parent, err := q.GetPage(ctx, parentID)
		if err != nil {
			return fmt.Errorf("getting parent page %d: %w", parentID, err)
		}
		if err := checkRefs(ctx, q, p.Content); err != nil {
			return err
		}
		localeID, err := q.GetLocaleID(ctx, locale)
		if store.IsNotFound(err) {
			return &model.FieldError{Type: p.Type(), Field: "locale", Reason: fmt.Sprintf("%q is not configured", locale)}
		}
		if err != nil {
			return err
		}
		last, err := q.GetLastChildPath(ctx, parentID)
		if err != nil {
			return err
		}
		path, err := tree.NextChild(parent.Path, last)
		if err != nil {
			return fmt.Errorf("allocating path under page %d: %w", parentID, err)
		}

		id, err = q.CreatePage(ctx, store.CreatePageParams{
			ParentID:          util.NullInt64FromValue(parentID),
			Path:              path,
			PageType:          string(p.Type()),
			Title:             p.Title,
			Slug:              p.Slug,
			Content:           content,
			Live:              p.Live,
			SeoTitle:          p.SeoTitle,
			SearchDescription: p.SearchDescription,
			ShowInMenus:       p.ShowInMenus,
			LocaleID:          localeID,
			AliasOfID:         util.NullInt64FromPtr(p.AliasOfID),
			TranslationKey:    p.TranslationKey,
			OwnerID:           util.NullInt64FromPtr(p.OwnerID),
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if err != nil {
			return fmt.Errorf("creating page %q: %w", p.Title, err)
		}
		if err := q.AddNumchild(ctx, store.AddNumchildParams{Delta: 1, ID: parentID}); err != nil {
			return err
		}
		return syncIngredients(ctx, q, id, p.Content)
	})
	if err != nil {
		return nil, err
	}

	invalidate(ctx, s.cache, s.logger)
	s.logger.Debug("page created", "id", id, "type", p.Type(), "parent", parentID, "category", model.EventCategoryPage)

	created, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	*p = *created
	return p, nil
}

// prepare validates p and fills in derived fields.
func (s *PageService) prepare(p *model.Page) error {
	if err := model.Validate(p); err != nil {
		return err
	}
	p.Slug = strings.TrimSpace(p.Slug)
	if p.Slug == "" {
		p.Slug = util.Slugify(p.Title)
	}
	if p.Slug == "" {
		return &model.RequiredFieldError{Type: p.Type(), Field: "slug"}
	}
	model.SanitizeBodies(p.Content)
	return nil
}

func localeCode(p *model.Page) (string, error) {
	if p.Locale == "" {
		return DefaultLocale, nil
	}
	tag, err := language.Parse(p.Locale)
	if err != nil {
		return "", &model.FieldError{Type: p.Type(), Field: "locale", Reason: fmt.Sprintf("%q is not a language tag", p.Locale)}
	}
	base, _ := tag.Base()
	return base.String(), nil
}

// ChildrenOf returns the direct children of id in insertion order.
func (s *PageService) ChildrenOf(ctx context.Context, id int64) ([]*model.Page, error) {
	rows, err := s.queries.ListChildren(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("listing children of page %d: %w", id, err)
	}
	return toPages(rows)
}

// DescendantsOf returns every page below id in tree order.
func (s *PageService) DescendantsOf(ctx context.Context, id int64) ([]*model.Page, error) {
	page, err := s.queries.GetPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting page %d: %w", id, err)
	}
	rows, err := s.queries.ListDescendants(ctx, page.Path)
	if err != nil {
		return nil, fmt.Errorf("listing descendants of page %d: %w", id, err)
	}
	return toPages(rows)
}

// Parent returns the parent of id, or nil for the root.
func (s *PageService) Parent(ctx context.Context, id int64) (*model.Page, error) {
	page, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if page.IsRoot() {
		return nil, nil
	}
	return s.Get(ctx, page.ParentID)
}

// Ancestors returns the pages above id, root first.
func (s *PageService) Ancestors(ctx context.Context, id int64) ([]*model.Page, error) {
	page, err := s.queries.GetPage(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting page %d: %w", id, err)
	}
	paths := tree.Ancestors(page.Path)
	pages := make([]*model.Page, 0, len(paths))
	for _, path := range paths {
		row, err := s.queries.GetPageByPath(ctx, path)
		if err != nil {
			return nil, fmt.Errorf("getting ancestor %s: %w", path, err)
		}
		p, err := toPage(row)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

// Update loads id, applies fn and saves the result in place. The edited page
// is validated again before it is written.
func (s *PageService) Update(ctx context.Context, id int64, fn func(*model.Page) error) (*model.Page, error) {
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		row, err := q.GetPage(ctx, id)
		if err != nil {
			return fmt.Errorf("getting page %d: %w", id, err)
		}
		page, err := toPage(row)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
		if page.Type() != model.PageType(row.PageType) {
			return fmt.Errorf("%w: page type cannot change", model.ErrInvalidField)
		}
		if err := s.prepare(page); err != nil {
			return err
		}
		if err := checkRefs(ctx, q, page.Content); err != nil {
			return err
		}
		if err := writePage(ctx, q, page, row.HasUnpublishedChanges, s.now().UTC()); err != nil {
			return err
		}
		return syncIngredients(ctx, q, id, page.Content)
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.logger)
	return s.Get(ctx, id)
}

// Move reparents id and its subtree under newParentID as the last child.
func (s *PageService) Move(ctx context.Context, id, newParentID int64) error {
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		page, err := q.GetPage(ctx, id)
		if err != nil {
			return fmt.Errorf("getting page %d: %w", id, err)
		}
		if tree.Depth(page.Path) == 1 {
			return ErrRootPage
		}
		parent, err := q.GetPage(ctx, newParentID)
		if err != nil {
			return fmt.Errorf("getting target page %d: %w", newParentID, err)
		}
		if page.ParentID.Int64 == newParentID {
			return nil
		}
		if parent.Path == page.Path || tree.IsDescendant(parent.Path, page.Path) {
			return ErrInvalidMove
		}
		_, err = q.GetChildBySlug(ctx, store.GetChildBySlugParams{ParentID: newParentID, Slug: page.Slug})
		if err == nil {
			return fmt.Errorf("%w: slug %q is already used under page %d", store.ErrIntegrityViolation, page.Slug, newParentID)
		}
		if !store.IsNotFound(err) {
			return err
		}

		last, err := q.GetLastChildPath(ctx, newParentID)
		if err != nil {
			return err
		}
		path, err := tree.NextChild(parent.Path, last)
		if err != nil {
			return fmt.Errorf("allocating path under page %d: %w", newParentID, err)
		}
		if _, err := q.RewriteSubtreePath(ctx, store.RewriteSubtreePathParams{NewPrefix: path, OldPrefix: page.Path}); err != nil {
			return err
		}
		if err := q.SetPageParent(ctx, store.SetPageParentParams{ParentID: newParentID, UpdatedAt: s.now().UTC(), ID: id}); err != nil {
			return err
		}
		if err := q.AddNumchild(ctx, store.AddNumchildParams{Delta: -1, ID: page.ParentID.Int64}); err != nil {
			return err
		}
		return q.AddNumchild(ctx, store.AddNumchildParams{Delta: 1, ID: newParentID})
	})
	if err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger)
	s.logger.Info("page moved", "id", id, "parent", newParentID, "category", model.EventCategoryPage)
	return nil
}

// Delete removes id and all of its descendants.
func (s *PageService) Delete(ctx context.Context, id int64) error {
	var removed int64
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		page, err := q.GetPage(ctx, id)
		if err != nil {
			return fmt.Errorf("getting page %d: %w", id, err)
		}
		if tree.Depth(page.Path) == 1 {
			return ErrRootPage
		}
		subtree, err := q.ListDescendants(ctx, page.Path)
		if err != nil {
			return err
		}
		for _, p := range append(subtree, page) {
			if err := q.ClearTaggings(ctx, store.ObjectRef{ObjectType: model.TagObjectPage, ObjectID: p.ID}); err != nil {
				return err
			}
		}
		removed, err = q.DeleteSubtree(ctx, page.Path)
		if err != nil {
			return fmt.Errorf("deleting page %d: %w", id, err)
		}
		return q.AddNumchild(ctx, store.AddNumchildParams{Delta: -1, ID: page.ParentID.Int64})
	})
	if err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger)
	s.logger.Info("page deleted", "id", id, "removed", removed, "category", model.EventCategoryPage)
	return nil
}

// Publish stores a revision of the page's current state and makes it live.
func (s *PageService) Publish(ctx context.Context, id int64, userID *int64) (*model.Revision, error) {
	var rev *model.Revision
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		row, err := q.GetPage(ctx, id)
		if err != nil {
			return fmt.Errorf("getting page %d: %w", id, err)
		}
		page, err := toPage(row)
		if err != nil {
			return err
		}
		rev, err = s.createRevision(ctx, q, page, userID)
		if err != nil {
			return err
		}
		return q.PublishPage(ctx, store.PublishPageParams{PublishedAt: rev.CreatedAt, LiveRevisionID: rev.ID, ID: id})
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.logger)
	return rev, nil
}

// SaveRevision records an edited draft of id without changing the live
// content. The page is flagged as having unpublished changes.
func (s *PageService) SaveRevision(ctx context.Context, id int64, userID *int64, fn func(*model.Page) error) (*model.Revision, error) {
	var rev *model.Revision
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		row, err := q.GetPage(ctx, id)
		if err != nil {
			return fmt.Errorf("getting page %d: %w", id, err)
		}
		draft, err := toPage(row)
		if err != nil {
			return err
		}
		if err := fn(draft); err != nil {
			return err
		}
		if err := s.prepare(draft); err != nil {
			return err
		}
		if err := checkRefs(ctx, q, draft.Content); err != nil {
			return err
		}
		rev, err = s.createRevision(ctx, q, draft, userID)
		if err != nil {
			return err
		}
		current, err := toPage(row)
		if err != nil {
			return err
		}
		return writePage(ctx, q, current, true, rev.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return rev, nil
}

// PublishRevision applies a stored revision to its page and makes it live.
func (s *PageService) PublishRevision(ctx context.Context, revisionID int64) (*model.Page, error) {
	var pageID int64
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		rev, err := q.GetPageRevision(ctx, revisionID)
		if err != nil {
			return fmt.Errorf("getting revision %d: %w", revisionID, err)
		}
		pageID = rev.PageID
		row, err := q.GetPage(ctx, rev.PageID)
		if err != nil {
			return fmt.Errorf("getting page %d: %w", rev.PageID, err)
		}
		page, err := toPage(row)
		if err != nil {
			return err
		}
		var snap model.Snapshot
		if err := json.Unmarshal([]byte(rev.Content), &snap); err != nil {
			return fmt.Errorf("decoding revision %d: %w", revisionID, err)
		}
		if err := snap.Apply(page); err != nil {
			return err
		}
		if err := checkRefs(ctx, q, page.Content); err != nil {
			return err
		}
		now := s.now().UTC()
		if err := writePage(ctx, q, page, false, now); err != nil {
			return err
		}
		if err := syncIngredients(ctx, q, page.ID, page.Content); err != nil {
			return err
		}
		return q.PublishPage(ctx, store.PublishPageParams{PublishedAt: now, LiveRevisionID: rev.ID, ID: page.ID})
	})
	if err != nil {
		return nil, err
	}
	invalidate(ctx, s.cache, s.logger)
	return s.Get(ctx, pageID)
}

// Revision returns a stored revision.
func (s *PageService) Revision(ctx context.Context, id int64) (*model.Revision, error) {
	row, err := s.queries.GetPageRevision(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting revision %d: %w", id, err)
	}
	return toRevision(row)
}

// CountRevisions returns the number of revisions stored for a page.
func (s *PageService) CountRevisions(ctx context.Context, pageID int64) (int64, error) {
	return s.queries.CountPageRevisions(ctx, pageID)
}

// Unpublish takes id and its descendants offline.
func (s *PageService) Unpublish(ctx context.Context, id int64) error {
	page, err := s.queries.GetPage(ctx, id)
	if err != nil {
		return fmt.Errorf("getting page %d: %w", id, err)
	}
	if tree.Depth(page.Path) == 1 {
		return ErrRootPage
	}
	if _, err := s.queries.UnpublishSubtree(ctx, store.UnpublishSubtreeParams{UpdatedAt: s.now().UTC(), Path: page.Path}); err != nil {
		return fmt.Errorf("unpublishing page %d: %w", id, err)
	}
	invalidate(ctx, s.cache, s.logger)
	return nil
}

func (s *PageService) createRevision(ctx context.Context, q *store.Queries, page *model.Page, userID *int64) (*model.Revision, error) {
	snap, err := model.TakeSnapshot(page)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("encoding revision of page %d: %w", page.ID, err)
	}
	row, err := q.CreatePageRevision(ctx, store.CreatePageRevisionParams{
		PageID:    page.ID,
		UserID:    util.NullInt64FromPtr(userID),
		Content:   string(raw),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("creating revision of page %d: %w", page.ID, err)
	}
	return &model.Revision{
		ID:        row.ID,
		PageID:    row.PageID,
		UserID:    util.PtrFromNullInt64(row.UserID),
		CreatedAt: row.CreatedAt,
		Snapshot:  snap,
	}, nil
}

// BlogPosts returns the live blog pages below a blog index, newest first.
// Undated posts come last; ties are ordered by title.
func (s *PageService) BlogPosts(ctx context.Context, indexID int64) ([]*model.Page, error) {
	return s.liveDescendants(ctx, indexID, model.TypeBlogPage, s.queries.ListLiveDescendantsByDate)
}

// Locations returns the live location pages below a locations index, by title.
func (s *PageService) Locations(ctx context.Context, indexID int64) ([]*model.Page, error) {
	return s.liveDescendants(ctx, indexID, model.TypeLocationPage, s.queries.ListLiveDescendantsByType)
}

// BreadList is one page of the breads index.
type BreadList struct {
	Items    []*model.Page
	Number   int
	NumPages int
	Total    int
}

func (b BreadList) HasNext() bool     { return b.Number < b.NumPages }
func (b BreadList) HasPrevious() bool { return b.Number > 1 }

// Breads returns page number of the live breads below a breads index,
// BreadsPerPage at a time ordered by title. Numbers below 1 yield the first
// page and numbers past the end yield the last.
func (s *PageService) Breads(ctx context.Context, indexID int64, number int) (BreadList, error) {
	all, err := s.liveDescendants(ctx, indexID, model.TypeBreadPage, s.queries.ListLiveDescendantsByType)
	if err != nil {
		return BreadList{}, err
	}
	numPages := max(1, (len(all)+BreadsPerPage-1)/BreadsPerPage)
	number = min(max(number, 1), numPages)
	start := (number - 1) * BreadsPerPage
	end := min(start+BreadsPerPage, len(all))
	return BreadList{
		Items:    all[start:end],
		Number:   number,
		NumPages: numPages,
		Total:    len(all),
	}, nil
}

type listFunc func(context.Context, store.ListLiveDescendantsByTypeParams) ([]store.Page, error)

func (s *PageService) liveDescendants(ctx context.Context, indexID int64, t model.PageType, list listFunc) ([]*model.Page, error) {
	index, err := s.queries.GetPage(ctx, indexID)
	if err != nil {
		return nil, fmt.Errorf("getting index page %d: %w", indexID, err)
	}
	rows, err := list(ctx, store.ListLiveDescendantsByTypeParams{Path: index.Path, PageType: string(t)})
	if err != nil {
		return nil, fmt.Errorf("listing %s below page %d: %w", t, indexID, err)
	}
	return toPages(rows)
}

// SetBlogAuthors replaces the authors of a blog page, keeping the given order.
func (s *PageService) SetBlogAuthors(ctx context.Context, pageID int64, personIDs []int64) error {
	err := store.InTx(ctx, s.db, func(q *store.Queries) error {
		page, err := q.GetPage(ctx, pageID)
		if err != nil {
			return fmt.Errorf("getting page %d: %w", pageID, err)
		}
		if model.PageType(page.PageType) != model.TypeBlogPage {
			return &model.FieldError{Type: model.PageType(page.PageType), Field: "authors", Reason: "is only available on blog pages"}
		}
		if err := q.ClearBlogAuthors(ctx, pageID); err != nil {
			return err
		}
		for i, personID := range personIDs {
			if _, err := q.GetPerson(ctx, personID); err != nil {
				if store.IsNotFound(err) {
					return &ReferenceError{Field: "authors", Kind: model.RefPerson, ID: personID}
				}
				return err
			}
			if _, err := q.CreateBlogPersonRelationship(ctx, store.CreateBlogPersonRelationshipParams{
				PageID:    pageID,
				PersonID:  personID,
				SortOrder: int64(i),
			}); err != nil {
				return fmt.Errorf("adding author %d to page %d: %w", personID, pageID, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger)
	return nil
}

// BlogAuthors returns the authors of a blog page in display order.
func (s *PageService) BlogAuthors(ctx context.Context, pageID int64) ([]model.Person, error) {
	rows, err := s.queries.ListBlogAuthors(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing authors of page %d: %w", pageID, err)
	}
	people := make([]model.Person, len(rows))
	for i, row := range rows {
		people[i] = toPerson(row)
	}
	return people, nil
}

// SetTags replaces the tags of a page.
func (s *PageService) SetTags(ctx context.Context, pageID int64, names []string) error {
	if _, err := s.queries.GetPage(ctx, pageID); err != nil {
		return fmt.Errorf("getting page %d: %w", pageID, err)
	}
	if err := setTags(ctx, s.db, model.TagObjectPage, pageID, names); err != nil {
		return err
	}
	invalidate(ctx, s.cache, s.logger)
	return nil
}

// Tags returns the tag names of a page, sorted.
func (s *PageService) Tags(ctx context.Context, pageID int64) ([]string, error) {
	return s.queries.ListTagNames(ctx, store.ObjectRef{ObjectType: model.TagObjectPage, ObjectID: pageID})
}

// BreadIngredients returns the ingredients linked to a bread page.
func (s *PageService) BreadIngredients(ctx context.Context, pageID int64) ([]model.BreadIngredient, error) {
	rows, err := s.queries.ListBreadPageIngredients(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("listing ingredients of page %d: %w", pageID, err)
	}
	items := make([]model.BreadIngredient, len(rows))
	for i, row := range rows {
		items[i] = model.BreadIngredient{ID: row.ID, Name: row.Name}
	}
	return items, nil
}

// ListByType returns every page of type t in tree order.
func (s *PageService) ListByType(ctx context.Context, t model.PageType) ([]*model.Page, error) {
	rows, err := s.queries.ListPagesByType(ctx, string(t))
	if err != nil {
		return nil, fmt.Errorf("listing %s pages: %w", t, err)
	}
	return toPages(rows)
}

// Count returns the number of pages, the root included.
func (s *PageService) Count(ctx context.Context) (int64, error) {
	return s.queries.CountPages(ctx)
}

// CountByType returns the number of pages of type t.
func (s *PageService) CountByType(ctx context.Context, t model.PageType) (int64, error) {
	return s.queries.CountPagesByType(ctx, string(t))
}

// ListLive returns one page of live, non-root pages matching f and the
// number of matches before paging.
func (s *PageService) ListLive(ctx context.Context, f store.PageFilter) ([]*model.Page, int64, error) {
	rows, total, err := s.queries.ListLivePages(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("listing live pages: %w", err)
	}
	pages, err := toPages(rows)
	if err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

// SlugsByPath returns the slugs of the pages at paths, keyed by path.
// Missing paths are left out.
func (s *PageService) SlugsByPath(ctx context.Context, paths []string) (map[string]string, error) {
	slugs, err := s.queries.PathSlugs(ctx, paths)
	if err != nil {
		return nil, fmt.Errorf("loading slugs: %w", err)
	}
	return slugs, nil
}

func writePage(ctx context.Context, q *store.Queries, p *model.Page, unpublished bool, now time.Time) error {
	content, err := model.EncodeContent(p.Content)
	if err != nil {
		return err
	}
	err = q.UpdatePage(ctx, store.UpdatePageParams{
		Title:                 p.Title,
		Slug:                  p.Slug,
		Content:               content,
		SeoTitle:              p.SeoTitle,
		SearchDescription:     p.SearchDescription,
		ShowInMenus:           p.ShowInMenus,
		HasUnpublishedChanges: unpublished,
		UpdatedAt:             now,
		ID:                    p.ID,
	})
	if err != nil {
		return fmt.Errorf("updating page %d: %w", p.ID, err)
	}
	return nil
}

// syncIngredients mirrors a bread page's ingredient list into the join table.
func syncIngredients(ctx context.Context, q *store.Queries, pageID int64, c model.Content) error {
	bread, ok := c.(*model.BreadPage)
	if !ok {
		return nil
	}
	if err := q.ClearBreadPageIngredients(ctx, pageID); err != nil {
		return err
	}
	for i, id := range bread.IngredientIDs {
		err := q.AddBreadPageIngredient(ctx, store.AddBreadPageIngredientParams{
			PageID:       pageID,
			IngredientID: id,
			SortOrder:    int64(i),
		})
		if err != nil {
			return fmt.Errorf("linking ingredient %d: %w", id, err)
		}
	}
	return nil
}

func toPage(row store.Page) (*model.Page, error) {
	content, err := model.DecodeContent(model.PageType(row.PageType), row.Content)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", row.ID, err)
	}
	return &model.Page{
		ID:                    row.ID,
		ParentID:              row.ParentID.Int64,
		Path:                  row.Path,
		Numchild:              row.Numchild,
		Title:                 row.Title,
		Slug:                  row.Slug,
		Live:                  row.Live,
		HasUnpublishedChanges: row.HasUnpublishedChanges,
		FirstPublishedAt:      util.PtrFromNullTime(row.FirstPublishedAt),
		LastPublishedAt:       util.PtrFromNullTime(row.LastPublishedAt),
		LiveRevisionID:        util.PtrFromNullInt64(row.LiveRevisionID),
		SeoTitle:              row.SeoTitle,
		SearchDescription:     row.SearchDescription,
		ShowInMenus:           row.ShowInMenus,
		Locale:                row.LocaleCode,
		AliasOfID:             util.PtrFromNullInt64(row.AliasOfID),
		TranslationKey:        row.TranslationKey,
		OwnerID:               util.PtrFromNullInt64(row.OwnerID),
		CreatedAt:             row.CreatedAt,
		UpdatedAt:             row.UpdatedAt,
		Content:               content,
	}, nil
}

func toPages(rows []store.Page) ([]*model.Page, error) {
	pages := make([]*model.Page, 0, len(rows))
	for _, row := range rows {
		p, err := toPage(row)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, nil
}

func toRevision(row store.PageRevision) (*model.Revision, error) {
	var snap model.Snapshot
	if err := json.Unmarshal([]byte(row.Content), &snap); err != nil {
		return nil, fmt.Errorf("decoding revision %d: %w", row.ID, err)
	}
	return &model.Revision{
		ID:        row.ID,
		PageID:    row.PageID,
		UserID:    util.PtrFromNullInt64(row.UserID),
		CreatedAt: row.CreatedAt,
		Snapshot:  snap,
	}, nil
}

// IsValidationError reports whether err was caused by page input rather
// than by the store.
func IsValidationError(err error) bool {
	return errors.Is(err, model.ErrRequiredFieldMissing) ||
		errors.Is(err, model.ErrInvalidField) ||
		errors.Is(err, model.ErrUnknownPageType)
}
