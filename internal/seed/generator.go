// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seed fills the store with random bakery content for demos and
// load testing.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/bakery/internal/imaging"
	"github.com/olegiv/bakery/internal/model"
	"github.com/olegiv/bakery/internal/richtext"
	"github.com/olegiv/bakery/internal/service"
	"github.com/olegiv/bakery/internal/store"
	"github.com/olegiv/bakery/internal/util"
)

// Services are the writers the generator goes through, so every record
// passes the same validation and cache invalidation as any other write.
type Services struct {
	Pages    *service.PageService
	Media    *service.MediaService
	Snippets *service.SnippetService
	Sites    *service.SiteService
	Events   *service.EventService // optional; records each run in the event log
	Users    *service.UserService  // optional; pages are owned by OwnerUsername
}

// OwnerUsername owns generated pages when Services.Users is set.
const OwnerUsername = store.DefaultAdminUsername

// GeneratedCounts holds the counts of generated items
type GeneratedCounts struct {
	Countries        int
	BreadIngredients int
	BreadTypes       int
	People           int
	FooterTexts      int
	Images           int
	Documents        int
	BreadPages       int
	LocationPages    int
	BlogPages        int
	StandardPages    int
}

// Generator creates random content. It is not idempotent: every run adds
// new records.
type Generator struct {
	pages     *service.PageService
	media     *service.MediaService
	snippets  *service.SnippetService
	sites     *service.SiteService
	events    *service.EventService
	users     *service.UserService
	ownerID   *int64
	processor *imaging.Processor
	rnd       *rand.Rand
	logger    *slog.Logger
	now       func() time.Time
}

// NewGenerator creates a generator. A nil rnd is seeded from the clock.
func NewGenerator(svc Services, rnd *rand.Rand, logger *slog.Logger) *Generator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		pages:     svc.Pages,
		media:     svc.Media,
		snippets:  svc.Snippets,
		sites:     svc.Sites,
		events:    svc.Events,
		users:     svc.Users,
		processor: imaging.NewProcessor(imaging.DefaultQuality),
		rnd:       rnd,
		logger:    logger,
		now:       time.Now,
	}
}

// indexPages are the fixed containers the random pages are placed under.
type indexPages struct {
	home      *model.Page
	breads    *model.Page
	locations *model.Page
	blog      *model.Page
}

// snippetIDs collects the ids created in one run for page references.
type snippetIDs struct {
	countries   []int64
	ingredients []int64
	breadTypes  []int64
	people      []int64
	images      []int64
}

// Run creates imageCount images and as many documents, snippetCount of each
// snippet type and pageCount each of bread, location, blog and standard
// pages. The standard pages sit below one extra standard page under home.
func (g *Generator) Run(ctx context.Context, pageCount, snippetCount, imageCount int) (GeneratedCounts, error) {
	var counts GeneratedCounts
	if pageCount < 0 || snippetCount < 0 || imageCount < 0 {
		return counts, fmt.Errorf("counts must not be negative: %d, %d, %d", pageCount, snippetCount, imageCount)
	}

	if err := g.resolveOwner(ctx); err != nil {
		return counts, err
	}
	idx, err := g.ensureTree(ctx)
	if err != nil {
		return counts, fmt.Errorf("preparing page tree: %w", err)
	}

	var ids snippetIDs
	if err := g.createSnippets(ctx, snippetCount, &ids, &counts); err != nil {
		return counts, fmt.Errorf("creating snippets: %w", err)
	}
	if err := g.createMedia(ctx, imageCount, &ids, &counts); err != nil {
		return counts, fmt.Errorf("creating media: %w", err)
	}
	if err := g.createPages(ctx, pageCount, idx, ids, &counts); err != nil {
		return counts, fmt.Errorf("creating pages: %w", err)
	}

	pages := counts.BreadPages + counts.LocationPages + counts.BlogPages + counts.StandardPages
	g.logger.Info("random data created",
		"pages", pages,
		"snippets", snippetCount,
		"images", counts.Images,
		"category", model.EventCategorySeed)
	if g.events != nil {
		if err := g.events.LogInfo(ctx, model.EventCategorySeed, "Random data created", map[string]any{
			"pages":    pages,
			"snippets": snippetCount,
			"images":   counts.Images,
		}); err != nil {
			g.logger.Warn("recording seed run failed", "error", err, "category", model.EventCategorySeed)
		}
	}
	return counts, nil
}

// ensureTree returns home and the three index pages, creating whichever is
// missing, and makes sure a default site serves home.
func (g *Generator) ensureTree(ctx context.Context) (indexPages, error) {
	var idx indexPages
	var err error

	idx.home, err = g.ensureChild(ctx, model.RootPageID, model.NewPage("Home", &model.HomePage{
		HeroText: "Welcome to the bakery",
		HeroCTA:  "Learn more",
	}))
	if err != nil {
		return idx, err
	}
	idx.breads, err = g.ensureChild(ctx, idx.home.ID, model.NewPage("Breads", &model.BreadsIndexPage{
		Introduction: "Introduction to breads",
	}))
	if err != nil {
		return idx, err
	}
	idx.locations, err = g.ensureChild(ctx, idx.home.ID, model.NewPage("Locations", &model.LocationsIndexPage{
		Introduction: "Introduction to locations",
	}))
	if err != nil {
		return idx, err
	}
	idx.blog, err = g.ensureChild(ctx, idx.home.ID, model.NewPage("Blog", &model.BlogIndexPage{
		Introduction: "Introduction to blog",
	}))
	if err != nil {
		return idx, err
	}

	_, err = g.sites.Default(ctx)
	if store.IsNotFound(err) {
		_, err = g.sites.Create(ctx, model.Site{
			Hostname:      "localhost",
			Port:          80,
			SiteName:      "Bakery",
			RootPageID:    idx.home.ID,
			IsDefaultSite: true,
		})
	}
	return idx, err
}

// ensureChild returns the first child of parentID with p's type, inserting
// and publishing p when there is none.
func (g *Generator) ensureChild(ctx context.Context, parentID int64, p *model.Page) (*model.Page, error) {
	existing, err := g.pages.FirstChildOfType(ctx, parentID, p.Type())
	if err == nil {
		return existing, nil
	}
	if !store.IsNotFound(err) {
		return nil, err
	}
	return g.publish(ctx, parentID, p)
}

// resolveOwner looks up the owner of generated pages. A missing owner
// leaves pages unowned.
func (g *Generator) resolveOwner(ctx context.Context) error {
	if g.users == nil {
		return nil
	}
	u, err := g.users.ByUsername(ctx, OwnerUsername)
	if store.IsNotFound(err) {
		g.logger.Warn("page owner not found, pages stay unowned",
			"username", OwnerUsername, "category", model.EventCategorySeed)
		return nil
	}
	if err != nil {
		return fmt.Errorf("resolving page owner: %w", err)
	}
	g.ownerID = &u.ID
	return nil
}

// publish inserts p under parentID and publishes it through a revision.
func (g *Generator) publish(ctx context.Context, parentID int64, p *model.Page) (*model.Page, error) {
	if p.OwnerID == nil {
		p.OwnerID = g.ownerID
	}
	created, err := g.pages.Insert(ctx, parentID, p)
	if err != nil {
		return nil, err
	}
	if _, err := g.pages.Publish(ctx, created.ID, nil); err != nil {
		return nil, fmt.Errorf("publishing page %d: %w", created.ID, err)
	}
	return created, nil
}

func (g *Generator) createSnippets(ctx context.Context, n int, ids *snippetIDs, counts *GeneratedCounts) error {
	for range n {
		country, err := g.snippets.CreateCountry(ctx, g.randomElement(countries))
		if err != nil {
			return err
		}
		ids.countries = append(ids.countries, country.ID)
		counts.Countries++

		ingredient, err := g.snippets.CreateBreadIngredient(ctx, g.randomElement(ingredients))
		if err != nil {
			return err
		}
		ids.ingredients = append(ids.ingredients, ingredient.ID)
		counts.BreadIngredients++

		breadType, err := g.snippets.CreateBreadType(ctx, g.randomElement(adjectives)+" "+strings.ToLower(g.randomElement(breadNouns)))
		if err != nil {
			return err
		}
		ids.breadTypes = append(ids.breadTypes, breadType.ID)
		counts.BreadTypes++

		person, err := g.snippets.CreatePerson(ctx, model.Person{
			FirstName: g.randomElement(firstNames),
			LastName:  g.randomElement(lastNames),
			JobTitle:  g.randomElement(jobTitles),
		})
		if err != nil {
			return err
		}
		ids.people = append(ids.people, person.ID)
		counts.People++

		if _, err := g.snippets.CreateFooterText(ctx, "<p>"+g.sentence()+"</p>"); err != nil {
			return err
		}
		counts.FooterTexts++
	}
	return nil
}

func (g *Generator) createMedia(ctx context.Context, n int, ids *snippetIDs, counts *GeneratedCounts) error {
	for range n {
		title := g.randomElement(adjectives) + " " + g.randomElement(breadNouns)
		from := placeholderColors[g.rnd.Intn(len(placeholderColors))]
		to := placeholderColors[g.rnd.Intn(len(placeholderColors))]
		png, err := g.processor.Placeholder(160+g.rnd.Intn(160), 120+g.rnd.Intn(120), from, to)
		if err != nil {
			return err
		}
		img, err := g.media.CreateImage(ctx, service.Upload{
			Title:    title,
			Filename: util.Slugify(title) + ".png",
			Body:     bytes.NewReader(png.Data),
			Tags:     g.tags(),
		})
		if err != nil {
			return err
		}
		ids.images = append(ids.images, img.ID)
		counts.Images++

		if _, err := g.media.CreateDocument(ctx, service.Upload{
			Title:    title + " price list",
			Filename: util.Slugify(title) + "-prices.txt",
			Body:     strings.NewReader(strings.Join(g.lorem(1), "\n\n") + "\n"),
			Tags:     g.tags(),
		}); err != nil {
			return err
		}
		counts.Documents++
	}
	return nil
}

func (g *Generator) createPages(ctx context.Context, n int, idx indexPages, ids snippetIDs, counts *GeneratedCounts) error {
	for range n {
		title := g.randomElement(adjectives) + " " + g.randomElement(breadNouns)
		if _, err := g.publish(ctx, idx.breads.ID, g.page(title, &model.BreadPage{
			Introduction:  g.sentence(),
			ImageID:       g.randomID(ids.images),
			Body:          g.body(),
			OriginID:      g.randomID(ids.countries),
			BreadTypeID:   g.randomID(ids.breadTypes),
			IngredientIDs: g.subset(ids.ingredients, 3),
		})); err != nil {
			return err
		}
		counts.BreadPages++
	}

	for range n {
		street := g.randomElement(streets)
		if _, err := g.publish(ctx, idx.locations.ID, g.page(street+" Bakery", &model.LocationPage{
			Introduction:     g.sentence(),
			ImageID:          g.randomID(ids.images),
			Body:             g.body(),
			Address:          fmt.Sprintf("%d %s", 1+g.rnd.Intn(200), street),
			LatLong:          fmt.Sprintf("%.6f, %.6f", 47+g.rnd.Float64()*8, 6+g.rnd.Float64()*9),
			HoursOfOperation: openingHours(),
		})); err != nil {
			return err
		}
		counts.LocationPages++
	}

	for range n {
		date := model.DateOf(g.now().AddDate(0, 0, -g.rnd.Intn(365)))
		post, err := g.publish(ctx, idx.blog.ID, g.page(g.randomElement(adjectives)+" "+g.randomElement(breadNouns)+" Stories", &model.BlogPage{
			Introduction:  g.sentence(),
			ImageID:       g.randomID(ids.images),
			Body:          g.body(),
			Subtitle:      g.sentence(),
			DatePublished: &date,
		}))
		if err != nil {
			return err
		}
		if author := g.randomID(ids.people); author != nil {
			if err := g.pages.SetBlogAuthors(ctx, post.ID, []int64{*author}); err != nil {
				return err
			}
		}
		if err := g.pages.SetTags(ctx, post.ID, g.tags()); err != nil {
			return err
		}
		counts.BlogPages++
	}

	container, err := g.publish(ctx, idx.home.ID, g.page("Standard pages", &model.StandardPage{
		Introduction: "Pages about the bakery",
		Body:         g.body(),
	}))
	if err != nil {
		return err
	}
	counts.StandardPages++

	for range n {
		if _, err := g.publish(ctx, container.ID, g.page(g.randomElement(adjectives)+" "+g.randomElement(breadNouns)+" Guide", &model.StandardPage{
			Introduction: g.sentence(),
			ImageID:      g.randomID(ids.images),
			Body:         g.body(),
		})); err != nil {
			return err
		}
		counts.StandardPages++
	}
	return nil
}

// page builds a live page whose slug is unique across runs.
func (g *Generator) page(title string, content model.Content) *model.Page {
	p := model.NewPage(title, content)
	p.Slug = util.Slugify(title) + "-" + uuid.NewString()[:8]
	return p
}

func (g *Generator) body() richtext.Stream {
	var stream richtext.Stream
	for _, p := range g.lorem(2) {
		stream = append(stream, richtext.StringValue(richtext.BlockParagraph, "<p>"+p+"</p>"))
	}
	return stream
}

func (g *Generator) tags() []string {
	n := g.rnd.Intn(3) + 1
	seen := make(map[string]bool, n)
	var out []string
	for range n {
		t := g.randomElement(tagWords)
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// subset returns up to maxItems distinct random ids.
func (g *Generator) subset(ids []int64, maxItems int) []int64 {
	if len(ids) == 0 {
		return nil
	}
	n := min(g.rnd.Intn(maxItems)+1, len(ids))
	picked := make([]int64, 0, n)
	for _, i := range g.rnd.Perm(len(ids))[:n] {
		picked = append(picked, ids[i])
	}
	return picked
}

func openingHours() []model.OperatingHours {
	hours := make([]model.OperatingHours, 0, len(weekdays))
	for _, day := range weekdays {
		if day == "SUN" {
			hours = append(hours, model.OperatingHours{Day: day, Closed: true})
			continue
		}
		hours = append(hours, model.OperatingHours{Day: day, OpeningTime: "07:00", ClosingTime: "18:00"})
	}
	return hours
}
