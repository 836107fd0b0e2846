// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package seed

import (
	"image/color"
	"strings"
)

// Word lists for generating random content
var (
	adjectives = []string{
		"Crusty", "Golden", "Rustic", "Seeded", "Soft",
		"Dark", "Sweet", "Sour", "Nutty", "Airy",
		"Braided", "Toasted", "Malted", "Stone-baked", "Hearty",
	}

	breadNouns = []string{
		"Loaf", "Baguette", "Boule", "Bloomer", "Cob",
		"Ciabatta", "Focaccia", "Brioche", "Bagel", "Roll",
		"Pretzel", "Flatbread", "Pumpernickel", "Sourdough", "Batch",
	}

	ingredients = []string{
		"Rye flour", "Spelt flour", "Wheat flour", "Water", "Salt",
		"Yeast", "Sourdough starter", "Honey", "Butter", "Milk",
		"Caraway", "Sunflower seeds", "Oats", "Olive oil", "Malt",
	}

	countries = []string{
		"Germany", "France", "Italy", "Austria", "Poland",
		"Denmark", "Sweden", "Ireland", "Portugal", "Georgia",
		"Lebanon", "Morocco", "Mexico", "Japan", "Ethiopia",
	}

	firstNames = []string{
		"Ada", "Ben", "Clara", "David", "Elif",
		"Finn", "Greta", "Hugo", "Ines", "Jonas",
	}

	lastNames = []string{
		"Baker", "Miller", "Fischer", "Brandt", "Weber",
		"Keller", "Roth", "Lang", "Hoffmann", "Vogel",
	}

	jobTitles = []string{
		"Head baker", "Pastry chef", "Apprentice", "Shop manager", "Delivery driver",
	}

	streets = []string{
		"Mill Lane", "Oven Street", "Harvest Road", "Granary Way", "Wheatfield Close",
	}

	tagWords = []string{
		"rye", "sourdough", "wholegrain", "seasonal", "recipe",
		"news", "events", "baking", "flour", "crust",
	}

	weekdays = []string{
		"MON", "TUE", "WED", "THU", "FRI", "SAT", "SUN",
	}

	loremParagraphs = []string{
		"Lorem ipsum dolor sit amet, consectetur adipiscing elit. Sed do eiusmod tempor incididunt ut labore et dolore magna aliqua.",
		"Duis aute irure dolor in reprehenderit in voluptate velit esse cillum dolore eu fugiat nulla pariatur.",
		"Sed ut perspiciatis unde omnis iste natus error sit voluptatem accusantium doloremque laudantium, totam rem aperiam.",
		"Nemo enim ipsam voluptatem quia voluptas sit aspernatur aut odit aut fugit, sed quia consequuntur magni dolores eos.",
		"At vero eos et accusamus et iusto odio dignissimos ducimus qui blanditiis praesentium voluptatum deleniti atque corrupti.",
	}

	// Placeholder gradients for generated images
	placeholderColors = []color.NRGBA{
		{R: 222, G: 184, B: 135, A: 255}, // Wheat
		{R: 139, G: 90, B: 43, A: 255},   // Crust
		{R: 245, G: 222, B: 179, A: 255}, // Crumb
		{R: 101, G: 67, B: 33, A: 255},   // Rye
		{R: 210, G: 105, B: 30, A: 255},  // Toast
		{R: 255, G: 248, B: 220, A: 255}, // Flour
	}
)

// randomElement returns a random element from a string slice
func (g *Generator) randomElement(slice []string) string {
	return slice[g.rnd.Intn(len(slice))]
}

// randomID returns a random id from ids, or nil when ids is empty.
func (g *Generator) randomID(ids []int64) *int64 {
	if len(ids) == 0 {
		return nil
	}
	id := ids[g.rnd.Intn(len(ids))]
	return &id
}

// lorem returns between minParagraphs and minParagraphs+2 lorem ipsum paragraphs.
func (g *Generator) lorem(minParagraphs int) []string {
	n := g.rnd.Intn(3) + minParagraphs
	paragraphs := make([]string, 0, n)
	for range n {
		paragraphs = append(paragraphs, g.randomElement(loremParagraphs))
	}
	return paragraphs
}

func (g *Generator) sentence() string {
	p := g.randomElement(loremParagraphs)
	if i := strings.Index(p, "."); i > 0 {
		return p[:i+1]
	}
	return p
}
