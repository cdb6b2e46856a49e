// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package feed holds the pure view logic of the post feed: facet
// derivation, category/tag filtering, and pagination. Everything here
// operates on an already-loaded post list and performs no I/O.
package feed

import (
	"sort"
	"strings"

	"inkfeed/internal/models"
)

// DefaultPageSize is how many posts a feed page shows.
const DefaultPageSize = 5

// Facets derives the filter values from the loaded posts: the distinct
// set of categories and the union of all tag lists, each sorted. Used
// when the backend does not serve dedicated /categories and /tags
// endpoints.
func Facets(posts []models.Post) (categories, tags []string) {
	catSet := map[string]struct{}{}
	tagSet := map[string]struct{}{}

	for _, p := range posts {
		if c := strings.TrimSpace(p.Category); c != "" {
			catSet[c] = struct{}{}
		}
		for _, t := range p.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tagSet[t] = struct{}{}
			}
		}
	}

	for c := range catSet {
		categories = append(categories, c)
	}
	for t := range tagSet {
		tags = append(tags, t)
	}
	sort.Strings(categories)
	sort.Strings(tags)
	return categories, tags
}

// Filter returns the posts matching the active filter. Category and tag
// are mutually exclusive — the handlers clear one when the other is
// selected — so at most one of them is non-empty here; if both arrive
// anyway, the category wins. An empty filter returns the input unchanged.
func Filter(posts []models.Post, category, tag string) []models.Post {
	switch {
	case category != "":
		out := make([]models.Post, 0, len(posts))
		for _, p := range posts {
			if p.Category == category {
				out = append(out, p)
			}
		}
		return out
	case tag != "":
		out := make([]models.Post, 0, len(posts))
		for _, p := range posts {
			for _, t := range p.Tags {
				if t == tag {
					out = append(out, p)
					break
				}
			}
		}
		return out
	default:
		return posts
	}
}

// Paginate slices out one page (1-based) and reports the total page
// count. Out-of-range pages clamp to the nearest valid page; an empty
// list yields one empty page.
func Paginate(posts []models.Post, page, size int) ([]models.Post, int) {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := (len(posts) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := start + size
	if start > len(posts) {
		start = len(posts)
	}
	if end > len(posts) {
		end = len(posts)
	}

	return posts[start:end], totalPages
}
