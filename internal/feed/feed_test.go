// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package feed

import (
	"reflect"
	"testing"

	"inkfeed/internal/models"
)

func samplePosts() []models.Post {
	return []models.Post{
		{ID: "1", Title: "One", Category: "Tech", Tags: []string{"go", "web"}},
		{ID: "2", Title: "Two", Category: "Travel", Tags: []string{"asia"}},
		{ID: "3", Title: "Three", Category: "Tech", Tags: []string{"web"}},
		{ID: "4", Title: "Four", Tags: []string{"go"}},
	}
}

func TestFacets(t *testing.T) {
	categories, tags := Facets(samplePosts())

	if want := []string{"Tech", "Travel"}; !reflect.DeepEqual(categories, want) {
		t.Errorf("categories = %v, want %v", categories, want)
	}
	if want := []string{"asia", "go", "web"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestFacetsSkipsBlankValues(t *testing.T) {
	posts := []models.Post{
		{Category: "  ", Tags: []string{"", "  ", "go"}},
	}
	categories, tags := Facets(posts)

	if len(categories) != 0 {
		t.Errorf("categories = %v, want none", categories)
	}
	if want := []string{"go"}; !reflect.DeepEqual(tags, want) {
		t.Errorf("tags = %v, want %v", tags, want)
	}
}

func TestFilter(t *testing.T) {
	posts := samplePosts()

	tests := []struct {
		name     string
		category string
		tag      string
		wantIDs  []models.FlexID
	}{
		{"no filter", "", "", []models.FlexID{"1", "2", "3", "4"}},
		{"by category", "Tech", "", []models.FlexID{"1", "3"}},
		{"by tag", "", "go", []models.FlexID{"1", "4"}},
		{"category wins over tag", "Travel", "go", []models.FlexID{"2"}},
		{"unknown category", "Food", "", nil},
		{"unknown tag", "", "rust", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(posts, tt.category, tt.tag)
			var ids []models.FlexID
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("Filter(%q, %q) = %v, want %v", tt.category, tt.tag, ids, tt.wantIDs)
			}
		})
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	posts := samplePosts()
	Filter(posts, "Tech", "")

	if !reflect.DeepEqual(posts, samplePosts()) {
		t.Error("input slice was mutated")
	}
}

func TestPaginate(t *testing.T) {
	posts := make([]models.Post, 12)

	tests := []struct {
		name           string
		page, size     int
		wantLen        int
		wantTotalPages int
	}{
		{"first page", 1, 5, 5, 3},
		{"middle page", 2, 5, 5, 3},
		{"last partial page", 3, 5, 2, 3},
		{"page below range clamps to first", 0, 5, 5, 3},
		{"page above range clamps to last", 99, 5, 2, 3},
		{"zero size uses default", 1, 0, DefaultPageSize, 3},
		{"exact fit", 2, 6, 6, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, totalPages := Paginate(posts, tt.page, tt.size)
			if len(got) != tt.wantLen {
				t.Errorf("len = %d, want %d", len(got), tt.wantLen)
			}
			if totalPages != tt.wantTotalPages {
				t.Errorf("totalPages = %d, want %d", totalPages, tt.wantTotalPages)
			}
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	got, totalPages := Paginate(nil, 1, 5)
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
	if totalPages != 1 {
		t.Errorf("totalPages = %d, want 1", totalPages)
	}
}
