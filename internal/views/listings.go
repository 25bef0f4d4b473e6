// Package views computes the read-side data shown on the farmer, buyer and
// admin dashboards. Every function is pure: it takes whole collections as
// loaded from the store and returns results in storage order.
package views

import (
	"strings"

	"github.com/iliyamo/farm-market/internal/model"
)

// ListingFilter is a conjunction of optional predicates. Zero values
// disable a predicate; Category "all" behaves like "".
type ListingFilter struct {
	ApprovedOnly bool
	OwnerID      string
	Search       string
	Category     string
	MinPrice     *float64
	MaxPrice     *float64
}

// Match reports whether c satisfies every enabled predicate.
func (f ListingFilter) Match(c model.Crop) bool {
	if f.ApprovedOnly && !c.IsApproved {
		return false
	}
	if f.OwnerID != "" && c.FarmerID != f.OwnerID {
		return false
	}
	if cat := strings.TrimSpace(f.Category); cat != "" && !strings.EqualFold(cat, "all") && c.Category != cat {
		return false
	}
	if f.MinPrice != nil && c.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && c.Price > *f.MaxPrice {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		return containsFold(q, c.Name, c.Location, c.FarmerName, c.Category)
	}
	return true
}

// FilterListings returns the crops matching f.
func FilterListings(crops []model.Crop, f ListingFilter) []model.Crop {
	out := make([]model.Crop, 0, len(crops))
	for _, c := range crops {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

// Categories lists the distinct categories of crops in first-seen order.
func Categories(crops []model.Crop) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, c := range crops {
		if c.Category == "" || seen[c.Category] {
			continue
		}
		seen[c.Category] = true
		out = append(out, c.Category)
	}
	return out
}

// SearchListings is the admin listing search: name or farmer name.
func SearchListings(crops []model.Crop, term string) []model.Crop {
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return crops
	}
	out := make([]model.Crop, 0, len(crops))
	for _, c := range crops {
		if containsFold(q, c.Name, c.FarmerName) {
			out = append(out, c)
		}
	}
	return out
}

// SearchUsers is the admin user search: name or email.
func SearchUsers(users []model.User, term string) []model.User {
	q := strings.ToLower(strings.TrimSpace(term))
	if q == "" {
		return users
	}
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if containsFold(q, u.Name, u.Email) {
			out = append(out, u)
		}
	}
	return out
}

// containsFold reports whether any field contains the lower-cased needle.
func containsFold(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
