// Package routes maps navigation paths to access tiers. Classification is
// pure and total: every path maps to exactly one tier, with the authenticated
// tier as the catch-all so unknown paths fail closed.
package routes

import "strings"

// Tier is the access-control classification of a path.
type Tier int

const (
	// TierRegistration covers the registration/profile-setup flow. It needs a
	// settled (non-hydrating) session but no particular role.
	TierRegistration Tier = iota
	// TierPublic covers onboarding, login, marketing/landing and payment
	// pages, rendered for anyone.
	TierPublic
	// TierCoach covers dashboard areas that require an authenticated coach.
	TierCoach
	// TierAuthenticated covers everything else: any authenticated user may
	// proceed, anonymous visitors are redirected to the public entry.
	TierAuthenticated
)

func (t Tier) String() string {
	switch t {
	case TierRegistration:
		return "registration"
	case TierPublic:
		return "public"
	case TierCoach:
		return "coach"
	default:
		return "authenticated"
	}
}

// Pattern matches a path either exactly or as a segment-aligned prefix.
type Pattern struct {
	Path  string
	Exact bool
	Tier  Tier
}

// Table is the fixed pattern set for one application. The consumer app and the
// coach dashboard share the classifier and differ only in their tables.
type Table struct {
	App string
	// PublicEntry is where anonymous visitors land when they hit a protected
	// path.
	PublicEntry string
	// MemberHome is where authenticated non-coaches land when they hit a
	// coach-only path.
	MemberHome string
	Patterns   []Pattern
}

// Classify maps a path to its tier. More specific patterns win: an exact match
// beats a prefix of the same length, and a longer prefix beats a shorter one,
// so a coach's public landing page under /coach/<slug> is never swallowed by
// the /coach/dashboard tier. Malformed paths classify as TierAuthenticated.
func (t *Table) Classify(path string) Tier {
	if path == "" || !strings.HasPrefix(path, "/") || strings.ContainsRune(path, 0) {
		return TierAuthenticated
	}
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}

	best := -1
	tier := TierAuthenticated
	for _, p := range t.Patterns {
		if !p.matches(path) {
			continue
		}
		score := len(p.Path) * 2
		if p.Exact {
			score++
		}
		if score > best {
			best = score
			tier = p.Tier
		}
	}
	return tier
}

func (p Pattern) matches(path string) bool {
	if path == p.Path {
		return true
	}
	if p.Exact {
		return false
	}
	return strings.HasPrefix(path, p.Path+"/")
}
