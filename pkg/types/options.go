package types

import (
	"fmt"
	"sort"
	"strings"
)

// MatchMode governs which recipes qualify for a set of queried ingredients
type MatchMode string

const (
	// MatchAny qualifies recipes containing at least one queried ingredient
	MatchAny MatchMode = "any"
	// MatchAll qualifies recipes containing every queried ingredient
	MatchAll MatchMode = "all"
	// MatchExact qualifies recipes whose full ingredient set equals the
	// queried set - a recipe with extra ingredients never qualifies
	MatchExact MatchMode = "exact"
)

// RankMode selects the weighting strategy for the composite ranking score
type RankMode string

const (
	RankBalanced  RankMode = "balanced"  // relevance 60 / quality 30 / community 10
	RankSemantic  RankMode = "semantic"  // trust the similarity signal above all
	RankQuality   RankMode = "quality"   // editorial rating first
	RankPopular   RankMode = "popular"   // community signals first
	RankTrending  RankMode = "trending"  // community signals with recency decay
	RankDiscovery RankMode = "discovery" // down-weight popularity to surface less-seen recipes
)

// Scope identifies the requester for visibility filtering. A zero Scope is
// anonymous. This core never authenticates; it only consumes the identity
// resolved by the auth collaborator.
type Scope struct {
	RequesterID string
}

// Anonymous returns the scope used for unauthenticated requests
func Anonymous() Scope {
	return Scope{}
}

// IsAnonymous reports whether the scope carries no requester identity
func (s Scope) IsAnonymous() bool {
	return s.RequesterID == ""
}

// CanSee reports whether the scoped requester may see the recipe:
// public, system-authored, or self-owned.
func (s Scope) CanSee(r *Recipe) bool {
	if r.IsPublic || r.IsSystemRecipe {
		return true
	}
	return !s.IsAnonymous() && r.OwnerID == s.RequesterID
}

// CacheKeyPart returns the scope's contribution to cache keys. Two different
// identities must never share a cache entry.
func (s Scope) CacheKeyPart() string {
	if s.IsAnonymous() {
		return "anonymous"
	}
	return "user:" + s.RequesterID
}

// Search option defaults and bounds
const (
	DefaultLimit         = 20
	MaxLimit             = 100
	DefaultMinSimilarity = 0.3
)

// SearchOptions is the option bag shared by all search entry points
type SearchOptions struct {
	MatchMode MatchMode // ingredient search only
	RankMode  RankMode

	// Filters
	Cuisine     string
	Difficulty  string
	DietaryTags []string // a recipe passes if its tag set intersects this list

	Scope Scope

	// Pagination
	Limit  int
	Offset int

	// Thresholds
	MinMatchPercent float64 // ingredient search, 0-100
	MinSimilarity   float64 // semantic search, 0-1

	// WithBreakdown includes per-component score contributions in results
	WithBreakdown bool
}

// Normalize fills defaults and clamps bounds in place
func (o *SearchOptions) Normalize() {
	if o.MatchMode == "" {
		o.MatchMode = MatchAny
	}
	if o.RankMode == "" {
		o.RankMode = RankBalanced
	}
	if o.Limit <= 0 {
		o.Limit = DefaultLimit
	}
	if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	if o.MinSimilarity <= 0 {
		o.MinSimilarity = DefaultMinSimilarity
	}
}

// Validate checks option values after normalization
func (o *SearchOptions) Validate() error {
	switch o.MatchMode {
	case MatchAny, MatchAll, MatchExact:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidMatchMode, o.MatchMode)
	}
	switch o.RankMode {
	case RankBalanced, RankSemantic, RankQuality, RankPopular, RankTrending, RankDiscovery:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidRankMode, o.RankMode)
	}
	if o.MinMatchPercent < 0 || o.MinMatchPercent > 100 {
		return fmt.Errorf("%w: min match percent %v", ErrInvalidThreshold, o.MinMatchPercent)
	}
	if o.MinSimilarity < 0 || o.MinSimilarity > 1 {
		return fmt.Errorf("%w: min similarity %v", ErrInvalidThreshold, o.MinSimilarity)
	}
	return nil
}

// CacheKeyPart returns a stable textual form of the options for cache keying.
// Dietary tags are lowercased and sorted so equivalent requests share a key.
func (o *SearchOptions) CacheKeyPart() string {
	tags := make([]string, len(o.DietaryTags))
	for i, t := range o.DietaryTags {
		tags[i] = strings.ToLower(strings.TrimSpace(t))
	}
	sort.Strings(tags)

	var b strings.Builder
	b.WriteString(string(o.MatchMode))
	b.WriteString("|")
	b.WriteString(string(o.RankMode))
	b.WriteString("|")
	b.WriteString(strings.ToLower(o.Cuisine))
	b.WriteString("|")
	b.WriteString(strings.ToLower(o.Difficulty))
	b.WriteString("|")
	b.WriteString(strings.Join(tags, ","))
	b.WriteString("|")
	fmt.Fprintf(&b, "%d|%d|%.2f|%.2f", o.Limit, o.Offset, o.MinMatchPercent, o.MinSimilarity)
	b.WriteString("|")
	b.WriteString(o.Scope.CacheKeyPart())
	return b.String()
}
