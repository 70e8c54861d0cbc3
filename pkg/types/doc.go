// Package types provides shared type definitions for the recipe discovery
// ranking engine.
//
// This package defines domain types used across the search pipeline:
// recipe and ingredient projections, search options, visibility scopes,
// and ranked results.
//
// # Core Types
//
// Recipe is a read-only search projection of a recipe record. The full
// record is owned by the external CRUD subsystem; search only consumes
// visibility flags, quality signals, and the fields lexical matching and
// embedding documents are built from:
//
//	recipe := &types.Recipe{
//	    Name:         "Margherita Pizza",
//	    Cuisine:      "italian",
//	    Tags:         []string{"vegetarian", "weeknight"},
//	    SystemRating: 4.5,
//	}
//
// SearchOptions is the option bag shared by every search entry point:
//
//	opts := types.SearchOptions{
//	    MatchMode: types.MatchAll,
//	    RankMode:  types.RankBalanced,
//	    Scope:     types.Scope{RequesterID: userID},
//	    Limit:     20,
//	}
//	opts.Normalize()
//
// # Signal Units
//
// Raw signals keep their outward-facing units: match percentages are 0-100,
// cosine similarities are 0-1, ratings are 0-5. The ranking engine
// normalizes everything to [0,1] at its boundary; RankedResult carries both
// the raw signal and the normalized composite score.
//
// # Visibility
//
// Scope captures the requesting identity. A candidate passes visibility if
// it is public, system-authored, or owned by the requester:
//
//	scope := types.Scope{RequesterID: userID}
//	if scope.CanSee(recipe) { ... }
//
// Anonymous scopes only ever see public or system recipes.
//
// # Validation
//
// Domain types implement validation methods to ensure data integrity:
//
//	if err := result.Validate(); err != nil {
//	    log.Fatal(err)
//	}
package types
