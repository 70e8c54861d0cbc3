package types

import "errors"

// Validation errors, rejected before any I/O
var (
	ErrNoIngredients    = errors.New("no ingredients specified")
	ErrEmptyQuery       = errors.New("query cannot be empty")
	ErrInvalidMatchMode = errors.New("invalid match mode")
	ErrInvalidRankMode  = errors.New("invalid ranking mode")
	ErrInvalidThreshold = errors.New("invalid threshold")
)

// ErrSearchUnavailable distinguishes "search is down" from "no matches".
// Semantic search fails closed with this error when the embedding provider
// is unavailable; hybrid search degrades to lexical-only instead.
var ErrSearchUnavailable = errors.New("search unavailable")

// Domain errors for type validation
var (
	ErrInvalidRecipeID     = errors.New("invalid recipe ID")
	ErrEmptyRecipeName     = errors.New("recipe name cannot be empty")
	ErrInvalidRating       = errors.New("rating must be between 0 and 5")
	ErrInvalidRank         = errors.New("rank must be >= 1")
	ErrInvalidMatchPercent = errors.New("match percentage must be between 0 and 100")
	ErrInvalidSimilarity   = errors.New("similarity must be between 0 and 1")
	ErrInvalidScore        = errors.New("score must be between 0 and 1")
)
