package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mealforge/recipesearch/pkg/types"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// SQLite benefits from a single writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx *sql.Tx
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) Close() error {
	return t.tx.Rollback()
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, errors.New("nested transactions are not supported")
}

// Helper functions shared by both the direct and transactional paths.

// joinList stores a string set as a lowercase comma-separated column value
func joinList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	cleaned := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.ToLower(strings.TrimSpace(item))
		if item != "" {
			cleaned = append(cleaned, item)
		}
	}
	return strings.Join(cleaned, ",")
}

// splitList reverses joinList
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

// placeholders returns "?,?,...,?" with n placeholders
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// scopeCondition returns the SQL visibility predicate for the given scope,
// assuming the recipes table is aliased as "r". Anonymous scopes only ever
// see public or system recipes.
func scopeCondition(scope types.Scope, args []interface{}) (string, []interface{}) {
	if scope.IsAnonymous() {
		return "(r.is_public = 1 OR r.is_system_recipe = 1)", args
	}
	return "(r.is_public = 1 OR r.is_system_recipe = 1 OR r.owner_id = ?)", append(args, scope.RequesterID)
}

const recipeColumns = `r.id, r.name, r.description, r.cuisine, r.difficulty, r.tags,
	r.is_public, r.is_system_recipe, r.owner_id,
	r.system_rating, r.avg_user_rating, r.total_user_ratings, r.like_count,
	r.created_at, e.recipe_id IS NOT NULL`

const recipeFrom = ` FROM recipes r LEFT JOIN recipe_embeddings e ON r.id = e.recipe_id `

// rowScanner abstracts *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecipe(row rowScanner) (*types.Recipe, error) {
	var r types.Recipe
	var description, cuisine, difficulty, tags, ownerID sql.NullString
	err := row.Scan(
		&r.ID, &r.Name, &description, &cuisine, &difficulty, &tags,
		&r.IsPublic, &r.IsSystemRecipe, &ownerID,
		&r.SystemRating, &r.AvgUserRating, &r.TotalUserRatings, &r.LikeCount,
		&r.CreatedAt, &r.HasEmbedding,
	)
	if err != nil {
		return nil, err
	}
	r.Description = description.String
	r.Cuisine = cuisine.String
	r.Difficulty = difficulty.String
	r.Tags = splitList(tags.String)
	r.OwnerID = ownerID.String
	return &r, nil
}

func scanIngredient(row rowScanner) (*types.Ingredient, error) {
	var ing types.Ingredient
	var aliases, category sql.NullString
	err := row.Scan(
		&ing.ID, &ing.Name, &ing.DisplayName, &aliases, &category,
		&ing.IsCommon, &ing.UsageCount,
	)
	if err != nil {
		return nil, err
	}
	ing.Aliases = splitList(aliases.String)
	ing.Category = category.String
	return &ing, nil
}

const ingredientColumns = `id, name, display_name, aliases, category, is_common, usage_count`

// Ingredient operations

func upsertIngredient(ctx context.Context, q querier, ing *types.Ingredient) error {
	query := `
		INSERT INTO ingredients (name, display_name, aliases, category, is_common, usage_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			display_name = excluded.display_name,
			aliases = excluded.aliases,
			category = excluded.category,
			is_common = excluded.is_common,
			usage_count = excluded.usage_count,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	name := types.NormalizeIngredientName(ing.Name)
	err := q.QueryRowContext(ctx, query,
		name, ing.DisplayName, joinList(ing.Aliases), ing.Category,
		ing.IsCommon, ing.UsageCount, now, now).Scan(&ing.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert ingredient: %w", err)
	}
	ing.Name = name
	return nil
}

func findIngredientByName(ctx context.Context, q querier, name string) (*types.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE name = ?`
	ing, err := scanIngredient(q.QueryRowContext(ctx, query, types.NormalizeIngredientName(name)))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ing, nil
}

func findIngredientByDisplayName(ctx context.Context, q querier, name string) (*types.Ingredient, error) {
	query := `SELECT ` + ingredientColumns + ` FROM ingredients WHERE display_name = ? COLLATE NOCASE`
	ing, err := scanIngredient(q.QueryRowContext(ctx, query, strings.TrimSpace(name)))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ing, nil
}

func findIngredientsByAlias(ctx context.Context, q querier, fragment string) ([]*types.Ingredient, error) {
	fragment = types.NormalizeIngredientName(fragment)
	if fragment == "" {
		return nil, nil
	}
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredients
		WHERE aliases LIKE '%' || ? || '%'
		ORDER BY usage_count DESC, name
	`
	rows, err := q.QueryContext(ctx, query, fragment)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingredient aliases: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []*types.Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		// Aliases are stored comma-joined, so the LIKE above can match across
		// boundaries; re-check against the parsed set.
		if ing.MatchesAlias(fragment) {
			results = append(results, ing)
		}
	}
	return results, rows.Err()
}

func suggestIngredients(ctx context.Context, q querier, partial string, limit int) ([]types.IngredientSuggestion, error) {
	partial = types.NormalizeIngredientName(partial)
	if limit <= 0 {
		limit = 10
	}
	query := `
		SELECT ` + ingredientColumns + `
		FROM ingredients
		WHERE name LIKE ? || '%'
		   OR display_name LIKE ? || '%' COLLATE NOCASE
		   OR aliases LIKE '%' || ? || '%'
		ORDER BY is_common DESC, usage_count DESC, name
		LIMIT ?
	`
	rows, err := q.QueryContext(ctx, query, partial, partial, partial, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query suggestions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var suggestions []types.IngredientSuggestion
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		suggestions = append(suggestions, types.IngredientSuggestion{
			ID:          ing.ID,
			Name:        ing.Name,
			DisplayName: ing.DisplayName,
			Category:    ing.Category,
			IsCommon:    ing.IsCommon,
			UsageCount:  ing.UsageCount,
		})
	}
	return suggestions, rows.Err()
}

// Recipe operations

func upsertRecipe(ctx context.Context, q querier, r *types.Recipe) error {
	query := `
		INSERT INTO recipes (id, name, description, cuisine, difficulty, tags,
			is_public, is_system_recipe, owner_id,
			system_rating, avg_user_rating, total_user_ratings, like_count,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			cuisine = excluded.cuisine,
			difficulty = excluded.difficulty,
			tags = excluded.tags,
			is_public = excluded.is_public,
			is_system_recipe = excluded.is_system_recipe,
			owner_id = excluded.owner_id,
			system_rating = excluded.system_rating,
			avg_user_rating = excluded.avg_user_rating,
			total_user_ratings = excluded.total_user_ratings,
			like_count = excluded.like_count,
			updated_at = excluded.updated_at
		RETURNING id
	`
	now := time.Now()
	createdAt := r.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	var id interface{}
	if r.ID != 0 {
		id = r.ID
	}
	var ownerID interface{}
	if r.OwnerID != "" {
		ownerID = r.OwnerID
	}
	err := q.QueryRowContext(ctx, query,
		id, r.Name, r.Description, strings.ToLower(r.Cuisine), strings.ToLower(r.Difficulty),
		joinList(r.Tags), r.IsPublic, r.IsSystemRecipe, ownerID,
		r.SystemRating, r.AvgUserRating, r.TotalUserRatings, r.LikeCount,
		createdAt, now).Scan(&r.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert recipe: %w", err)
	}
	r.CreatedAt = createdAt
	return nil
}

func getRecipe(ctx context.Context, q querier, recipeID int64) (*types.Recipe, error) {
	query := `SELECT ` + recipeColumns + recipeFrom + `WHERE r.id = ?`
	r, err := scanRecipe(q.QueryRowContext(ctx, query, recipeID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

func getRecipes(ctx context.Context, q querier, recipeIDs []int64, scope types.Scope) ([]*types.Recipe, error) {
	if len(recipeIDs) == 0 {
		return nil, nil
	}
	args := make([]interface{}, 0, len(recipeIDs)+1)
	for _, id := range recipeIDs {
		args = append(args, id)
	}
	query := `SELECT ` + recipeColumns + recipeFrom + `WHERE r.id IN (` + placeholders(len(recipeIDs)) + `) AND `
	cond, args := scopeCondition(scope, args)
	query += cond

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recipes []*types.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

// Link operations

func setRecipeIngredients(ctx context.Context, q querier, recipeID int64, links []RecipeIngredient) error {
	// Collect ingredient IDs whose usage counts need recomputing: the old
	// links, the new links, or both.
	affected := make(map[int64]struct{})
	rows, err := q.QueryContext(ctx, `SELECT ingredient_id FROM recipe_ingredients WHERE recipe_id = ?`, recipeID)
	if err != nil {
		return fmt.Errorf("failed to read existing links: %w", err)
	}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			_ = rows.Close()
			return err
		}
		affected[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return err
	}
	_ = rows.Close()

	if _, err := q.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = ?`, recipeID); err != nil {
		return fmt.Errorf("failed to clear links: %w", err)
	}

	for _, link := range links {
		_, err := q.ExecContext(ctx, `
			INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, unit, group_name, position)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(recipe_id, ingredient_id) DO UPDATE SET
				amount = excluded.amount,
				unit = excluded.unit,
				group_name = excluded.group_name,
				position = excluded.position
		`, recipeID, link.IngredientID, link.Amount, link.Unit, link.GroupName, link.Position)
		if err != nil {
			return fmt.Errorf("failed to insert link: %w", err)
		}
		affected[link.IngredientID] = struct{}{}
	}

	// Keep ingredient usage counts in sync with the link table
	for id := range affected {
		_, err := q.ExecContext(ctx, `
			UPDATE ingredients
			SET usage_count = (SELECT COUNT(*) FROM recipe_ingredients WHERE ingredient_id = ?)
			WHERE id = ?
		`, id, id)
		if err != nil {
			return fmt.Errorf("failed to update usage count: %w", err)
		}
	}

	return nil
}

func linksByIngredients(ctx context.Context, q querier, ingredientIDs []int64, scope types.Scope) ([]LinkRow, error) {
	if len(ingredientIDs) == 0 {
		return nil, nil
	}
	args := make([]interface{}, 0, len(ingredientIDs)+1)
	for _, id := range ingredientIDs {
		args = append(args, id)
	}
	query := `
		SELECT ri.recipe_id, ri.ingredient_id, i.name
		FROM recipe_ingredients ri
		INNER JOIN ingredients i ON ri.ingredient_id = i.id
		INNER JOIN recipes r ON ri.recipe_id = r.id
		WHERE ri.ingredient_id IN (` + placeholders(len(ingredientIDs)) + `) AND `
	cond, args := scopeCondition(scope, args)
	query += cond

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var links []LinkRow
	for rows.Next() {
		var link LinkRow
		if err := rows.Scan(&link.RecipeID, &link.IngredientID, &link.IngredientName); err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	return links, rows.Err()
}

func ingredientCounts(ctx context.Context, q querier, recipeIDs []int64) (map[int64]int, error) {
	counts := make(map[int64]int, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return counts, nil
	}
	args := make([]interface{}, len(recipeIDs))
	for i, id := range recipeIDs {
		args[i] = id
	}
	query := `
		SELECT recipe_id, COUNT(DISTINCT ingredient_id)
		FROM recipe_ingredients
		WHERE recipe_id IN (` + placeholders(len(recipeIDs)) + `)
		GROUP BY recipe_id
	`
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count ingredients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var recipeID int64
		var count int
		if err := rows.Scan(&recipeID, &count); err != nil {
			return nil, err
		}
		counts[recipeID] = count
	}
	return counts, rows.Err()
}

func recipeIngredientNames(ctx context.Context, q querier, recipeID int64) ([]string, error) {
	query := `
		SELECT i.name
		FROM recipe_ingredients ri
		INNER JOIN ingredients i ON ri.ingredient_id = i.id
		WHERE ri.recipe_id = ?
		ORDER BY ri.position, i.name
	`
	rows, err := q.QueryContext(ctx, query, recipeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipe ingredients: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Embedding operations

func upsertRecipeEmbedding(ctx context.Context, q querier, emb *RecipeEmbedding) error {
	query := `
		INSERT INTO recipe_embeddings (recipe_id, vector, dimension, provider, model, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(recipe_id) DO UPDATE SET
			vector = excluded.vector,
			dimension = excluded.dimension,
			provider = excluded.provider,
			model = excluded.model,
			created_at = excluded.created_at
	`
	now := time.Now()
	if _, err := q.ExecContext(ctx, query, emb.RecipeID, emb.Vector, emb.Dimension, emb.Provider, emb.Model, now); err != nil {
		return fmt.Errorf("failed to upsert embedding: %w", err)
	}
	emb.CreatedAt = now
	return nil
}

func getRecipeEmbedding(ctx context.Context, q querier, recipeID int64) (*RecipeEmbedding, error) {
	query := `SELECT recipe_id, vector, dimension, provider, model, created_at FROM recipe_embeddings WHERE recipe_id = ?`
	var emb RecipeEmbedding
	err := q.QueryRowContext(ctx, query, recipeID).Scan(
		&emb.RecipeID, &emb.Vector, &emb.Dimension, &emb.Provider, &emb.Model, &emb.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &emb, nil
}

func listRecipesMissingEmbedding(ctx context.Context, q querier, limit int) ([]*types.Recipe, error) {
	if limit <= 0 {
		limit = 100
	}
	query := `SELECT ` + recipeColumns + recipeFrom + `WHERE e.recipe_id IS NULL ORDER BY r.id LIMIT ?`
	rows, err := q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recipes missing embeddings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recipes []*types.Recipe
	for rows.Next() {
		r, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, r)
	}
	return recipes, rows.Err()
}

func storeStats(ctx context.Context, q querier) (*StoreStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM recipes),
			(SELECT COUNT(*) FROM ingredients),
			(SELECT COUNT(*) FROM recipe_embeddings),
			(SELECT COUNT(*) FROM recipe_ingredients)
	`
	var stats StoreStats
	err := q.QueryRowContext(ctx, query).Scan(
		&stats.RecipeCount, &stats.IngredientCount, &stats.EmbeddingCount, &stats.LinkCount)
	if err != nil {
		return nil, fmt.Errorf("failed to query store stats: %w", err)
	}
	return &stats, nil
}

// Interface wrappers: direct path

func (s *SQLiteStorage) UpsertIngredient(ctx context.Context, ing *types.Ingredient) error {
	return upsertIngredient(ctx, s.db, ing)
}

func (s *SQLiteStorage) FindIngredientByName(ctx context.Context, name string) (*types.Ingredient, error) {
	return findIngredientByName(ctx, s.db, name)
}

func (s *SQLiteStorage) FindIngredientByDisplayName(ctx context.Context, name string) (*types.Ingredient, error) {
	return findIngredientByDisplayName(ctx, s.db, name)
}

func (s *SQLiteStorage) FindIngredientsByAlias(ctx context.Context, fragment string) ([]*types.Ingredient, error) {
	return findIngredientsByAlias(ctx, s.db, fragment)
}

func (s *SQLiteStorage) SuggestIngredients(ctx context.Context, partial string, limit int) ([]types.IngredientSuggestion, error) {
	return suggestIngredients(ctx, s.db, partial, limit)
}

func (s *SQLiteStorage) UpsertRecipe(ctx context.Context, r *types.Recipe) error {
	return upsertRecipe(ctx, s.db, r)
}

func (s *SQLiteStorage) GetRecipe(ctx context.Context, recipeID int64) (*types.Recipe, error) {
	return getRecipe(ctx, s.db, recipeID)
}

func (s *SQLiteStorage) GetRecipes(ctx context.Context, recipeIDs []int64, scope types.Scope) ([]*types.Recipe, error) {
	return getRecipes(ctx, s.db, recipeIDs, scope)
}

func (s *SQLiteStorage) SetRecipeIngredients(ctx context.Context, recipeID int64, links []RecipeIngredient) error {
	return setRecipeIngredients(ctx, s.db, recipeID, links)
}

func (s *SQLiteStorage) LinksByIngredients(ctx context.Context, ingredientIDs []int64, scope types.Scope) ([]LinkRow, error) {
	return linksByIngredients(ctx, s.db, ingredientIDs, scope)
}

func (s *SQLiteStorage) IngredientCounts(ctx context.Context, recipeIDs []int64) (map[int64]int, error) {
	return ingredientCounts(ctx, s.db, recipeIDs)
}

func (s *SQLiteStorage) RecipeIngredientNames(ctx context.Context, recipeID int64) ([]string, error) {
	return recipeIngredientNames(ctx, s.db, recipeID)
}

func (s *SQLiteStorage) UpsertRecipeEmbedding(ctx context.Context, emb *RecipeEmbedding) error {
	return upsertRecipeEmbedding(ctx, s.db, emb)
}

func (s *SQLiteStorage) GetRecipeEmbedding(ctx context.Context, recipeID int64) (*RecipeEmbedding, error) {
	return getRecipeEmbedding(ctx, s.db, recipeID)
}

func (s *SQLiteStorage) ListRecipesMissingEmbedding(ctx context.Context, limit int) ([]*types.Recipe, error) {
	return listRecipesMissingEmbedding(ctx, s.db, limit)
}

func (s *SQLiteStorage) Stats(ctx context.Context) (*StoreStats, error) {
	return storeStats(ctx, s.db)
}

func (s *SQLiteStorage) SearchVector(ctx context.Context, queryVector []float32, limit int, filters *SearchFilters) ([]VectorResult, error) {
	return searchVector(ctx, s.db, queryVector, limit, filters)
}

func (s *SQLiteStorage) SearchText(ctx context.Context, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return searchText(ctx, s.db, query, limit, filters)
}

// Interface wrappers: transactional path

func (t *sqliteTx) UpsertIngredient(ctx context.Context, ing *types.Ingredient) error {
	return upsertIngredient(ctx, t.tx, ing)
}

func (t *sqliteTx) FindIngredientByName(ctx context.Context, name string) (*types.Ingredient, error) {
	return findIngredientByName(ctx, t.tx, name)
}

func (t *sqliteTx) FindIngredientByDisplayName(ctx context.Context, name string) (*types.Ingredient, error) {
	return findIngredientByDisplayName(ctx, t.tx, name)
}

func (t *sqliteTx) FindIngredientsByAlias(ctx context.Context, fragment string) ([]*types.Ingredient, error) {
	return findIngredientsByAlias(ctx, t.tx, fragment)
}

func (t *sqliteTx) SuggestIngredients(ctx context.Context, partial string, limit int) ([]types.IngredientSuggestion, error) {
	return suggestIngredients(ctx, t.tx, partial, limit)
}

func (t *sqliteTx) UpsertRecipe(ctx context.Context, r *types.Recipe) error {
	return upsertRecipe(ctx, t.tx, r)
}

func (t *sqliteTx) GetRecipe(ctx context.Context, recipeID int64) (*types.Recipe, error) {
	return getRecipe(ctx, t.tx, recipeID)
}

func (t *sqliteTx) GetRecipes(ctx context.Context, recipeIDs []int64, scope types.Scope) ([]*types.Recipe, error) {
	return getRecipes(ctx, t.tx, recipeIDs, scope)
}

func (t *sqliteTx) SetRecipeIngredients(ctx context.Context, recipeID int64, links []RecipeIngredient) error {
	return setRecipeIngredients(ctx, t.tx, recipeID, links)
}

func (t *sqliteTx) LinksByIngredients(ctx context.Context, ingredientIDs []int64, scope types.Scope) ([]LinkRow, error) {
	return linksByIngredients(ctx, t.tx, ingredientIDs, scope)
}

func (t *sqliteTx) IngredientCounts(ctx context.Context, recipeIDs []int64) (map[int64]int, error) {
	return ingredientCounts(ctx, t.tx, recipeIDs)
}

func (t *sqliteTx) RecipeIngredientNames(ctx context.Context, recipeID int64) ([]string, error) {
	return recipeIngredientNames(ctx, t.tx, recipeID)
}

func (t *sqliteTx) UpsertRecipeEmbedding(ctx context.Context, emb *RecipeEmbedding) error {
	return upsertRecipeEmbedding(ctx, t.tx, emb)
}

func (t *sqliteTx) GetRecipeEmbedding(ctx context.Context, recipeID int64) (*RecipeEmbedding, error) {
	return getRecipeEmbedding(ctx, t.tx, recipeID)
}

func (t *sqliteTx) ListRecipesMissingEmbedding(ctx context.Context, limit int) ([]*types.Recipe, error) {
	return listRecipesMissingEmbedding(ctx, t.tx, limit)
}

func (t *sqliteTx) Stats(ctx context.Context) (*StoreStats, error) {
	return storeStats(ctx, t.tx)
}

func (t *sqliteTx) SearchVector(ctx context.Context, queryVector []float32, limit int, filters *SearchFilters) ([]VectorResult, error) {
	return searchVector(ctx, t.tx, queryVector, limit, filters)
}

func (t *sqliteTx) SearchText(ctx context.Context, query string, limit int, filters *SearchFilters) ([]TextResult, error) {
	return searchText(ctx, t.tx, query, limit, filters)
}
