package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"

	lru "github.com/hashicorp/golang-lru"
	"github.com/sahilm/fuzzy"
)

const (
	tagsCacheKey        = "tags"
	ingredientsCacheKey = "ingredients"
)

type cachedEntry struct {
	value    interface{}
	storedAt time.Time
}

// CatalogService serves tags and ingredients. Both are reference data that
// rarely change, so reads go through an LRU cache whose entries expire
// after ttl.
type CatalogService struct {
	repo  repositories.CatalogRepository
	cache *lru.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.CatalogRepository, cacheSize int, ttl time.Duration) (*CatalogService, error) {
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog cache: %w", err)
	}
	return &CatalogService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		now:   time.Now,
	}, nil
}

func (s *CatalogService) cached(kind, key string, load func() (interface{}, error)) (interface{}, error) {
	if v, ok := s.cache.Get(key); ok {
		entry := v.(cachedEntry)
		if s.ttl <= 0 || s.now().Sub(entry.storedAt) < s.ttl {
			metrics.CatalogCacheHits.WithLabelValues(kind).Inc()
			return entry.value, nil
		}
		s.cache.Remove(key)
	}
	metrics.CatalogCacheMisses.WithLabelValues(kind).Inc()

	value, err := load()
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, cachedEntry{value: value, storedAt: s.now()})
	return value, nil
}

// ListTags returns every tag ordered by id.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	v, err := s.cached("tags", tagsCacheKey, func() (interface{}, error) {
		tags, err := s.repo.ListTags(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list tags: %w", err)
		}
		return tags, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Tag), nil
}

// GetTag retrieves a single tag.
func (s *CatalogService) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	v, err := s.cached("tag", "tag:"+strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		tag, err := s.repo.GetTag(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return nil, newError(ErrNotFound, "Tag not found")
			}
			return nil, fmt.Errorf("failed to get tag %d: %w", id, err)
		}
		return *tag, nil
	})
	if err != nil {
		return nil, err
	}
	tag := v.(models.Tag)
	return &tag, nil
}

// ListIngredients returns every ingredient ordered by name.
func (s *CatalogService) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	v, err := s.cached("ingredients", ingredientsCacheKey, func() (interface{}, error) {
		ingredients, err := s.repo.ListIngredients(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list ingredients: %w", err)
		}
		return ingredients, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]models.Ingredient), nil
}

// GetIngredient retrieves a single ingredient.
func (s *CatalogService) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	v, err := s.cached("ingredient", "ingredient:"+strconv.FormatUint(uint64(id), 10), func() (interface{}, error) {
		ingredient, err := s.repo.GetIngredient(ctx, id)
		if err != nil {
			if isNotFound(err) {
				return nil, newError(ErrNotFound, "Ingredient not found")
			}
			return nil, fmt.Errorf("failed to get ingredient %d: %w", id, err)
		}
		return *ingredient, nil
	})
	if err != nil {
		return nil, err
	}
	ingredient := v.(models.Ingredient)
	return &ingredient, nil
}

type ingredientSource []models.Ingredient

func (src ingredientSource) String(i int) string { return strings.ToLower(src[i].Name) }
func (src ingredientSource) Len() int            { return len(src) }

// SearchIngredients finds ingredients by name. Names starting with the query
// come first in alphabetical order, followed by fuzzy matches from best to
// worst. An empty query returns everything.
func (s *CatalogService) SearchIngredients(ctx context.Context, query string) ([]models.Ingredient, error) {
	all, err := s.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return all, nil
	}

	result := make([]models.Ingredient, 0)
	prefixed := make(map[int]bool)
	for i, ing := range all {
		if strings.HasPrefix(strings.ToLower(ing.Name), query) {
			result = append(result, ing)
			prefixed[i] = true
		}
	}
	for _, match := range fuzzy.FindFrom(query, ingredientSource(all)) {
		if !prefixed[match.Index] {
			result = append(result, all[match.Index])
		}
	}
	return result, nil
}

// ImportIngredients inserts the ingredients that are not known yet and
// returns how many were added.
func (s *CatalogService) ImportIngredients(ctx context.Context, ingredients []models.Ingredient) (int64, error) {
	for i, ing := range ingredients {
		ing.Name = strings.TrimSpace(ing.Name)
		ing.MeasurementUnit = strings.TrimSpace(ing.MeasurementUnit)
		if ing.Name == "" || ing.MeasurementUnit == "" {
			return 0, newError(ErrValidation, "ingredient %d: name and measurement unit are required", i+1)
		}
		ingredients[i] = ing
	}
	inserted, err := s.repo.UpsertIngredients(ctx, ingredients)
	if err != nil {
		return 0, fmt.Errorf("failed to import ingredients: %w", err)
	}
	s.Invalidate()
	logging.Info().Int("rows", len(ingredients)).Int64("inserted", inserted).Msg("ingredients imported")
	return inserted, nil
}

// ImportTags inserts the tags that are not known yet.
func (s *CatalogService) ImportTags(ctx context.Context, tags []models.Tag) (int64, error) {
	for i, tag := range tags {
		if err := validateStruct(tagInput{Name: tag.Name, Slug: tag.Slug, Color: tag.Color}); err != nil {
			return 0, fmt.Errorf("tag %d: %w", i+1, err)
		}
	}
	inserted, err := s.repo.UpsertTags(ctx, tags)
	if err != nil {
		return 0, fmt.Errorf("failed to import tags: %w", err)
	}
	s.Invalidate()
	logging.Info().Int("rows", len(tags)).Int64("inserted", inserted).Msg("tags imported")
	return inserted, nil
}

type tagInput struct {
	Name  string `json:"name" validate:"required,max=200"`
	Slug  string `json:"slug" validate:"required,max=200,slug"`
	Color string `json:"color" validate:"required,hexcolor,len=7"`
}

// Invalidate drops every cached entry.
func (s *CatalogService) Invalidate() {
	s.cache.Purge()
}
