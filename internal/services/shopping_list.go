package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"

	"foodgram/internal/logging"
	"foodgram/internal/metrics"
	"foodgram/internal/models"
	"foodgram/internal/repositories"
)

// ShoppingListFilename is the attachment name of a downloaded shopping list.
const ShoppingListFilename = "shopping_cart.txt"

// CartItem is one recipe of a shopping cart together with how many times it
// is going to be cooked. A cart entry always has quantity 1 today.
type CartItem struct {
	Recipe   *models.Recipe
	Quantity int
}

// ShoppingLine is the total amount of one ingredient across a cart.
type ShoppingLine struct {
	Name  string
	Unit  string
	Total int
}

type lineKey struct {
	name string
	unit string
}

// ShoppingList is the aggregated cart. Lines keep the order in which each
// (name, unit) pair was first seen.
type ShoppingList struct {
	lines []ShoppingLine
	index map[lineKey]int
}

// Aggregate sums amount * quantity per (ingredient name, unit). A quantity
// below 1 counts as 1. The recipes' ingredients must be loaded.
func Aggregate(items []CartItem) *ShoppingList {
	list := &ShoppingList{index: make(map[lineKey]int)}
	for _, item := range items {
		if item.Recipe == nil {
			continue
		}
		quantity := item.Quantity
		if quantity < 1 {
			quantity = 1
		}
		for _, ri := range item.Recipe.Ingredients {
			list.add(ri.Ingredient.Name, ri.Ingredient.MeasurementUnit, ri.Amount*quantity)
		}
	}
	return list
}

func (l *ShoppingList) add(name, unit string, amount int) {
	key := lineKey{name: name, unit: unit}
	if i, ok := l.index[key]; ok {
		l.lines[i].Total += amount
		return
	}
	l.index[key] = len(l.lines)
	l.lines = append(l.lines, ShoppingLine{Name: name, Unit: unit, Total: amount})
}

// Lines returns a copy of the aggregated lines.
func (l *ShoppingList) Lines() []ShoppingLine {
	out := make([]ShoppingLine, len(l.lines))
	copy(out, l.lines)
	return out
}

// Len returns the number of distinct ingredient lines.
func (l *ShoppingList) Len() int { return len(l.lines) }

// Render writes one "{name} ({unit}) - {total}" line per ingredient.
// An empty list renders as an empty document.
func (l *ShoppingList) Render() []byte {
	var buf bytes.Buffer
	for _, line := range l.lines {
		buf.WriteString(line.Name)
		buf.WriteString(" (")
		buf.WriteString(line.Unit)
		buf.WriteString(") - ")
		buf.WriteString(strconv.Itoa(line.Total))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// ShoppingCartService builds the shopping list of a user's cart.
type ShoppingCartService struct {
	recipes     repositories.RecipeRepository
	memberships repositories.MembershipRepository
}

func NewShoppingCartService(recipes repositories.RecipeRepository, memberships repositories.MembershipRepository) *ShoppingCartService {
	return &ShoppingCartService{recipes: recipes, memberships: memberships}
}

// Download aggregates every recipe in the user's cart, in the order the
// recipes were added. A cart recipe that cannot be loaded fails the whole
// list.
func (s *ShoppingCartService) Download(ctx context.Context, userID uint) (*ShoppingList, error) {
	ids, err := s.memberships.RecipeIDs(ctx, models.KindShoppingCart, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}

	items := make([]CartItem, 0, len(ids))
	if len(ids) > 0 {
		recipes, err := s.recipes.GetByIDs(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("failed to load cart recipes: %w", err)
		}
		byID := make(map[uint]*models.Recipe, len(recipes))
		for i := range recipes {
			byID[recipes[i].ID] = &recipes[i]
		}
		for _, id := range ids {
			recipe, ok := byID[id]
			if !ok {
				return nil, newError(ErrNotFound, "Recipe %d from the shopping cart was not found", id)
			}
			items = append(items, CartItem{Recipe: recipe, Quantity: 1})
		}
	}

	list := Aggregate(items)
	metrics.ShoppingListDownloads.Inc()
	metrics.ShoppingListLines.Observe(float64(list.Len()))
	logging.Debug().Uint("user_id", userID).Int("recipes", len(items)).Int("lines", list.Len()).Msg("shopping list built")
	return list, nil
}

// isNotFound reports whether err is a missing row at the repository layer.
func isNotFound(err error) bool {
	return errors.Is(err, repositories.ErrNotFound)
}
