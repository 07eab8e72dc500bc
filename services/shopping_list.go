package services

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/rpupo63/platefeed-backend/database"
	"github.com/rpupo63/platefeed-backend/errs"
)

// ShoppingList renders a user's consolidated shopping list: one line per
// distinct (ingredient, unit) pair across every recipe in the cart, with the
// amounts summed.
type ShoppingList struct {
	cartRepo *database.ShoppingCartRepo
}

func NewShoppingList(cartRepo *database.ShoppingCartRepo) ShoppingList {
	return ShoppingList{cartRepo: cartRepo}
}

// Lines returns the rendered list, ordered by ingredient name ascending.
// Each line has the form "<name> - <total><unit>". An empty cart yields an
// empty slice.
func (s ShoppingList) Lines(userID uuid.UUID) ([]string, error) {
	aggregated, err := s.cartRepo.AggregateLines(userID)
	if err != nil {
		return nil, errs.NewDatabaseError("aggregate", "shopping list", err)
	}

	lines := make([]string, 0, len(aggregated))
	for _, row := range aggregated {
		lines = append(lines, fmt.Sprintf("%s - %d%s", row.Name, row.TotalAmount, row.MeasurementUnit))
	}
	return lines, nil
}
