package itinerary

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

func activity(name, category, description string, rating float64) types.Activity {
	return types.Activity{ID: uuid.New(), Name: name, Category: category, Description: description, Rating: rating}
}

var parisActivities = []types.Activity{
	activity("Seine cruise", "sightseeing", "Boat tour on the river", 4.5),
	activity("Louvre", "museum", "World's largest art museum", 4.9),
	activity("Musée d'Orsay", "Museum", "Impressionist art", 4.8),
	activity("Eiffel Tower", "landmark", "Iconic iron tower", 4.7),
	activity("Le Marais food walk", "tour", "Street FOOD and bakeries", 4.4),
	activity("Luxembourg Gardens", "park", "Formal gardens", 4.3),
	activity("Sainte-Chapelle", "church", "Stained glass", 4.6),
}

func TestSelectActivities_InterestFilter(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("FindActivities", mock.Anything, paris.ID, types.ActivityFilter{Limit: 50}).Return(parisActivities, nil)
	s := NewActivityMealSelector(catalog, 50, testLogger)

	got := s.SelectActivities(context.Background(), paris.ID, []string{"museum", "food"}, types.SearchPaceModerate, 1)

	require.Len(t, got, 3)
	assert.Equal(t, "Louvre", got[0].Name)
	assert.Equal(t, "Musée d'Orsay", got[1].Name)
	assert.Equal(t, "Le Marais food walk", got[2].Name)
}

func TestSelectActivities_FallbackWhenFilterEmpties(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("FindActivities", mock.Anything, paris.ID, mock.Anything).Return(parisActivities, nil)
	s := NewActivityMealSelector(catalog, 50, testLogger)

	got := s.SelectActivities(context.Background(), paris.ID, []string{"skiing"}, types.SearchPaceRelaxed, 1)

	require.Len(t, got, 3)
	assert.Equal(t, "Louvre", got[0].Name)
	assert.Equal(t, "Musée d'Orsay", got[1].Name)
	assert.Equal(t, "Eiffel Tower", got[2].Name)
}

func TestSelectActivities_PerPace(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("FindActivities", mock.Anything, paris.ID, mock.Anything).Return(parisActivities, nil)
	s := NewActivityMealSelector(catalog, 50, testLogger)

	assert.Len(t, s.SelectActivities(context.Background(), paris.ID, nil, types.SearchPaceRelaxed, 1), 3)
	assert.Len(t, s.SelectActivities(context.Background(), paris.ID, nil, types.SearchPaceModerate, 1), 4)
	assert.Len(t, s.SelectActivities(context.Background(), paris.ID, nil, types.SearchPaceFast, 1), 6)
	assert.Len(t, s.SelectActivities(context.Background(), paris.ID, nil, types.SearchPaceFast, 2), 7, "limited by the pool")
}

func TestSelectActivities_Degrades(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("FindActivities", mock.Anything, lyon.ID, mock.Anything).Return(nil, errors.New("timeout"))
	s := NewActivityMealSelector(catalog, 50, testLogger)

	got := s.SelectActivities(context.Background(), lyon.ID, nil, types.SearchPaceModerate, 2)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, s.SelectActivities(context.Background(), uuid.Nil, nil, types.SearchPaceModerate, 2))
	catalog.AssertNumberOfCalls(t, "FindActivities", 1)
}

func TestSelectMeals(t *testing.T) {
	restaurants := []types.Restaurant{
		{ID: uuid.New(), Name: "Chez Georges", PriceRange: "$$"},
		{ID: uuid.New(), Name: "Le Bouillon", PriceRange: "$$"},
	}
	catalog := new(MockCatalog)
	catalog.On("FindRestaurants", mock.Anything, paris.ID, types.RestaurantFilter{PriceRanges: []string{"$", "$$"}, Limit: 50}).
		Return(restaurants, nil).Once()
	s := NewActivityMealSelector(catalog, 50, testLogger)

	meals := s.SelectMeals(context.Background(), paris.ID, types.BudgetLow, 2)

	require.Len(t, meals, 6)
	wantTypes := []types.MealType{types.MealBreakfast, types.MealLunch, types.MealDinner, types.MealBreakfast, types.MealLunch, types.MealDinner}
	wantNames := []string{"Chez Georges", "Le Bouillon", "Chez Georges", "Le Bouillon", "Chez Georges", "Le Bouillon"}
	for i, m := range meals {
		assert.Equal(t, wantTypes[i], m.Type)
		assert.Equal(t, wantNames[i], m.Restaurant.Name)
	}
	catalog.AssertExpectations(t)
}

func TestSelectMeals_StaysWithinBudget(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("FindRestaurants", mock.Anything, lyon.ID, types.RestaurantFilter{PriceRanges: []string{"$$$", "$$$$"}, Limit: 50}).
		Return([]types.Restaurant{}, nil).Once()
	s := NewActivityMealSelector(catalog, 50, testLogger)

	meals := s.SelectMeals(context.Background(), lyon.ID, types.BudgetLuxury, 1)

	assert.Empty(t, meals)
	catalog.AssertNumberOfCalls(t, "FindRestaurants", 1)
	catalog.AssertExpectations(t)
}

func TestSelectMeals_NoRestaurants(t *testing.T) {
	catalog := new(MockCatalog)
	catalog.On("FindRestaurants", mock.Anything, lyon.ID, mock.Anything).Return([]types.Restaurant{}, nil)
	s := NewActivityMealSelector(catalog, 50, testLogger)

	meals := s.SelectMeals(context.Background(), lyon.ID, types.BudgetModerate, 1)
	assert.Empty(t, meals)
}
