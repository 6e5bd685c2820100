package itinerary

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-route-planner/internal/types"
)

var mealOrder = []types.MealType{types.MealBreakfast, types.MealLunch, types.MealDinner}

const mealsPerDay = 3

// ActivityMealSelector picks activities and meals for a stay.
type ActivityMealSelector struct {
	catalog  Catalog
	poolSize int
	logger   *slog.Logger
}

func NewActivityMealSelector(catalog Catalog, poolSize int, logger *slog.Logger) *ActivityMealSelector {
	if poolSize <= 0 {
		poolSize = 50
	}
	return &ActivityMealSelector{catalog: catalog, poolSize: poolSize, logger: logger}
}

// SelectActivities returns up to pace.ActivitiesPerDay() * dayCount
// activities, best rated first. With interests the pool is narrowed to
// activities mentioning any of them; an empty result falls back to the
// whole pool.
func (s *ActivityMealSelector) SelectActivities(ctx context.Context, locationID uuid.UUID, interests []string, pace types.SearchPace, dayCount int) []types.Activity {
	if locationID == uuid.Nil || dayCount <= 0 {
		return []types.Activity{}
	}

	pool, err := s.catalog.FindActivities(ctx, locationID, types.ActivityFilter{Limit: s.poolSize})
	if err != nil {
		s.logger.WarnContext(ctx, "Activity lookup failed", slog.String("location_id", locationID.String()), slog.Any("error", err))
		return []types.Activity{}
	}

	if filtered := filterByInterests(pool, interests); len(filtered) > 0 {
		pool = filtered
	}
	sort.SliceStable(pool, func(i, j int) bool { return pool[i].Rating > pool[j].Rating })

	n := min(len(pool), pace.ActivitiesPerDay()*dayCount)
	return append([]types.Activity{}, pool[:n]...)
}

func filterByInterests(pool []types.Activity, interests []string) []types.Activity {
	keywords := make([]string, 0, len(interests))
	for _, i := range interests {
		if k := strings.ToLower(strings.TrimSpace(i)); k != "" {
			keywords = append(keywords, k)
		}
	}
	if len(keywords) == 0 {
		return nil
	}

	var out []types.Activity
	for _, a := range pool {
		text := strings.ToLower(a.Category + " " + a.Description + " " + a.Name)
		for _, k := range keywords {
			if strings.Contains(text, k) {
				out = append(out, a)
				break
			}
		}
	}
	return out
}

// SelectMeals returns 3 * dayCount meals cycling breakfast, lunch and
// dinner. Restaurants are filtered by the budget's price ranges only; when
// none match the stay gets no meals. A short list wraps, so a restaurant can
// recur.
func (s *ActivityMealSelector) SelectMeals(ctx context.Context, locationID uuid.UUID, budget types.Budget, dayCount int) []types.Meal {
	if locationID == uuid.Nil || dayCount <= 0 {
		return []types.Meal{}
	}

	restaurants, err := s.catalog.FindRestaurants(ctx, locationID, types.RestaurantFilter{
		PriceRanges: budget.PriceRanges(),
		Limit:       s.poolSize,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Restaurant lookup failed", slog.String("location_id", locationID.String()), slog.Any("error", err))
		return []types.Meal{}
	}

	slots := CycleWithWrap(restaurants, mealsPerDay*dayCount)
	meals := make([]types.Meal, len(slots))
	for i, r := range slots {
		meals[i] = types.Meal{Type: mealOrder[i%len(mealOrder)], Restaurant: r}
	}
	return meals
}
