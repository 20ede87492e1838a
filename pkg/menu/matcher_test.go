package menu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umputun/scrounge/pkg/domain"
)

func testMenus() map[string]*domain.Menu {
	return map[string]*domain.Menu{
		"bursley": {
			Hall: "bursley",
			Meals: []domain.Meal{
				{Name: "Lunch", Stations: []domain.Station{
					{Name: "Grill", Items: []string{"Chicken Noodle Soup", "Hamburger"}},
				}},
			},
		},
		"east-quad": {
			Hall: "east-quad",
			Meals: []domain.Meal{
				{Name: "Dinner", Stations: []domain.Station{
					{Name: "Pizza", Items: []string{"Pepperoni Pizza", "Cheese Pizza Slice"}},
				}},
			},
		},
		"markley": {
			Hall: "markley",
			Meals: []domain.Meal{
				{Name: "Dinner", Stations: []domain.Station{
					{Name: "Salad Bar", Items: []string{"Garden Salad"}},
				}},
			},
		},
	}
}

func TestFindMatches(t *testing.T) {
	res := FindMatches([]string{"pizza", "soup"}, testMenus())

	require.Len(t, res, 2, "markley has no hits and must be absent")
	assert.NotContains(t, res, "markley")

	require.Len(t, res["bursley"], 1)
	assert.Equal(t, domain.Match{Hall: "bursley", Meal: "Lunch", Station: "Grill", Item: "Chicken Noodle Soup"}, res["bursley"][0])

	assert.Equal(t, []domain.Match{
		{Hall: "east-quad", Meal: "Dinner", Station: "Pizza", Item: "Pepperoni Pizza"},
		{Hall: "east-quad", Meal: "Dinner", Station: "Pizza", Item: "Cheese Pizza Slice"},
	}, res["east-quad"])
}

func TestFindMatches_CaseInsensitive(t *testing.T) {
	res := FindMatches([]string{"PIZZA"}, testMenus())
	require.Len(t, res["east-quad"], 2)
	assert.Equal(t, "Pepperoni Pizza", res["east-quad"][0].Item)
}

func TestFindMatches_MultipleTrackedHitsSameItem(t *testing.T) {
	// one item can satisfy several tracked names, no dedup
	res := FindMatches([]string{"chicken", "soup"}, testMenus())
	require.Len(t, res["bursley"], 2)
	assert.Equal(t, res["bursley"][0].Item, res["bursley"][1].Item)
}

func TestFindMatches_EmptyInputs(t *testing.T) {
	assert.Empty(t, FindMatches(nil, testMenus()))
	assert.Empty(t, FindMatches([]string{}, testMenus()))
	assert.Empty(t, FindMatches([]string{"pizza"}, map[string]*domain.Menu{}))
	assert.Empty(t, FindMatches([]string{"pizza"}, nil))
}

func TestFindMatches_NoHits(t *testing.T) {
	res := FindMatches([]string{"sushi"}, testMenus())
	assert.Empty(t, res)
}

func TestFindMatches_NilMenuSkipped(t *testing.T) {
	menus := testMenus()
	menus["south-quad"] = nil
	res := FindMatches([]string{"pizza"}, menus)
	assert.NotContains(t, res, "south-quad")
	assert.Contains(t, res, "east-quad")
}
