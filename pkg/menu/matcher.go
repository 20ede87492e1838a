package menu

import (
	"strings"

	"github.com/umputun/scrounge/pkg/domain"
)

// FindMatches intersects a user's tracked food names with the given menus.
// A tracked name hits an item when it is a case-insensitive substring of the
// item name, so "pizza" matches "Pepperoni Pizza Slice". One item can hit
// several tracked names and one tracked name several items, nothing is
// deduplicated. Halls with no hits are absent from the result.
func FindMatches(tracked []string, menus map[string]*domain.Menu) map[string][]domain.Match {
	res := make(map[string][]domain.Match)
	if len(tracked) == 0 {
		return res
	}

	lowered := make([]string, len(tracked))
	for i, name := range tracked {
		lowered[i] = strings.ToLower(name)
	}

	for hall, menu := range menus {
		if menu == nil {
			continue
		}
		for _, meal := range menu.Meals {
			for _, station := range meal.Stations {
				for _, item := range station.Items {
					itemLower := strings.ToLower(item)
					for _, name := range lowered {
						if strings.Contains(itemLower, name) {
							res[hall] = append(res[hall], domain.Match{
								Hall:    hall,
								Meal:    meal.Name,
								Station: station.Name,
								Item:    item,
							})
						}
					}
				}
			}
		}
	}

	return res
}
