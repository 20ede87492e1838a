package domain

// MenuEntry is a single stored menu row, one food item served at a
// hall/meal/station. Rows are not unique, duplicates are kept as-is.
type MenuEntry struct {
	Hall    string `db:"hall" json:"hall"`
	Meal    string `db:"meal" json:"meal"`
	Station string `db:"station" json:"station"`
	Item    string `db:"item" json:"item"`
}

// Menu is one hall's offering for a day. Meals, stations and items keep
// the order they appeared in on the upstream page.
type Menu struct {
	Hall  string `json:"hall"`
	Meals []Meal `json:"meals"`
}

// Meal is a serving period (Breakfast, Lunch, ...) with its stations.
type Meal struct {
	Name     string    `json:"name"`
	Stations []Station `json:"stations"`
}

// Station is a serving counter with its item names in page order.
type Station struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// Match is a tracked-item hit against a cached menu, recomputed per request.
type Match struct {
	Hall    string `json:"hall"`
	Meal    string `json:"meal"`
	Station string `json:"station"`
	Item    string `json:"item"`
}

// Entries flattens the menu into storable rows, preserving order.
func (m *Menu) Entries() []MenuEntry {
	var entries []MenuEntry
	for _, meal := range m.Meals {
		for _, station := range meal.Stations {
			for _, item := range station.Items {
				entries = append(entries, MenuEntry{Hall: m.Hall, Meal: meal.Name, Station: station.Name, Item: item})
			}
		}
	}
	return entries
}

// Empty reports whether the menu has no items at all. An empty menu is
// valid, upstream simply has nothing listed for the day.
func (m *Menu) Empty() bool {
	for _, meal := range m.Meals {
		for _, station := range meal.Stations {
			if len(station.Items) > 0 {
				return false
			}
		}
	}
	return true
}

// MenuFromEntries rebuilds a Menu from stored rows, grouping by meal then
// station in first-seen order. Rows are expected in insertion order, which
// matches the page order the fetcher produced.
func MenuFromEntries(hall string, entries []MenuEntry) *Menu {
	menu := &Menu{Hall: hall}
	mealIdx := map[string]int{}
	stationIdx := map[string]int{} // keyed by meal + "\x00" + station

	for _, e := range entries {
		mi, ok := mealIdx[e.Meal]
		if !ok {
			mi = len(menu.Meals)
			mealIdx[e.Meal] = mi
			menu.Meals = append(menu.Meals, Meal{Name: e.Meal})
		}

		key := e.Meal + "\x00" + e.Station
		si, ok := stationIdx[key]
		if !ok {
			si = len(menu.Meals[mi].Stations)
			stationIdx[key] = si
			menu.Meals[mi].Stations = append(menu.Meals[mi].Stations, Station{Name: e.Station})
		}

		menu.Meals[mi].Stations[si].Items = append(menu.Meals[mi].Stations[si].Items, e.Item)
	}

	return menu
}
