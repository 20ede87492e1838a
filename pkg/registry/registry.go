// Package registry holds the deploy-time list of dining halls and resolves
// free-text user input (nicknames, canonical slugs) to a hall identifier.
package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrHallNotFound is returned when input doesn't resolve to any known hall.
// Callers must treat it as invalid input, never fall back to a default hall.
var ErrHallNotFound = errors.New("no such hall")

// Hall is a single dining location with its canonical slug and the informal
// aliases users type in chat.
type Hall struct {
	Slug    string
	Aliases []string
}

// Registry resolves aliases to halls and lists halls in a fixed order.
type Registry struct {
	halls   []string
	byAlias map[string]string
}

// New builds a registry from the configured halls. Slugs must be unique and
// alias sets pairwise disjoint; overlaps would make resolution depend on
// iteration order, so they fail here instead.
func New(halls []Hall) (*Registry, error) {
	if len(halls) == 0 {
		return nil, errors.New("no halls configured")
	}

	r := &Registry{byAlias: make(map[string]string)}
	for _, h := range halls {
		slug := strings.ToLower(strings.TrimSpace(h.Slug))
		if slug == "" {
			return nil, errors.New("hall with empty slug")
		}
		if owner, ok := r.byAlias[slug]; ok {
			return nil, fmt.Errorf("hall %q conflicts with %q", slug, owner)
		}
		r.halls = append(r.halls, slug)
		r.byAlias[slug] = slug // canonical slug always resolves

		for _, alias := range h.Aliases {
			alias = strings.ToLower(strings.TrimSpace(alias))
			if alias == "" || alias == slug {
				continue
			}
			if owner, ok := r.byAlias[alias]; ok && owner != slug {
				return nil, fmt.Errorf("alias %q of hall %q already taken by %q", alias, slug, owner)
			}
			r.byAlias[alias] = slug
		}
	}

	return r, nil
}

// Default returns the registry with the stock hall set.
func Default() *Registry {
	r, err := New(DefaultHalls())
	if err != nil { // stock table is known-good
		panic(err)
	}
	return r
}

// DefaultHalls is the stock hall table with the aliases students actually use.
func DefaultHalls() []Hall {
	return []Hall{
		{Slug: "bursley", Aliases: []string{"burs"}},
		{Slug: "east-quad", Aliases: []string{"east quad", "east", "eq"}},
		{Slug: "markley", Aliases: []string{"mark"}},
		{Slug: "mosher-jordan", Aliases: []string{"mosher jordan", "mj", "mojo"}},
		{Slug: "north-quad", Aliases: []string{"north quad", "north", "nq"}},
		{Slug: "south-quad", Aliases: []string{"south quad", "south", "sq"}},
		{Slug: "twigs-at-oxford", Aliases: []string{"twigs at oxford", "twigs", "oxford", "twinner"}},
	}
}

// Resolve maps free-text input to a hall slug, case-insensitive.
func (r *Registry) Resolve(text string) (string, error) {
	if slug, ok := r.byAlias[strings.ToLower(strings.TrimSpace(text))]; ok {
		return slug, nil
	}
	return "", ErrHallNotFound
}

// Halls returns all hall slugs in registration order.
func (r *Registry) Halls() []string {
	res := make([]string, len(r.halls))
	copy(res, r.halls)
	return res
}
