// Package catalog maps city identifiers to dataset files.
package catalog

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"bikeshare-platform/internal/models"
)

// City is a catalog entry
type City struct {
	ID   string `json:"id" yaml:"id"`
	File string `json:"file" yaml:"file"`
}

// Catalog is an immutable city id -> dataset mapping. Lookups are
// case-insensitive.
type Catalog struct {
	cities map[string]City
}

// catalogFile is the YAML layout read by LoadFile
type catalogFile struct {
	Cities []City `yaml:"cities"`
}

// Default returns the built-in catalog
func Default() *Catalog {
	c, _ := New([]City{
		{ID: "chicago", File: "chicago.csv"},
		{ID: "new york city", File: "new_york_city.csv"},
		{ID: "washington", File: "washington.csv"},
	})
	return c
}

// New builds a catalog, rejecting empty or duplicate ids
func New(cities []City) (*Catalog, error) {
	if len(cities) == 0 {
		return nil, fmt.Errorf("catalog has no cities")
	}

	c := &Catalog{cities: make(map[string]City, len(cities))}
	for _, city := range cities {
		id := normalize(city.ID)
		if id == "" {
			return nil, fmt.Errorf("catalog entry with file %q has no id", city.File)
		}
		if strings.TrimSpace(city.File) == "" {
			return nil, fmt.Errorf("catalog entry %q has no file", city.ID)
		}
		if _, exists := c.cities[id]; exists {
			return nil, fmt.Errorf("duplicate catalog entry %q", city.ID)
		}
		c.cities[id] = City{ID: id, File: strings.TrimSpace(city.File)}
	}

	return c, nil
}

// LoadFile reads a YAML catalog:
//
//	cities:
//	  - id: chicago
//	    file: chicago.csv
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file %s: %w", path, err)
	}

	return New(f.Cities)
}

// Resolve looks up a city id, ignoring case and surrounding whitespace
func (c *Catalog) Resolve(id string) (City, error) {
	city, ok := c.cities[normalize(id)]
	if !ok {
		return City{}, &models.UnknownCityError{City: id}
	}
	return city, nil
}

// Cities returns all entries sorted by id
func (c *Catalog) Cities() []City {
	cities := make([]City, 0, len(c.cities))
	for _, city := range c.cities {
		cities = append(cities, city)
	}
	sort.Slice(cities, func(i, j int) bool { return cities[i].ID < cities[j].ID })
	return cities
}

// IDs returns all city ids sorted
func (c *Catalog) IDs() []string {
	cities := c.Cities()
	ids := make([]string, len(cities))
	for i, city := range cities {
		ids[i] = city.ID
	}
	return ids
}

func normalize(id string) string {
	return strings.Join(strings.Fields(strings.ToLower(id)), " ")
}
