package catalog

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/2beens/gymstats/internal/gymstats/analytics"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

var ErrInvalidCatalogEntry = errors.New("invalid catalog entry")

// Exercise is a catalog entry as defined in TOML files and the exercise_type table.
type Exercise struct {
	Key       string   `toml:"key" json:"key"`
	Name      string   `toml:"name" json:"name"`
	Primary   string   `toml:"primary" json:"primary"`
	Secondary []string `toml:"secondary" json:"secondary,omitempty"`
	Aliases   []string `toml:"aliases" json:"aliases,omitempty"`
}

type catalogFile struct {
	Exercises []Exercise `toml:"exercise"`
}

var _ analytics.Catalog = (*Catalog)(nil)

// Catalog is an immutable, validated set of exercises.
type Catalog struct {
	exercises []Exercise
	entries   []analytics.CatalogEntry
	// normalized key or alias -> position in entries
	index map[string]int
}

// New validates the exercises and builds the lookup index.
// All problems are reported at once; unknown secondary muscles fold into "other".
func New(exercises []Exercise) (*Catalog, error) {
	c := &Catalog{
		exercises: make([]Exercise, 0, len(exercises)),
		entries:   make([]analytics.CatalogEntry, 0, len(exercises)),
		index:     make(map[string]int, len(exercises)),
	}

	var errs error
	for i, ex := range exercises {
		key := normalize(ex.Key)
		if key == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: exercise #%d has no key", ErrInvalidCatalogEntry, i))
			continue
		}
		if _, exists := c.index[key]; exists {
			errs = multierr.Append(errs, fmt.Errorf("%w: duplicate key %q", ErrInvalidCatalogEntry, ex.Key))
			continue
		}
		if !isKnownMuscle(ex.Primary) {
			errs = multierr.Append(errs, fmt.Errorf("%w: %q has unknown primary muscle %q", ErrInvalidCatalogEntry, ex.Key, ex.Primary))
			continue
		}

		entry := analytics.CatalogEntry{
			Key:     strings.TrimSpace(ex.Key),
			Primary: analytics.ParseMuscleGroup(ex.Primary),
		}
		for _, s := range ex.Secondary {
			entry.Secondary = append(entry.Secondary, analytics.ParseMuscleGroup(s))
		}

		pos := len(c.entries)
		c.exercises = append(c.exercises, ex)
		c.entries = append(c.entries, entry)
		c.index[key] = pos
		for _, alias := range ex.Aliases {
			a := normalize(alias)
			if a == "" {
				continue
			}
			if _, exists := c.index[a]; !exists {
				c.index[a] = pos
			}
		}
	}

	if errs != nil {
		return nil, errs
	}

	return c, nil
}

// Load decodes a TOML catalog (a list of [[exercise]] tables).
func Load(data string) (*Catalog, error) {
	var f catalogFile
	if _, err := toml.Decode(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.Exercises)
}

func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Load(string(data))
}

// Lookup finds an exercise by key or alias, ignoring case, spaces, dashes and underscores.
func (c *Catalog) Lookup(nameOrKey string) (analytics.CatalogEntry, bool) {
	pos, ok := c.index[normalize(nameOrKey)]
	if !ok {
		return analytics.CatalogEntry{}, false
	}
	return c.entries[pos], true
}

func (c *Catalog) Entries() []analytics.CatalogEntry {
	return c.entries
}

func (c *Catalog) Exercises() []Exercise {
	return c.exercises
}

func (c *Catalog) Len() int {
	return len(c.entries)
}

// Translator maps catalog keys to display names.
func (c *Catalog) Translator() analytics.DictionaryTranslator {
	names := make(analytics.DictionaryTranslator, len(c.exercises))
	for _, ex := range c.exercises {
		if ex.Name != "" {
			names[strings.TrimSpace(ex.Key)] = ex.Name
		}
	}
	return names
}

func isKnownMuscle(name string) bool {
	mg := analytics.ParseMuscleGroup(name)
	return mg != analytics.MuscleOther || normalize(name) == string(analytics.MuscleOther)
}

func normalize(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
