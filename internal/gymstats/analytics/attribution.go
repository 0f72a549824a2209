package analytics

import (
	"strings"
	"unicode"
)

const secondaryMuscleShare = 0.5

// CatalogEntry describes the muscles an exercise trains.
type CatalogEntry struct {
	Key       string        `json:"key"`
	Primary   MuscleGroup   `json:"primary"`
	Secondary []MuscleGroup `json:"secondary,omitempty"`
}

// Catalog is a read-only exercise lookup. Entries must return a stable order.
type Catalog interface {
	Lookup(nameOrKey string) (CatalogEntry, bool)
	Entries() []CatalogEntry
}

// Translator maps a catalog key to the display name users log exercises under.
type Translator interface {
	Translate(key string) string
}

type IdentityTranslator struct{}

func (IdentityTranslator) Translate(key string) string {
	return key
}

// DictionaryTranslator translates keys it knows and returns unknown keys unchanged.
type DictionaryTranslator map[string]string

func (d DictionaryTranslator) Translate(key string) string {
	if name, ok := d[key]; ok && name != "" {
		return name
	}
	return key
}

// keyword fallback for exercises missing from the catalog; first match wins.
// Keywords match whole words, the last keyword word may be a prefix ("curl" matches "curls").
var fallbackKeywords = []struct {
	group    MuscleGroup
	keywords []string
}{
	{MuscleCardio, []string{"rowing machine", "rower", "erg"}},
	{MuscleCalves, []string{"calf", "calves"}},
	{MuscleGlutes, []string{"hip thrust", "glute", "bridge", "kickback"}},
	{MuscleLegs, []string{"squat", "lunge", "leg", "step up", "hamstring", "quad"}},
	{MuscleBack, []string{"row", "pulldown", "pull up", "pullup", "chin", "deadlift", "lats"}},
	{MuscleTriceps, []string{"tricep", "extension", "pushdown", "skull"}},
	{MuscleBiceps, []string{"curl", "bicep"}},
	{MuscleShoulders, []string{"shoulder", "overhead", "military", "lateral", "raise", "delt", "arnold", "shrug"}},
	{MuscleChest, []string{"bench", "chest", "fly", "flye", "push up", "pushup", "dip", "press"}},
	{MuscleCore, []string{"plank", "crunch", "sit up", "situp", "abs", "abdominal", "core"}},
	{MuscleCardio, []string{"run", "bike", "cycling", "treadmill", "elliptical", "jump", "cardio"}},
}

// Resolver attributes exercise volume to muscle groups using a catalog,
// falling back to keyword matching on the exercise name.
type Resolver struct {
	catalog    Catalog
	translator Translator
}

func NewResolver(catalog Catalog, translator Translator) *Resolver {
	if translator == nil {
		translator = IdentityTranslator{}
	}
	return &Resolver{
		catalog:    catalog,
		translator: translator,
	}
}

// Resolve finds the catalog entry for an exercise name. It tries, in order, the translated
// display name, the catalog key and finally a substring match in either direction.
func (r *Resolver) Resolve(name string) (CatalogEntry, bool) {
	if r.catalog == nil {
		return CatalogEntry{}, false
	}
	needle := normalizeName(name)
	if needle == "" {
		return CatalogEntry{}, false
	}

	entries := r.catalog.Entries()
	for _, e := range entries {
		if normalizeName(r.translator.Translate(e.Key)) == needle {
			return e, true
		}
	}

	if e, ok := r.catalog.Lookup(name); ok {
		return e, true
	}

	for _, e := range entries {
		for _, candidate := range []string{
			normalizeName(r.translator.Translate(e.Key)),
			normalizeName(e.Key),
		} {
			if candidate == "" {
				continue
			}
			if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
				return e, true
			}
		}
	}

	return CatalogEntry{}, false
}

// Attribute distributes setCount over the muscles the exercise trains: the primary muscle
// gets setCount and every secondary muscle half of it. The result is not renormalized,
// so one primary plus one secondary attributes 1.5 x setCount in total.
func (r *Resolver) Attribute(name string, setCount int) *MuscleVolume {
	contribution := NewMuscleVolume()
	count := float64(setCount)

	entry, found := r.Resolve(name)
	if !found {
		contribution.Set(FallbackMuscleGroup(name), count)
		return contribution
	}

	addVolume(contribution, knownOrOther(entry.Primary), count)
	for _, secondary := range entry.Secondary {
		addVolume(contribution, knownOrOther(secondary), count*secondaryMuscleShare)
	}
	return contribution
}

// FallbackMuscleGroup guesses the muscle group from keywords in the exercise name.
func FallbackMuscleGroup(name string) MuscleGroup {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, fk := range fallbackKeywords {
		for _, kw := range fk.keywords {
			if containsKeyword(words, strings.Fields(kw)) {
				return fk.group
			}
		}
	}
	return MuscleOther
}

func containsKeyword(words, keyword []string) bool {
	last := len(keyword) - 1
	for i := 0; i+last < len(words); i++ {
		matched := true
		for j := 0; j < last; j++ {
			if words[i+j] != keyword[j] {
				matched = false
				break
			}
		}
		if matched && strings.HasPrefix(words[i+last], keyword[last]) {
			return true
		}
	}
	return false
}

func knownOrOther(mg MuscleGroup) MuscleGroup {
	if mg.IsKnown() {
		return mg
	}
	return MuscleOther
}

func normalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
