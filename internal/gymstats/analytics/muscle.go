package analytics

import (
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

type MuscleGroup string

const (
	MuscleChest     MuscleGroup = "chest"
	MuscleBack      MuscleGroup = "back"
	MuscleLegs      MuscleGroup = "legs"
	MuscleGlutes    MuscleGroup = "glutes"
	MuscleShoulders MuscleGroup = "shoulders"
	MuscleBiceps    MuscleGroup = "biceps"
	MuscleTriceps   MuscleGroup = "triceps"
	MuscleForearms  MuscleGroup = "forearms"
	MuscleCore      MuscleGroup = "core"
	MuscleCalves    MuscleGroup = "calves"
	MuscleCardio    MuscleGroup = "cardio"
	MuscleFullBody  MuscleGroup = "full_body"
	MuscleOther     MuscleGroup = "other"
)

// CanonicalMuscleGroups is the closed set of muscle groups, in display order.
var CanonicalMuscleGroups = []MuscleGroup{
	MuscleChest,
	MuscleBack,
	MuscleLegs,
	MuscleGlutes,
	MuscleShoulders,
	MuscleBiceps,
	MuscleTriceps,
	MuscleForearms,
	MuscleCore,
	MuscleCalves,
	MuscleCardio,
	MuscleFullBody,
	MuscleOther,
}

var muscleSynonyms = map[string]MuscleGroup{
	"pecs":         MuscleChest,
	"pectorals":    MuscleChest,
	"lats":         MuscleBack,
	"upper_back":   MuscleBack,
	"lower_back":   MuscleBack,
	"traps":        MuscleBack,
	"quads":        MuscleLegs,
	"quadriceps":   MuscleLegs,
	"hamstrings":   MuscleLegs,
	"adductors":    MuscleLegs,
	"abductors":    MuscleLegs,
	"glute":        MuscleGlutes,
	"delts":        MuscleShoulders,
	"deltoids":     MuscleShoulders,
	"shoulder":     MuscleShoulders,
	"bicep":        MuscleBiceps,
	"tricep":       MuscleTriceps,
	"forearm":      MuscleForearms,
	"abs":          MuscleCore,
	"abdominals":   MuscleCore,
	"obliques":     MuscleCore,
	"calf":         MuscleCalves,
	"fullbody":     MuscleFullBody,
	"full_body":    MuscleFullBody,
	"conditioning": MuscleCardio,
}

// ParseMuscleGroup folds a free-form muscle group name into the closed set.
// Unknown names become MuscleOther.
func ParseMuscleGroup(s string) MuscleGroup {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	for _, mg := range CanonicalMuscleGroups {
		if string(mg) == key {
			return mg
		}
	}
	if mg, ok := muscleSynonyms[key]; ok {
		return mg
	}
	return MuscleOther
}

func (mg MuscleGroup) IsKnown() bool {
	for _, c := range CanonicalMuscleGroups {
		if c == mg {
			return true
		}
	}
	return false
}

func (mg MuscleGroup) MarshalText() ([]byte, error) {
	return []byte(mg), nil
}

func (mg *MuscleGroup) UnmarshalText(text []byte) error {
	*mg = ParseMuscleGroup(string(text))
	return nil
}

// MuscleVolume maps muscle groups to an attributed amount (sets or weight), keeping
// insertion order so that JSON output and tie-breaks are deterministic.
type MuscleVolume = orderedmap.OrderedMap[MuscleGroup, float64]

func NewMuscleVolume() *MuscleVolume {
	return orderedmap.New[MuscleGroup, float64]()
}

func addVolume(mv *MuscleVolume, mg MuscleGroup, amount float64) {
	current, _ := mv.Get(mg)
	mv.Set(mg, current+amount)
}

// mergeVolume adds every entry of src into dst, folding unknown groups into MuscleOther.
func mergeVolume(dst, src *MuscleVolume) {
	if src == nil {
		return
	}
	for pair := src.Oldest(); pair != nil; pair = pair.Next() {
		mg := pair.Key
		if !mg.IsKnown() {
			mg = MuscleOther
		}
		addVolume(dst, mg, pair.Value)
	}
}
