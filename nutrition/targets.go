// Package nutrition derives metabolic targets from user biometrics and keeps
// the selected-goal projection on the user in sync with the per-goal tables.
package nutrition

import (
	"errors"
	"math"

	"github.com/d3vsino/myfittrackbackend/models"
)

// Gender is a parsed gender input. Anything other than "male" uses the
// female BMR offset; see BMR.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ActivityLevel selects the TDEE multiplier applied to the BMR.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivitySuper     ActivityLevel = "super"
)

// GoalType is the calorie goal a user tracks against.
type GoalType string

const (
	GoalMaintain GoalType = "maintain"
	GoalGain     GoalType = "gain"
	GoalLose     GoalType = "lose"
)

// DefaultActivityLevel is used when the input does not name a known level.
const DefaultActivityLevel = ActivitySedentary

// DefaultGoal is the protein-factor fallback for unknown goal strings.
const DefaultGoal = GoalMaintain

var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary: 1.2,
	ActivityLight:     1.375,
	ActivityModerate:  1.55,
	ActivityActive:    1.725,
	ActivitySuper:     1.9,
}

var proteinFactors = map[GoalType]float64{
	GoalLose:     2.0,
	GoalMaintain: 1.3,
	GoalGain:     1.8,
}

// ErrIncompleteBiometrics is returned when age, height or weight is missing
// or non-positive. Target derivation is all-or-nothing: callers must not
// persist any derived value when this is returned.
var ErrIncompleteBiometrics = errors.New("age, height and weight must be present and positive")

// ParseGoal reports whether s names a known goal.
func ParseGoal(s string) (GoalType, bool) {
	g := GoalType(s)
	_, ok := proteinFactors[g]
	return g, ok
}

// ParseGender reports whether s names a known gender.
func ParseGender(s string) (Gender, bool) {
	g := Gender(s)
	return g, g == GenderMale || g == GenderFemale
}

// ParseActivityLevel reports whether s names a known activity level.
func ParseActivityLevel(s string) (ActivityLevel, bool) {
	l := ActivityLevel(s)
	_, ok := activityMultipliers[l]
	return l, ok
}

// ActivityMultiplier resolves the TDEE multiplier for a level, falling back
// to the sedentary multiplier for unknown input.
func ActivityMultiplier(level ActivityLevel) float64 {
	if m, ok := activityMultipliers[level]; ok {
		return m
	}
	return activityMultipliers[DefaultActivityLevel]
}

// BMR computes the Mifflin-St Jeor basal metabolic rate. Any gender other
// than male uses the female offset of -161; that default is a policy choice
// of this system, not part of the formula.
func BMR(weightKg, heightCm float64, age uint, gender Gender) float64 {
	offset := -161.0
	if gender == GenderMale {
		offset = 5.0
	}
	return 10*weightKg + 6.25*heightCm - 5*float64(age) + offset
}

// Macros is a protein/fat/carbs triple in grams.
type Macros struct {
	Protein float64
	Fat     float64
	Carbs   float64
}

// MacroSplit divides a calorie target into macros. Protein comes first at a
// per-goal g/kg factor (unknown goals use the maintain factor); of the
// remaining calories, floored at zero, 25% go to fat and 75% to carbs.
func MacroSplit(calories, weightKg float64, goal GoalType) Macros {
	factor, ok := proteinFactors[goal]
	if !ok {
		factor = proteinFactors[DefaultGoal]
	}

	protein := round1(weightKg * factor)

	remaining := calories - protein*4
	if remaining < 0 {
		remaining = 0
	}

	fatCalories := remaining * 0.25
	carbCalories := remaining * 0.75

	return Macros{
		Protein: protein,
		Fat:     round1(fatCalories / 9),
		Carbs:   round1(carbCalories / 4),
	}
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}

// Biometrics is the input to target derivation.
type Biometrics struct {
	Age           uint
	Gender        Gender
	HeightCm      float64
	WeightKg      float64
	ActivityLevel ActivityLevel
}

// Targets is the full derived output: BMR, three calorie targets and the
// per-goal macro split for each target.
type Targets struct {
	BMR                 float64
	MaintenanceCalories float64
	GainCalories        float64
	LossCalories        float64
	Maintenance         Macros
	Gain                Macros
	Loss                Macros
}

// DeriveTargets validates the biometrics and computes every derived value.
// The gain and loss targets sit exactly 300 kcal either side of maintenance,
// and each goal's macro split uses that goal's own calorie target.
func DeriveTargets(b Biometrics) (Targets, error) {
	if b.Age == 0 || b.HeightCm <= 0 || b.WeightKg <= 0 {
		return Targets{}, ErrIncompleteBiometrics
	}

	bmr := BMR(b.WeightKg, b.HeightCm, b.Age, b.Gender)
	maintenance := bmr * ActivityMultiplier(b.ActivityLevel)
	gain := maintenance + 300
	loss := maintenance - 300

	return Targets{
		BMR:                 bmr,
		MaintenanceCalories: maintenance,
		GainCalories:        gain,
		LossCalories:        loss,
		Maintenance:         MacroSplit(maintenance, b.WeightKg, GoalMaintain),
		Gain:                MacroSplit(gain, b.WeightKg, GoalGain),
		Loss:                MacroSplit(loss, b.WeightKg, GoalLose),
	}, nil
}

// SetTargets writes the derived values onto the user record.
func SetTargets(u *models.User, t Targets) {
	u.BMR = t.BMR
	u.MaintenanceCalories = t.MaintenanceCalories
	u.GainCalories = t.GainCalories
	u.LossCalories = t.LossCalories
	u.MaintenanceProtein = t.Maintenance.Protein
	u.MaintenanceFat = t.Maintenance.Fat
	u.MaintenanceCarbs = t.Maintenance.Carbs
	u.GainProtein = t.Gain.Protein
	u.GainFat = t.Gain.Fat
	u.GainCarbs = t.Gain.Carbs
	u.LossProtein = t.Loss.Protein
	u.LossFat = t.Loss.Fat
	u.LossCarbs = t.Loss.Carbs
}

// ApplyGoal points the current_* projection at the per-goal values matching
// goal. It is the only write path for those fields. Reapplying the selected
// goal changes nothing, and an unknown goal string leaves the projection
// untouched without error.
func ApplyGoal(u *models.User, goal GoalType) {
	switch goal {
	case GoalMaintain:
		u.CurrentCalorieGoal = u.MaintenanceCalories
		u.CurrentProteinGoal = u.MaintenanceProtein
		u.CurrentFatGoal = u.MaintenanceFat
		u.CurrentCarbsGoal = u.MaintenanceCarbs
	case GoalGain:
		u.CurrentCalorieGoal = u.GainCalories
		u.CurrentProteinGoal = u.GainProtein
		u.CurrentFatGoal = u.GainFat
		u.CurrentCarbsGoal = u.GainCarbs
	case GoalLose:
		u.CurrentCalorieGoal = u.LossCalories
		u.CurrentProteinGoal = u.LossProtein
		u.CurrentFatGoal = u.LossFat
		u.CurrentCarbsGoal = u.LossCarbs
	default:
		return
	}
	u.CalorieGoalType = string(goal)
}
