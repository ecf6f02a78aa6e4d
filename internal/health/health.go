// Package health turns the number of days since a quit date into recovery
// indices from 0 to 100 and a few savings figures.
package health

import "math"

const (
	minutesPerCigarette     = 20
	defaultCigarettesPerDay = 10
	daysPerMonth            = 30
)

// Indices holds every recovery index for one day.
type Indices struct {
	NicotineExpelled           int
	CarbonMonoxideLevel        int
	PulseRate                  int
	OxygenLevels               int
	TasteAndSmell              int
	Breathing                  int
	EnergyLevels               int
	Circulation                int
	GumTexture                 int
	ImmunityAndLungFunction    int
	ReducedRiskOfHeartDisease  int
	DecreasedRiskOfLungCancer  int
	DecreasedRiskOfHeartAttack int
	LifeRegainedInHours        int
}

// Compute evaluates every index. Days at or before the quit date give zeros.
func Compute(days int) Indices {
	return Indices{
		NicotineExpelled:           NicotineExpelled(days),
		CarbonMonoxideLevel:        CarbonMonoxideLevel(days),
		PulseRate:                  PulseRate(days),
		OxygenLevels:               OxygenLevels(days),
		TasteAndSmell:              TasteAndSmell(days),
		Breathing:                  Breathing(days),
		EnergyLevels:               EnergyLevels(days),
		Circulation:                Circulation(days),
		GumTexture:                 GumTexture(days),
		ImmunityAndLungFunction:    ImmunityAndLungFunction(days),
		ReducedRiskOfHeartDisease:  ReducedRiskOfHeartDisease(days),
		DecreasedRiskOfLungCancer:  DecreasedRiskOfLungCancer(days),
		DecreasedRiskOfHeartAttack: DecreasedRiskOfHeartAttack(days),
		LifeRegainedInHours:        LifeRegainedInHours(days),
	}
}

// round clamps to 100 and rounds half to even.
func round(index float64) int {
	return int(math.RoundToEven(math.Min(index, 100)))
}

// exponentialRecovery models elimination with the given half-life in hours.
func exponentialRecovery(days int, halfLifeHours float64) int {
	if days <= 0 {
		return 0
	}
	tauDays := halfLifeHours / math.Ln2 / 24
	return round(100 * (1 - math.Exp(-float64(days)/tauDays)))
}

// linearRecovery reaches 100 after fullDays.
func linearRecovery(days int, fullDays float64) int {
	if days <= 0 {
		return 0
	}
	return round(float64(days) / fullDays * 100)
}

// relativeRisk converts a relative-risk decay towards rrInf with time
// constant tauMonths into the share of excess risk already removed.
func relativeRisk(days int, rrInf, tauMonths float64) int {
	if days <= 0 {
		return 0
	}
	months := float64(days) / daysPerMonth
	rr := (1-rrInf)*math.Exp(-months/tauMonths) + rrInf
	return round((1 - rr) / (1 - rrInf) * 100)
}

func NicotineExpelled(days int) int    { return exponentialRecovery(days, 2) }
func CarbonMonoxideLevel(days int) int { return exponentialRecovery(days, 5) }
func PulseRate(days int) int           { return linearRecovery(days, 1) }
func OxygenLevels(days int) int        { return linearRecovery(days, 3) }
func TasteAndSmell(days int) int       { return linearRecovery(days, 60) }
func Breathing(days int) int           { return linearRecovery(days, 90) }
func EnergyLevels(days int) int        { return linearRecovery(days, 90) }
func Circulation(days int) int         { return linearRecovery(days, 90) }
func GumTexture(days int) int          { return linearRecovery(days, 180) }

func ImmunityAndLungFunction(days int) int { return linearRecovery(days, 14) }

// ReducedRiskOfHeartDisease halves the excess risk every 12 months.
func ReducedRiskOfHeartDisease(days int) int {
	return relativeRisk(days, 0.5, 12/math.Ln2)
}

func DecreasedRiskOfLungCancer(days int) int {
	return relativeRisk(days, 0.03, 162)
}

func DecreasedRiskOfHeartAttack(days int) int {
	return ReducedRiskOfHeartDisease(days)
}

// LifeRegainedInHours assumes ten cigarettes a day at twenty minutes each.
func LifeRegainedInHours(days int) int {
	if days <= 0 {
		return 0
	}
	hoursPerDay := float64(defaultCigarettesPerDay*minutesPerCigarette) / 60
	return int(math.RoundToEven(float64(days) * hoursPerDay))
}

type Savings struct {
	CigarettesAvoided int
	MoneySaved        int
	MinutesNotSmoked  int
}

// ComputeSavings uses the user's own habits. price is per cigarette in minor
// currency units.
func ComputeSavings(days, cigPerDay, price int) Savings {
	if days <= 0 || cigPerDay <= 0 {
		return Savings{}
	}
	avoided := days * cigPerDay
	return Savings{
		CigarettesAvoided: avoided,
		MoneySaved:        avoided * price,
		MinutesNotSmoked:  avoided * minutesPerCigarette,
	}
}
