// Package matching blends oracle scores with a salary-fit heuristic into one
// overall candidate score.
package matching

import (
	"fmt"
	"math"

	"github.com/Dubey-IITB/resume-tracker/internal/model"
)

const (
	StrengthTechnical = "Technical skills match"
	StrengthGrowth    = "Potential growth candidate"
	StrengthSalary    = "Good salary fit"
	WeaknessJD        = "JD skills mismatch"
	WeaknessBudget    = "Budget constraints"
	WeaknessNone      = "None identified"
)

const (
	NegotiationNone        = "No negotiation needed"
	NegotiationMinor       = "Minor negotiation may be needed"
	NegotiationSignificant = "Significant negotiation required"
	NegotiationUnknown     = "Budget not specified"
)

// slightlyAboveFactor bounds the "Slightly above" band relative to budget.
const slightlyAboveFactor = 1.1

type Weights struct {
	JD          float64
	Comparative float64
	Salary      float64
}

func DefaultWeights() Weights {
	return Weights{JD: 0.4, Comparative: 0.3, Salary: 0.3}
}

type Input struct {
	JDScore          float64
	ComparativeScore float64
	CurrentCTC       float64
	ExpectedCTC      float64
	Budget           float64
}

type Result struct {
	JDScore          float64
	ComparativeScore float64
	SalaryScore      float64
	OverallScore     float64
	Strengths        []string
	Weaknesses       []string
	Salary           model.SalaryAnalysis
	Recommendation   string
}

// Blend is pure. Component scores are clamped to [0,1] and every score in the
// result is rounded to 3 decimals, half away from zero.
func Blend(in Input, w Weights) Result {
	jd := clamp01(in.JDScore)
	comp := clamp01(in.ComparativeScore)
	salary, fit, gap := SalaryFit(in.ExpectedCTC, in.Budget)

	overall := clamp01(w.JD*jd + w.Comparative*comp + w.Salary*salary)

	strengths := make([]string, 0, 2)
	if jd >= 0.6 {
		strengths = append(strengths, StrengthTechnical)
	} else {
		strengths = append(strengths, StrengthGrowth)
	}
	if salary >= 0.8 {
		strengths = append(strengths, StrengthSalary)
	}

	weaknesses := make([]string, 0, 2)
	if jd < 0.5 {
		weaknesses = append(weaknesses, WeaknessJD)
	}
	if salary < 0.5 {
		weaknesses = append(weaknesses, WeaknessBudget)
	}
	if len(weaknesses) == 0 {
		weaknesses = append(weaknesses, WeaknessNone)
	}

	overall = Round(overall, 3)
	return Result{
		JDScore:          Round(jd, 3),
		ComparativeScore: Round(comp, 3),
		SalaryScore:      Round(salary, 3),
		OverallScore:     overall,
		Strengths:        strengths,
		Weaknesses:       weaknesses,
		Salary: model.SalaryAnalysis{
			CurrentCTC:                in.CurrentCTC,
			ExpectedCTC:               in.ExpectedCTC,
			BudgetFit:                 fit,
			SalaryGapPercentage:       gap,
			NegotiationRecommendation: negotiationFor(fit),
		},
		Recommendation: fmt.Sprintf("Candidate has a %d%% overall match", int(math.Round(overall*100))),
	}
}

// SalaryFit scores expected against budget. The score peaks at 1 when they are
// equal and falls off linearly in both directions. A non-positive budget
// yields (0, "Unknown", 0).
func SalaryFit(expected, budget float64) (score float64, fit string, gapPct float64) {
	if budget <= 0 {
		return 0, model.BudgetFitUnknown, 0
	}
	ratio := expected / budget
	score = clamp01(1 - math.Abs(1-ratio))

	switch {
	case expected <= budget:
		fit = model.BudgetFitWithin
	case expected <= slightlyAboveFactor*budget:
		fit = model.BudgetFitSlightly
	default:
		fit = model.BudgetFitAbove
	}
	return score, fit, Round((ratio-1)*100, 2)
}

func negotiationFor(fit string) string {
	switch fit {
	case model.BudgetFitWithin:
		return NegotiationNone
	case model.BudgetFitSlightly:
		return NegotiationMinor
	case model.BudgetFitAbove:
		return NegotiationSignificant
	}
	return NegotiationUnknown
}

// Round rounds v to the given number of decimals, half away from zero.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
