// Package projection estimates how long a lifter needs to reach a target
// value and produces a synthetic trajectory for charting. The rates are
// training-folklore heuristics, not a fitted model: novices improve fast,
// advanced lifters face diminishing returns.
package projection

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Tier is the lifter's experience level from onboarding.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// GoalReached is the terminal ETA returned once current >= target.
const GoalReached = "Goal reached!"

// Sample is one historical measurement of the metric being projected.
type Sample struct {
	Value float64   `json:"value"`
	Date  time.Time `json:"date"`
}

// Point is one position on the projected trajectory.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// monthlyRate is the assumed monthly improvement, as a fraction of the
// current value, used when no usable history exists.
func (t Tier) monthlyRate() float64 {
	switch t {
	case TierBeginner:
		return 0.10
	case TierAdvanced:
		return 0.02
	default:
		return 0.05
	}
}

// rateMultiplier adjusts a measured daily rate for experience level.
func (t Tier) rateMultiplier() float64 {
	switch t {
	case TierBeginner:
		return 1.2
	case TierAdvanced:
		return 0.8
	default:
		return 1.0
	}
}

// EstimateETA renders a human-readable estimated time to goal. history
// must be ordered oldest first; it may be empty. Samples with a zero
// date or a non-finite value are skipped rather than failing the whole
// computation. The function never returns an error: every degenerate
// input falls back to the tier-based fixed rate.
func EstimateETA(current, target float64, tier Tier, history []Sample) string {
	if current >= target {
		return GoalReached
	}

	samples := usable(history)
	if len(samples) < 2 {
		return tierFallback(current, target, tier)
	}

	oldest := samples[0]
	newest := samples[len(samples)-1]

	days := newest.Date.Sub(oldest.Date).Hours() / 24
	if days <= 0 {
		return tierFallback(current, target, tier)
	}

	dailyRate := (newest.Value - oldest.Value) / days
	if dailyRate <= 0 {
		// No measured improvement, or regression.
		return tierFallback(current, target, tier)
	}

	adjusted := dailyRate * tier.rateMultiplier()
	daysToGoal := int(math.Ceil((target - current) / adjusted))

	return renderDays(daysToGoal)
}

// tierFallback estimates with the fixed monthly improvement rate.
func tierFallback(current, target float64, tier Tier) string {
	monthlyDelta := current * tier.monthlyRate()
	if monthlyDelta <= 0 {
		return "Not enough data"
	}

	months := int(math.Ceil((target - current) / monthlyDelta))
	switch {
	case months <= 1:
		return "~1 month"
	case months <= 12:
		return fmt.Sprintf("~%d months", months)
	default:
		years := int(math.Round(float64(months) / 12))
		if years <= 1 {
			return "~1 year"
		}
		return fmt.Sprintf("~%d years", years)
	}
}

func renderDays(days int) string {
	switch {
	case days <= 1:
		return "~1 day"
	case days <= 7:
		return fmt.Sprintf("~%d days", days)
	case days <= 30:
		weeks := int(math.Round(float64(days) / 7))
		if weeks <= 1 {
			return "~1 week"
		}
		return fmt.Sprintf("~%d weeks", weeks)
	case days <= 365:
		months := int(math.Round(float64(days) / 30))
		if months <= 1 {
			return "~1 month"
		}
		return fmt.Sprintf("~%d months", months)
	default:
		years := int(math.Round(float64(days) / 365))
		if years <= 1 {
			return "~1 year"
		}
		return fmt.Sprintf("~%d years", years)
	}
}

func usable(history []Sample) []Sample {
	out := make([]Sample, 0, len(history))
	for _, s := range history {
		if s.Date.IsZero() {
			continue
		}
		if math.IsNaN(s.Value) || math.IsInf(s.Value, 0) {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Trajectory expands an ETA into an ordered series of chart points from
// now to the goal, linearly interpolated. Point spacing follows the ETA
// unit: days get weekly points, weeks biweekly, months monthly, years
// quarterly. First point is always the current value, last always the
// target. A terminal or unparsable ETA yields no trajectory.
func Trajectory(current, target float64, eta string, now time.Time) []Point {
	totalDays, stepDays, ok := parseETA(eta)
	if !ok {
		return nil
	}

	points := []Point{{Date: now, Value: current}}
	span := target - current

	for d := stepDays; d < totalDays; d += stepDays {
		frac := float64(d) / float64(totalDays)
		points = append(points, Point{
			Date:  now.AddDate(0, 0, d),
			Value: current + span*frac,
		})
	}

	points = append(points, Point{
		Date:  now.AddDate(0, 0, totalDays),
		Value: target,
	})

	return points
}

// parseETA extracts the span and sub-interval, in days, from a rendered
// ETA string such as "~10 months".
func parseETA(eta string) (totalDays, stepDays int, ok bool) {
	fields := strings.Fields(strings.TrimPrefix(eta, "~"))
	if len(fields) != 2 {
		return 0, 0, false
	}

	n, err := strconv.Atoi(fields[0])
	if err != nil || n <= 0 {
		return 0, 0, false
	}

	switch strings.TrimSuffix(fields[1], "s") {
	case "day":
		return n, 7, true
	case "week":
		return n * 7, 14, true
	case "month":
		return n * 30, 30, true
	case "year":
		return n * 365, 91, true
	default:
		return 0, 0, false
	}
}
