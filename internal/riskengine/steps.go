package riskengine

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/saferoute/saferoute/internal/routing"
)

// arriveInstruction replaces empty or terminal maneuvers.
const arriveInstruction = "Arrive at destination"

// genericSteps is the fixed fallback returned when the provider supplies no
// maneuvers at all. Deliberate placeholder behavior kept for client
// compatibility, not derived from actual geometry.
var genericSteps = []StepText{
	{Instruction: "Head northeast on Main St", Distance: "500m"},
	{Instruction: "Turn right onto Safe Corridor", Distance: "2.1km"},
	{Instruction: "Continue straight", Distance: "1.5km"},
	{Instruction: "Arrive at destination", Distance: "0m"},
}

// ExtractSteps converts a raw route's maneuver list into turn-by-turn text.
// Steps with pre-rendered instruction text pass through; otherwise the text
// is composed from the maneuver metadata.
func ExtractSteps(raw routing.RawRoute) []StepText {
	var steps []StepText

	for _, leg := range raw.Legs {
		for _, step := range leg.Steps {
			text := step.Instruction
			if text == "" {
				maneuver := step.ManeuverType
				if maneuver == "" {
					maneuver = "move"
				}
				text = strings.TrimSpace(maneuver + " " + step.ManeuverModifier)
				if step.Name != "" {
					text += " on " + step.Name
				}
			}

			if text == "" || text == "arrive" {
				text = arriveInstruction
			}

			steps = append(steps, StepText{
				Instruction: capitalize(text),
				Distance:    fmt.Sprintf("%.0fm", step.DistanceMeters),
			})
		}
	}

	if len(steps) == 0 {
		return append([]StepText(nil), genericSteps...)
	}

	return steps
}

// capitalize uppercases the first letter, leaving the rest untouched.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// formatTravelTime renders a duration in seconds as "1 hr 5 min" or "12 min".
func formatTravelTime(seconds float64) string {
	if seconds <= 0 {
		return "0 min"
	}
	h := int(seconds) / 3600
	m := (int(seconds) % 3600) / 60
	if h > 0 {
		return fmt.Sprintf("%d hr %d min", h, m)
	}
	return fmt.Sprintf("%d min", m)
}
