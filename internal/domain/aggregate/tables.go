package aggregate

import (
	"strings"

	"github.com/okian/pitchside/internal/domain/pillar"
)

// Session types as written by the check-in flows.
const (
	SessionTeamTraining         = "Team Training"
	SessionTactical             = "Tactical Session"
	SessionSmallGroup           = "Small Group Training"
	SessionSolo                 = "Solo Session"
	SessionTechnical            = "Technical Session"
	SessionStrengthConditioning = "Strength & Conditioning"
	SessionSpeedAgility         = "Speed & Agility"
	SessionSpeedTraining        = "Speed Training"
	SessionAgilityTraining      = "Agility Training"
	SessionConditioning         = "Conditioning"
	SessionMobilityRecovery     = "Mobility & Recovery"
	SessionMindsetWorkshop      = "Mindset Workshop"
	SessionFocusTraining        = "Focus Training"
	SessionVisualization        = "Visualization"
	SessionLeadership           = "Leadership Session"
	SessionCaptains             = "Captains Session"
)

// DefaultTechnicalAxis receives technical sessions whose skill cannot be resolved.
const DefaultTechnicalAxis = pillar.AxisBallMastery

// tacticalSessionTypes are the coach-verified check-ins that count toward
// the period of the date they happened on.
var tacticalSessionTypes = newSet(SessionTeamTraining, SessionTactical, SessionSmallGroup)

// technicalSessionTypes carry a skill through their session reference.
var technicalSessionTypes = newSet(SessionSolo, SessionTechnical)

// physicalSessionAxes maps a session type to every axis it trains.
var physicalSessionAxes = map[string][]string{
	sessionKey(SessionStrengthConditioning): {pillar.AxisStrength, pillar.AxisConditioning},
	sessionKey(SessionSpeedAgility):         {pillar.AxisSpeed, pillar.AxisAgility},
	sessionKey(SessionSpeedTraining):        {pillar.AxisSpeed},
	sessionKey(SessionAgilityTraining):      {pillar.AxisAgility},
	sessionKey(SessionConditioning):         {pillar.AxisConditioning},
	sessionKey(SessionMobilityRecovery):     {pillar.AxisMobility},
}

// physicalSkillAxes maps a normalized progress skill to its axis.
var physicalSkillAxes = map[string]string{
	"sprinting":           pillar.AxisSpeed,
	"acceleration":        pillar.AxisSpeed,
	"ladder-drills":       pillar.AxisAgility,
	"cone-drills":         pillar.AxisAgility,
	"change-of-direction": pillar.AxisAgility,
	"bodyweight-strength": pillar.AxisStrength,
	"core":                pillar.AxisStrength,
	"endurance":           pillar.AxisConditioning,
	"interval-running":    pillar.AxisConditioning,
	"stretching":          pillar.AxisMobility,
	"mobility":            pillar.AxisMobility,
}

// mentalSessionAxes maps a session type to its mental axis.
var mentalSessionAxes = map[string]string{
	sessionKey(SessionMindsetWorkshop): pillar.AxisResilience,
	sessionKey(SessionFocusTraining):   pillar.AxisFocus,
	sessionKey(SessionVisualization):   pillar.AxisFocus,
	sessionKey(SessionLeadership):      pillar.AxisLeadership,
	sessionKey(SessionCaptains):        pillar.AxisLeadership,
}

// knownSessionTypes is every session type some pillar recognizes. A type
// outside this set is counted as unclassified.
var knownSessionTypes = func() map[string]struct{} {
	known := map[string]struct{}{}
	for k := range tacticalSessionTypes {
		known[k] = struct{}{}
	}
	for k := range technicalSessionTypes {
		known[k] = struct{}{}
	}
	for k := range physicalSessionAxes {
		known[k] = struct{}{}
	}
	for k := range mentalSessionAxes {
		known[k] = struct{}{}
	}
	return known
}()

func newSet(types ...string) map[string]struct{} {
	s := make(map[string]struct{}, len(types))
	for _, t := range types {
		s[sessionKey(t)] = struct{}{}
	}
	return s
}

func isKnownSessionType(sessionType string) bool {
	_, ok := knownSessionTypes[sessionKey(sessionType)]
	return ok
}

// sessionKey folds case and surrounding space so "solo session " matches "Solo Session".
func sessionKey(sessionType string) string {
	return strings.ToLower(strings.TrimSpace(sessionType))
}

// NormalizeSkill turns a display skill into an axis key:
// lower case, trimmed, inner whitespace runs replaced by single hyphens.
func NormalizeSkill(skill string) string {
	return strings.Join(strings.Fields(strings.ToLower(skill)), "-")
}
