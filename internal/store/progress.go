package store

import (
	"github.com/uppa/uppa_core/internal/models"
)

// Reward values for the actions that advance progression
const (
	RewardReportXP     = 25
	RewardReportTokens = 5
	RewardTripXP       = 15
	RewardTripTokens   = 10
	RewardReviewXP     = 50
	RewardReviewTokens = 20
)

// Badge labels granted when reward thresholds are crossed
const (
	BadgeActivePilot  = "Piloto Activo"
	BadgeCollaborator = "Colaborador"
)

const (
	levelGrowthFactor = 1.5
	badgeXPCutoff     = 20
)

// applyProgress advances a profile by a reward. Leveling loops so that a
// single large reward can cross several levels, growing the threshold by
// the fixed factor (floored) on every level-up. Tokens are credited
// unconditionally and badges behave as a set.
func applyProgress(u models.UserProfile, xpGained, tokensGained int) models.UserProfile {
	xp := u.XP + xpGained
	level := u.Level
	next := u.XPToNextLevel

	for xp >= next {
		xp -= next
		level++
		next = int(float64(next) * levelGrowthFactor)
	}

	badges := append([]string(nil), u.Badges...)
	if xpGained > badgeXPCutoff {
		badges = addBadge(badges, BadgeActivePilot)
	}
	if tokensGained > 0 {
		badges = addBadge(badges, BadgeCollaborator)
	}

	u.XP = xp
	u.Level = level
	u.XPToNextLevel = next
	u.Tokens += tokensGained
	u.Badges = badges
	return u
}

// addBadge appends a badge unless it is already held
func addBadge(badges []string, badge string) []string {
	for _, b := range badges {
		if b == badge {
			return badges
		}
	}
	return append(badges, badge)
}
