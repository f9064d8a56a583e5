package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uppa/uppa_core/internal/models"
)

func TestApplyProgress(t *testing.T) {
	base := models.UserProfile{
		ID:            "u1",
		Name:          "Ana",
		Level:         1,
		XP:            0,
		XPToNextLevel: 100,
		Tokens:        1000,
		Badges:        []string{},
	}

	t.Run("XP below threshold accumulates", func(t *testing.T) {
		u := applyProgress(base, 25, 5)
		assert.Equal(t, 1, u.Level)
		assert.Equal(t, 25, u.XP)
		assert.Equal(t, 100, u.XPToNextLevel)
		assert.Equal(t, 1005, u.Tokens)
	})

	t.Run("Exact threshold levels up with zero leftover", func(t *testing.T) {
		u := applyProgress(base, 100, 0)
		assert.Equal(t, 2, u.Level)
		assert.Equal(t, 0, u.XP)
		assert.Equal(t, 150, u.XPToNextLevel)
	})

	t.Run("Large reward crosses several levels", func(t *testing.T) {
		u := base
		u.XP = 90
		u = applyProgress(u, 250, 0)
		// 90+250=340: -100 -> lvl 2 thr 150, -150 -> lvl 3 thr 225, 90 left
		assert.Equal(t, 3, u.Level)
		assert.Equal(t, 90, u.XP)
		assert.Equal(t, 225, u.XPToNextLevel)
	})

	t.Run("Threshold growth is floored", func(t *testing.T) {
		u := base
		u.XPToNextLevel = 225
		u = applyProgress(u, 225, 0)
		assert.Equal(t, 337, u.XPToNextLevel) // int(225 * 1.5)
	})

	t.Run("XP stays below threshold at rest", func(t *testing.T) {
		u := base
		for i := 0; i < 50; i++ {
			u = applyProgress(u, 50, 20)
			assert.Less(t, u.XP, u.XPToNextLevel)
		}
	})

	t.Run("Badges behave as a set", func(t *testing.T) {
		u := applyProgress(base, 25, 5)
		assert.ElementsMatch(t, []string{BadgeActivePilot, BadgeCollaborator}, u.Badges)

		u = applyProgress(u, 25, 5)
		assert.Len(t, u.Badges, 2)
	})

	t.Run("Small XP reward grants no pilot badge", func(t *testing.T) {
		u := applyProgress(base, 15, 10)
		assert.NotContains(t, u.Badges, BadgeActivePilot)
		assert.Contains(t, u.Badges, BadgeCollaborator)
	})

	t.Run("Input profile is not mutated", func(t *testing.T) {
		before := base
		_ = applyProgress(base, 250, 100)
		assert.Equal(t, before, base)
	})
}
