package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaultsToHeld(t *testing.T) {
	p := FromEnv()
	assert.False(t, p.ApproveReviewOnCreate())
	assert.False(t, p.ApproveReplyOnCreate())
}

func TestFromEnvReadsFlags(t *testing.T) {
	t.Setenv("MODERATION_AUTO_APPROVE_REVIEWS", "true")
	t.Setenv("MODERATION_AUTO_APPROVE_REPLIES", "false")

	p := FromEnv()
	assert.True(t, p.ApproveReviewOnCreate())
	assert.False(t, p.ApproveReplyOnCreate())
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("MODERATION_AUTO_APPROVE_REVIEWS", "yes please")

	p := FromEnv()
	assert.False(t, p.ApproveReviewOnCreate())
}
