// Package moderation decides whether freshly submitted content is published
// immediately or held for manual approval.
package moderation

import (
	"os"
	"strconv"
)

type Policy struct {
	AutoApproveReviews bool
	AutoApproveReplies bool
}

// FromEnv reads MODERATION_AUTO_APPROVE_REVIEWS and
// MODERATION_AUTO_APPROVE_REPLIES. Both default to false: a wrongly held
// submission can be approved later, a wrongly published one cannot be
// unseen.
func FromEnv() Policy {
	return Policy{
		AutoApproveReviews: envBool("MODERATION_AUTO_APPROVE_REVIEWS", false),
		AutoApproveReplies: envBool("MODERATION_AUTO_APPROVE_REPLIES", false),
	}
}

func (p Policy) ApproveReviewOnCreate() bool {
	return p.AutoApproveReviews
}

func (p Policy) ApproveReplyOnCreate() bool {
	return p.AutoApproveReplies
}

func envBool(key string, fallback bool) bool {
	val, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
