package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationType_IsLike(t *testing.T) {
	assert.True(t, TypePostLike.IsLike())
	assert.True(t, TypeCommentLike.IsLike())
	assert.False(t, TypeComment.IsLike())
	assert.False(t, TypeSystem.IsLike())
	// Like detection is substring-based so future like variants
	// surface with the right treatment without a client update.
	assert.True(t, NotificationType("REPLY_LIKE").IsLike())
}

func TestSameIdentity(t *testing.T) {
	a := &User{ID: "u-1", Username: "dana"}
	sameID := &User{ID: "u-1", Username: "renamed"}
	other := &User{ID: "u-2"}

	assert.True(t, SameIdentity(a, sameID))
	assert.False(t, SameIdentity(a, other))
	assert.False(t, SameIdentity(a, nil))
	assert.False(t, SameIdentity(nil, a))
	assert.True(t, SameIdentity(nil, nil))
}
