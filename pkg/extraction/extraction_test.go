package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bvquist1400/mission-control/pkg/models"
)

func TestDedupeKeyPrefersMessageID(t *testing.T) {
	msgID := "msg-1"
	subject := "Hello"
	email := "a@b.com"
	received := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	withMsg := DedupeKey("owner-1", Input{MessageID: &msgID, Subject: &subject, FromEmail: &email, ReceivedAt: received})
	otherSubject := "Different"
	withMsgDifferentSubject := DedupeKey("owner-1", Input{MessageID: &msgID, Subject: &otherSubject, FromEmail: &email, ReceivedAt: received})
	assert.Equal(t, withMsg, withMsgDifferentSubject)

	withoutMsg := DedupeKey("owner-1", Input{Subject: &subject, FromEmail: &email, ReceivedAt: received})
	assert.NotEqual(t, withMsg, withoutMsg)
}

func TestDedupeKeyDeterministicWithoutMessageID(t *testing.T) {
	subject := "Hello"
	email := "a@b.com"
	received := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	a := DedupeKey("owner-1", Input{Subject: &subject, FromEmail: &email, ReceivedAt: received})
	b := DedupeKey("owner-1", Input{Subject: &subject, FromEmail: &email, ReceivedAt: received})
	assert.Equal(t, a, b)
}

func TestResolveImplementationRequiresConfidenceFloor(t *testing.T) {
	apps := []*models.Application{{ID: "app-1", Name: "Benefits Portal"}}
	guess := "benefits"
	low := 0.5
	high := 0.9

	assert.Nil(t, resolveImplementation(&guess, &low, apps))
	id := resolveImplementation(&guess, &high, apps)
	if assert.NotNil(t, id) {
		assert.Equal(t, "app-1", *id)
	}
}

func TestResolveImplementationNoMatch(t *testing.T) {
	apps := []*models.Application{{ID: "app-1", Name: "Benefits Portal"}}
	guess := "payroll"
	high := 0.9
	assert.Nil(t, resolveImplementation(&guess, &high, apps))
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}

func TestClip(t *testing.T) {
	assert.Equal(t, 0.0, clip(-10, 0, 100))
	assert.Equal(t, 100.0, clip(150, 0, 100))
	assert.Equal(t, 42.0, clip(42, 0, 100))
}
