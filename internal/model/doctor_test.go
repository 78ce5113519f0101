package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotLedgerHas(t *testing.T) {
	ledger := SlotLedger{
		"2026-09-01": {"10:00", "10:30"},
	}

	assert.True(t, ledger.Has("2026-09-01", "10:00"))
	assert.False(t, ledger.Has("2026-09-01", "11:00"))
	assert.False(t, ledger.Has("2026-09-02", "10:00"))

	var empty SlotLedger
	assert.False(t, empty.Has("2026-09-01", "10:00"))
}

func TestPublicProfile(t *testing.T) {
	doctor := Doctor{
		Name:         "Dr. Mehta",
		PasswordHash: "hash",
		Slots:        SlotLedger{"2026-09-01": {"10:00"}},
	}

	public := doctor.PublicProfile()

	assert.Empty(t, public.PasswordHash)
	assert.Nil(t, public.Slots)
	assert.Equal(t, "Dr. Mehta", public.Name)
	assert.Equal(t, "hash", doctor.PasswordHash)
}
