package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingState(t *testing.T) {
	tests := []struct {
		raw  string
		want BookingState
	}{
		{"", StateAll},
		{"ALL", StateAll},
		{"current", StateCurrent},
		{" Past ", StatePast},
		{"FUTURE", StateFuture},
		{"waiting", StateWaiting},
		{"REJECTED", StateRejected},
	}
	for _, tt := range tests {
		got, err := ParseBookingState(tt.raw)
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
		assert.True(t, got.Valid())
	}

	_, err := ParseBookingState("APPROVED")
	require.Error(t, err)
	assert.Equal(t, "Unknown state: APPROVED", err.Error())

	assert.False(t, StateUnknown.Valid())
	assert.Equal(t, "UNKNOWN", StateUnknown.String())
	assert.Equal(t, "CURRENT", StateCurrent.String())
}

func TestPageOffset(t *testing.T) {
	tests := []struct {
		from, size, offset int
	}{
		{0, 10, 0},
		{10, 10, 10},
		{5, 10, 0},
		{15, 10, 10},
		{7, 3, 6},
	}
	for _, tt := range tests {
		p := Page{From: tt.from, Size: tt.size}
		assert.True(t, p.Valid())
		assert.Equal(t, tt.offset, p.Offset(), "from=%d size=%d", tt.from, tt.size)
	}

	assert.False(t, Page{From: -1, Size: 10}.Valid())
	assert.False(t, Page{From: 0, Size: 0}.Valid())
}

func TestBookingIsParty(t *testing.T) {
	b := &Booking{BookerID: 5, OwnerID: 9}
	assert.True(t, b.IsParty(5))
	assert.True(t, b.IsParty(9))
	assert.False(t, b.IsParty(7))
}
