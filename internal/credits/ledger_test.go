// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package credits

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateCost(t *testing.T) {
	tests := []struct {
		name                 string
		contacts, dataPoints int
		want                 int
	}{
		{"three contacts two points", 3, 2, 6},
		{"single contact single point", 1, 1, 1},
		{"zero contacts", 0, 2, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateCost(tt.contacts, tt.dataPoints))
		})
	}
}

func TestReserveUnknownBalanceAllows(t *testing.T) {
	l := NewLedger()

	// No balance observed yet: the provider is the authority, let it decide.
	release, err := l.Reserve(10)
	require.NoError(t, err)
	release()
}

func TestReserveInsufficient(t *testing.T) {
	l := NewLedger()
	l.Observe(4)

	_, err := l.Reserve(6)
	assert.ErrorIs(t, err, ErrInsufficientCredits)

	// The failed reserve must not consume anything.
	_, remaining, known := l.Snapshot()
	assert.True(t, known)
	assert.Equal(t, 4, remaining)

	// The gate must be free again for the next caller.
	release, err := l.Reserve(4)
	require.NoError(t, err)
	release()
}

func TestObserveAndSpend(t *testing.T) {
	l := NewLedger()
	l.Observe(10)

	release, err := l.Reserve(6)
	require.NoError(t, err)
	l.AddUsed(6)
	release()

	used, remaining, known := l.Snapshot()
	assert.True(t, known)
	assert.Equal(t, 6, used)
	assert.Equal(t, 4, remaining)
}

func TestAddUsedNeverGoesNegative(t *testing.T) {
	l := NewLedger()
	l.Observe(2)
	l.AddUsed(5)

	_, remaining, _ := l.Snapshot()
	assert.Equal(t, 0, remaining)
}

func TestReserveSerializesPaidCalls(t *testing.T) {
	l := NewLedger()
	l.Observe(100)

	release, err := l.Reserve(1)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r2, err2 := l.Reserve(1)
		require.NoError(t, err2)
		r2()
		close(acquired)
	}()

	time.Sleep(10 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("second Reserve succeeded while first still held the gate")
	default:
	}

	release()
	<-acquired
}
