package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestQuotaGate_SingleUserAlwaysAllows(t *testing.T) {
	messages := new(MockMessageRepository)
	gate := NewQuotaGate(messages, false, 24*time.Hour, 100)

	allowed, err := gate.CanSend(context.Background(), testUser(1))
	require.NoError(t, err)
	assert.True(t, allowed)

	allowed, err = gate.CanSend(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, allowed)

	messages.AssertNotCalled(t, "CountByUserSince", mock.Anything, mock.Anything, mock.Anything)
}

func TestQuotaGate_AnonymousCallerAllowed(t *testing.T) {
	messages := new(MockMessageRepository)
	gate := NewQuotaGate(messages, true, 24*time.Hour, 100)

	allowed, err := gate.CanSend(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestQuotaGate_Boundary(t *testing.T) {
	ctx := context.Background()
	user := testUser(5)

	tests := []struct {
		name    string
		count   int
		allowed bool
	}{
		{"well under", 0, true},
		{"one below limit", 4, true},
		{"at limit", 5, false},
		{"over limit", 6, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messages := new(MockMessageRepository)
			messages.On("CountByUserSince", ctx, user.ID, mock.AnythingOfType("time.Time")).
				Return(tt.count, nil)

			gate := NewQuotaGate(messages, true, 24*time.Hour, 100)
			allowed, err := gate.CanSend(ctx, user)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestQuotaGate_WindowIsTrailing24Hours(t *testing.T) {
	ctx := context.Background()
	user := testUser(5)

	messages := new(MockMessageRepository)
	messages.On("CountByUserSince", ctx, user.ID, mock.MatchedBy(func(since time.Time) bool {
		expected := time.Now().Add(-24 * time.Hour)
		return since.Sub(expected).Abs() < time.Minute
	})).Return(0, nil)

	gate := NewQuotaGate(messages, true, 24*time.Hour, 100)
	_, err := gate.CanSend(ctx, user)
	require.NoError(t, err)
	messages.AssertExpectations(t)
}

func TestQuotaGate_CountErrorPropagates(t *testing.T) {
	ctx := context.Background()
	user := testUser(5)

	messages := new(MockMessageRepository)
	messages.On("CountByUserSince", ctx, user.ID, mock.AnythingOfType("time.Time")).
		Return(0, errors.New("db down"))

	gate := NewQuotaGate(messages, true, 24*time.Hour, 100)
	_, err := gate.CanSend(ctx, user)
	assert.Error(t, err)
}

func TestQuotaGate_DefaultLimitFallback(t *testing.T) {
	messages := new(MockMessageRepository)
	gate := NewQuotaGate(messages, true, 24*time.Hour, 50)

	assert.Equal(t, 50, gate.LimitFor(testUser(0)))
	assert.Equal(t, 50, gate.LimitFor(nil))
	assert.Equal(t, 7, gate.LimitFor(testUser(7)))
}
