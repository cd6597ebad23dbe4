package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusOrder(t *testing.T) {
	t.Run("ranks form a strict total order", func(t *testing.T) {
		prev := -1
		for _, s := range []Status{
			StatusOpen, StatusAccepted, StatusPickedUp, StatusAtOriginAirport,
			StatusInFlight, StatusAtDestinationAirport, StatusOutForDelivery,
			StatusDelivered, StatusCompleted,
		} {
			r := s.Rank()
			assert.Greater(t, r, prev, "rank of %s must exceed its predecessor", s)
			prev = r
		}
	})

	t.Run("next walks the whole chain", func(t *testing.T) {
		s := StatusOpen
		steps := 0
		for {
			next, ok := s.Next()
			if !ok {
				break
			}
			s = next
			steps++
		}
		assert.Equal(t, StatusCompleted, s)
		assert.Equal(t, 8, steps)
	})

	t.Run("completed has no successor", func(t *testing.T) {
		_, ok := StatusCompleted.Next()
		assert.False(t, ok)
	})

	t.Run("cancelled is valid but outside the order", func(t *testing.T) {
		assert.True(t, StatusCancelled.Valid())
		assert.Equal(t, -1, StatusCancelled.Rank())
		assert.True(t, StatusCancelled.Terminal())
	})

	t.Run("unknown status is invalid", func(t *testing.T) {
		assert.False(t, Status("teleported").Valid())
	})
}

func testItem(status Status) *Item {
	acceptor := "passenger-1"
	it := &Item{
		ID:     "item-1",
		UserID: "requester-1",
		Status: status,
	}
	if status.Rank() >= StatusAccepted.Rank() {
		it.AcceptorID = &acceptor
	}
	return it
}

func TestValidateTransition(t *testing.T) {
	t.Run("only the immediate successor is reachable", func(t *testing.T) {
		it := testItem(StatusAccepted)

		require.NoError(t, ValidateTransition(it, "passenger-1", StatusPickedUp))
		assert.ErrorIs(t, ValidateTransition(it, "passenger-1", StatusInFlight), ErrInvalidTransition)
		assert.ErrorIs(t, ValidateTransition(it, "passenger-1", StatusOpen), ErrInvalidTransition)
	})

	t.Run("no transition leaves a terminal state", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTransition(testItem(StatusCompleted), "requester-1", StatusCancelled), ErrInvalidTransition)

		cancelled := testItem(StatusCancelled)
		assert.ErrorIs(t, ValidateTransition(cancelled, "passenger-1", StatusAccepted), ErrInvalidTransition)
	})

	t.Run("owner cannot accept their own item", func(t *testing.T) {
		it := testItem(StatusOpen)
		assert.ErrorIs(t, ValidateTransition(it, "requester-1", StatusAccepted), ErrUnauthorized)
		assert.NoError(t, ValidateTransition(it, "passenger-1", StatusAccepted))
	})

	t.Run("custody states belong to the acceptor", func(t *testing.T) {
		it := testItem(StatusPickedUp)

		assert.NoError(t, ValidateTransition(it, "passenger-1", StatusAtOriginAirport))
		assert.ErrorIs(t, ValidateTransition(it, "requester-1", StatusAtOriginAirport), ErrUnauthorized)
		assert.ErrorIs(t, ValidateTransition(it, "stranger", StatusAtOriginAirport), ErrUnauthorized)
	})

	t.Run("only the owner confirms completion", func(t *testing.T) {
		it := testItem(StatusDelivered)

		assert.NoError(t, ValidateTransition(it, "requester-1", StatusCompleted))
		assert.ErrorIs(t, ValidateTransition(it, "passenger-1", StatusCompleted), ErrUnauthorized)
	})

	t.Run("cancel is owner-only and blocked once delivered", func(t *testing.T) {
		assert.NoError(t, ValidateTransition(testItem(StatusOpen), "requester-1", StatusCancelled))
		assert.NoError(t, ValidateTransition(testItem(StatusInFlight), "requester-1", StatusCancelled))
		assert.ErrorIs(t, ValidateTransition(testItem(StatusInFlight), "passenger-1", StatusCancelled), ErrUnauthorized)
		assert.ErrorIs(t, ValidateTransition(testItem(StatusDelivered), "requester-1", StatusCancelled), ErrInvalidTransition)
	})
}
