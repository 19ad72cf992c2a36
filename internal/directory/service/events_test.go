package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/synkcrm/sessiond/internal/directory/domain"
)

func TestEventHub(t *testing.T) {
	t.Run("delivers to all subscribers", func(t *testing.T) {
		hub := NewEventHub()

		ch1, cancel1 := hub.Subscribe()
		defer cancel1()
		ch2, cancel2 := hub.Subscribe()
		defer cancel2()

		hub.Publish(domain.EventSignedIn, "u1", "s1")

		ev1 := <-ch1
		ev2 := <-ch2
		require.Equal(t, domain.EventSignedIn, ev1.Type)
		require.Equal(t, "u1", ev1.UserID)
		require.Equal(t, ev1, ev2)
	})

	t.Run("cancel removes the subscriber and closes the channel", func(t *testing.T) {
		hub := NewEventHub()

		ch, cancel := hub.Subscribe()
		require.Equal(t, 1, hub.SubscriberCount())

		cancel()
		require.Equal(t, 0, hub.SubscriberCount())

		_, open := <-ch
		require.False(t, open)
	})

	t.Run("cancel is idempotent", func(t *testing.T) {
		hub := NewEventHub()

		_, cancel := hub.Subscribe()
		cancel()
		cancel()
		require.Equal(t, 0, hub.SubscriberCount())
	})

	t.Run("slow subscribers lose events instead of blocking", func(t *testing.T) {
		hub := NewEventHub()

		ch, cancel := hub.Subscribe()
		defer cancel()

		// One more publish than the channel can buffer. Must not block.
		for i := 0; i < 20; i++ {
			hub.Publish(domain.EventSignedIn, "u1", "s1")
		}

		delivered := 0
		for {
			select {
			case <-ch:
				delivered++
				continue
			default:
			}
			break
		}
		require.Equal(t, 16, delivered)
	})
}
