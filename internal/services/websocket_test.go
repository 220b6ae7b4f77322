package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastToUserDropsSaturatedClient(t *testing.T) {
	hub := NewHub()
	stuck := &Client{ID: 7, Role: "staff", Send: make(chan []byte)} // nothing reading
	healthy := &Client{ID: 8, Role: "staff", Send: make(chan []byte, 1)}
	hub.clients[stuck] = true
	hub.clients[healthy] = true

	hub.BroadcastToUser(7, []byte("update"))
	assert.Equal(t, 1, hub.GetConnectedClients())

	hub.BroadcastToUser(8, []byte("update"))
	require.Equal(t, 1, hub.GetConnectedClients())
	assert.Equal(t, []byte("update"), <-healthy.Send)
}

func TestBroadcastToRoleDropsSaturatedClient(t *testing.T) {
	hub := NewHub()
	stuck := &Client{ID: 1, Role: "driver", Send: make(chan []byte)}
	other := &Client{ID: 2, Role: "staff", Send: make(chan []byte)}
	hub.clients[stuck] = true
	hub.clients[other] = true

	hub.BroadcastToRole("driver", []byte("update"))

	assert.Equal(t, 1, hub.GetConnectedClients())
	assert.False(t, hub.clients[stuck])
	assert.True(t, hub.clients[other])
}

// Concurrent broadcasts mutate the client set; with -race this catches any
// regression to reads-only locking around the map writes.
func TestConcurrentBroadcastsRemoveClientsSafely(t *testing.T) {
	hub := NewHub()
	for i := 0; i < 16; i++ {
		hub.clients[&Client{ID: uint(i), Role: "staff", Send: make(chan []byte)}] = true
	}

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				hub.BroadcastToUser(uint(i%16), []byte("m"))
				hub.BroadcastToRole("staff", []byte("m"))
				hub.GetConnectedClients()
			}
		}()
	}
	wg.Wait()

	assert.Zero(t, hub.GetConnectedClients())
}
