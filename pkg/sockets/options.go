package sockets

import (
	"net/http"
	"time"
)

func WithPingInterval(d time.Duration) func(*Hub) {
	return func(h *Hub) {
		h.pingInterval = d
	}
}

func WithWriteTimeout(d time.Duration) func(*Hub) {
	return func(h *Hub) {
		h.writeTimeout = d
	}
}

// WithSendBuffer is the number of messages a subscriber may lag behind before it is dropped.
func WithSendBuffer(n int) func(*Hub) {
	return func(h *Hub) {
		h.sendBuffer = n
	}
}

// WithCheckOrigin replaces the default same-origin check.
func WithCheckOrigin(f func(r *http.Request) bool) func(*Hub) {
	return func(h *Hub) {
		h.upgrader.CheckOrigin = f
	}
}

func OnError(f func(error)) func(*Hub) {
	return func(h *Hub) {
		h.onError = f
	}
}
