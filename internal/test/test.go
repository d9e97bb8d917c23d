// Package test holds helpers shared by package tests: HTTP request tables, JSON comparison
// and random fixtures.
package test

import (
	"strings"
	"sync"
	"time"

	"github.com/Pallinder/go-randomdata"
)

// RandomUID returns a Firebase-like user id.
func RandomUID() string {
	return randomdata.Alphanumeric(28)
}

// RandomEmail returns a plausible email address.
func RandomEmail() string {
	return strings.ToLower(randomdata.Email())
}

// RandomAccountName returns a human-readable account name.
func RandomAccountName() string {
	return randomdata.SillyName()
}

// Clock is a manually advanced time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}
