// Package codec converts binary audio payloads to and from their JSON
// transport form and carries the calendar-date comparison used by the
// daily habit flow.
package codec

import (
	"encoding/base64"
	"fmt"
	"time"
)

// Marshal encodes raw audio bytes for embedding in a JSON body.
func Marshal(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// Unmarshal decodes a base64 payload received over JSON.
func Unmarshal(data string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("decode base64 payload: %w", err)
	}
	return b, nil
}

// SameDay reports whether a and b fall on the same calendar date in
// server-local time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()
	return ay == by && am == bm && ad == bd
}

// IsToday reports whether t falls on today's calendar date.
func IsToday(t time.Time) bool {
	return SameDay(t, time.Now())
}
