// Package slotname draws memorable, collision-free three-word slot names
// from a fixed vocabulary.
package slotname

import (
	"errors"
	"fmt"
	"math/rand/v2"
)

// ErrExhausted is returned when 100 attempts all collided with the
// forbidden set.
var ErrExhausted = errors.New("slotname: exhausted name attempts")

const maxAttempts = 100

// Generate draws a fresh "w1-w2-w3" name not present in forbidden. It
// retries on collision up to 100 times before returning ErrExhausted.
func Generate(forbidden map[string]bool) (string, error) {
	for attempt := 0; attempt < maxAttempts; attempt++ {
		name := fmt.Sprintf("%s-%s-%s", pick(), pick(), pick())
		if !forbidden[name] {
			return name, nil
		}
	}
	return "", ErrExhausted
}

func pick() string {
	return words[rand.IntN(len(words))]
}
