package onion_test

import (
	"github.com/teenjuna/onion/internal/testing/fixture"
)

// Plain is the innermost content of the test onion. Its length is a multiple of 7, so the
// parity layer packs whole groups only.
var Plain = []byte("==[ Core ]==\nYou have reached the core of the test onion.......")

// Carriers of the test onion, Carriers[i] being the carrier of layer i.
var Carriers = fixture.Onion(Plain)
