package common

import "github.com/nspcc-dev/neo-go/pkg/interop/runtime"

var (
	// ErrAlphabetWitnessFailed appears when the method must be
	// called by the Alphabet but was not.
	ErrAlphabetWitnessFailed = "alphabet witness check failed"
	// ErrWitnessFailed appears when the method must be called
	// using certain public key but was not.
	ErrWitnessFailed = "witness check failed"
)

// CheckAlphabetWitness checks witness of the Alphabet multi-signature
// account. It panics with ErrAlphabetWitnessFailed message on fail.
func CheckAlphabetWitness() {
	checkWitnessWithPanic(AlphabetAddress(), ErrAlphabetWitnessFailed)
}

// CheckWitness checks witness of the passed caller.
// It panics with ErrWitnessFailed message on fail.
func CheckWitness(caller []byte) {
	checkWitnessWithPanic(caller, ErrWitnessFailed)
}

func checkWitnessWithPanic(caller []byte, panicMsg string) {
	if !runtime.CheckWitness(caller) {
		panic(panicMsg)
	}
}
