// Package cipher implements the rotor cipher engine: rotors, a reflector and
// the machine that routes a signal through them.
//
// A keypress travels through every rotor left to right, bounces off the
// reflector, and returns right to left. After the signal settles the fast
// rotor steps, and higher rotors step when their left neighbour's step count
// reaches a multiple of n*i (n = alphabet length, i = rotor index).
//
// Because the reflector is an involution and stepping depends only on
// position, a machine started from the same configuration both enciphers and
// deciphers:
//
//	m.Decipher(m.Encipher(text)) == strings.ToUpper(text)
//
// All state lives on the Machine. The package holds no mutable globals, and a
// Machine is not safe for concurrent use; use Clone for independent copies.
package cipher
