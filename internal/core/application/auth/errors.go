package auth

import "errors"

var (
	// ErrInvalidSigner is returned when the signer is not a valid ed25519
	// public key, as it happens for derived addresses.
	ErrInvalidSigner = errors.New("signer is not a valid ed25519 public key")
	// ErrInvalidSignature ...
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrSignatureExpired is returned when the signed timestamp is too far
	// from the current time.
	ErrSignatureExpired = errors.New("signature timestamp out of range")
	// ErrSignatureReplayed is returned when an already used signature is
	// submitted again.
	ErrSignatureReplayed = errors.New("signature already used")
	// ErrMissingSignatureRepository ...
	ErrMissingSignatureRepository = errors.New("missing signature repository")
	// ErrInvalidKey ...
	ErrInvalidKey = errors.New("invalid key, must be 64 bytes seed and public key")
)
