package escrow

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
)

// Ed25519Verifier is the production SignatureVerifier. The signature
// envelope is the signer's public key followed by the Ed25519 signature:
//
//	signature = pubkey(32 bytes) || sig(64 bytes)
//
// The recovered account is the lowercase hex encoding of the public key.
// Ed25519 has no key recovery, so the key travels with the signature and
// verification binds it to the digest.
type Ed25519Verifier struct{}

const ed25519EnvelopeLen = ed25519.PublicKeySize + ed25519.SignatureSize

// RecoverSigner verifies the envelope against the digest and returns the
// signing account.
func (Ed25519Verifier) RecoverSigner(digest, signature []byte) (Account, error) {
	if len(signature) != ed25519EnvelopeLen {
		return "", fmt.Errorf("signature envelope must be %d bytes, got %d", ed25519EnvelopeLen, len(signature))
	}
	pub := ed25519.PublicKey(signature[:ed25519.PublicKeySize])
	sig := signature[ed25519.PublicKeySize:]

	if !ed25519.Verify(pub, digest, sig) {
		return "", fmt.Errorf("signature does not verify against digest")
	}
	return Account(hex.EncodeToString(pub)), nil
}

// SignEnvelope builds the envelope RecoverSigner expects. Exposed for
// callers (and tests) that produce approvals.
func SignEnvelope(priv ed25519.PrivateKey, digest []byte) []byte {
	pub := priv.Public().(ed25519.PublicKey)
	env := make([]byte, 0, ed25519EnvelopeLen)
	env = append(env, pub...)
	env = append(env, ed25519.Sign(priv, digest)...)
	return env
}
