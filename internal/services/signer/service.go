package signer

import (
	"context"

	"github.com/pkg/errors"

	"zomesigner/internal/canonical"
	"zomesigner/internal/crypto"
	"zomesigner/internal/domain"
	"zomesigner/internal/errortypes"
	"zomesigner/internal/metrics"
	"zomesigner/internal/util/log"
)

// ErrBadSignature is returned by Verify when the signature does not match.
var ErrBadSignature = errors.New("signer: signature does not verify")

// Service signs zome calls through a keystore.
//
// The signing key is always the one embedded in the call's provenance. The
// service does not check that the keystore holds it; a keystore refusal is
// reported as *errortypes.SigningError. Nothing is retried.
type Service struct {
	keystore domain.Keystore
}

var _ domain.CallSigner = (*Service)(nil)

// New returns a signer backed by ks, usually a *keystore.Session.
func New(ks domain.Keystore) *Service { return &Service{keystore: ks} }

// SignZomeCall signs call.
//
// Steps:
//  1. Validate the call; shape problems fail before any keystore request.
//  2. Take the raw Ed25519 key from the provenance.
//  3. Derive the signable bytes.
//  4. Ask the keystore for a signature by that key.
//  5. Return the original fields plus the signature.
func (s *Service) SignZomeCall(ctx context.Context, call domain.UnsignedCall) (signed domain.SignedCall, err error) {
	defer func() { metrics.ObserveSign(err) }()

	parsed, err := canonical.Parse(call)
	if err != nil {
		return domain.SignedCall{}, err
	}
	pub := parsed.SigningKey()
	data, err := parsed.DataToSign()
	if err != nil {
		return domain.SignedCall{}, &errortypes.MalformedCallError{Err: err}
	}

	sig, err := s.keystore.SignByPubKey(ctx, pub, data)
	if err != nil {
		log.WithError(err).WithField("key", crypto.Fingerprint(pub[:])).Warn("signer: keystore refused to sign")
		return domain.SignedCall{}, &errortypes.SigningError{Err: errors.Wrap(err, "signer: sign_by_pub_key")}
	}

	log.WithFields(log.Fields{
		"key":  crypto.Fingerprint(pub[:]),
		"zome": call.ZomeName,
		"fn":   call.FnName,
	}).Debug("signer: call signed")

	return domain.SignedCall{
		CellID:     call.CellID,
		ZomeName:   call.ZomeName,
		FnName:     call.FnName,
		Payload:    call.Payload,
		CapSecret:  call.CapSecret,
		Provenance: call.Provenance,
		Nonce:      call.Nonce,
		ExpiresAt:  call.ExpiresAt,
		Signature:  sig.Slice(),
	}, nil
}

// Verify checks signed.Signature against its provenance key. It needs no
// keystore.
func Verify(signed domain.SignedCall) error {
	parsed, err := canonical.Parse(signed.Unsigned())
	if err != nil {
		return err
	}
	data, err := parsed.DataToSign()
	if err != nil {
		return &errortypes.MalformedCallError{Err: err}
	}
	if !crypto.VerifyEd25519(parsed.SigningKey(), data, signed.Signature) {
		return ErrBadSignature
	}
	return nil
}
