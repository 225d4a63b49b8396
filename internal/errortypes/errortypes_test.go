package errortypes_test

import (
	"testing"

	"github.com/pkg/errors"

	"zomesigner/internal/errortypes"
)

func TestWrappedCauseIsReachable(t *testing.T) {
	cause := errors.New("socket closed")
	var err error = &errortypes.SigningError{Err: errors.Wrap(cause, "signer: sign by pub key")}

	var se *errortypes.SigningError
	if !errors.As(err, &se) {
		t.Fatal("expected SigningError")
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through SigningError")
	}
	if got := err.Error(); got != "signer: sign by pub key: socket closed" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestKindsDoNotAlias(t *testing.T) {
	var err error = &errortypes.UnlockError{Err: errors.New("bad passphrase")}

	var ce *errortypes.ConnectionError
	if errors.As(err, &ce) {
		t.Fatal("UnlockError matched ConnectionError")
	}
	var ue *errortypes.UnsupportedCipherError
	if errors.As(err, &ue) {
		t.Fatal("UnlockError matched UnsupportedCipherError")
	}
}

func TestZeroValuesPrint(t *testing.T) {
	kinds := []error{
		&errortypes.ConnectionError{},
		&errortypes.MalformedCallError{},
		&errortypes.MalformedKeyError{},
		&errortypes.UnlockError{},
		&errortypes.KeystoreConsistencyError{},
		&errortypes.SigningError{},
		&errortypes.EncryptionError{},
		&errortypes.ImportError{},
	}
	for _, err := range kinds {
		if err.Error() == "" {
			t.Fatalf("%T printed an empty message", err)
		}
		if errors.Unwrap(err) != nil {
			t.Fatalf("%T unwrapped to a cause it never had", err)
		}
	}
}
