package errors_test

import (
	"errors"
	"testing"

	perr "github.com/next-trace/scg-pubsub/contract/errors"
)

func TestCodeAndVars(t *testing.T) {
	e := perr.Code(perr.ErrCodeReportFailed)
	if e.Error() != perr.ErrCodeReportFailed {
		t.Fatalf("unexpected error string: %s", e.Error())
	}

	// exported variables must carry their codes
	tests := []struct {
		err  error
		code string
	}{
		{perr.ErrInvalidChannel, perr.ErrCodeInvalidChannel},
		{perr.ErrInvalidCallback, perr.ErrCodeInvalidCallback},
		{perr.ErrClosed, perr.ErrCodeClosed},
		{perr.ErrReportFailed, perr.ErrCodeReportFailed},
		{perr.ErrSerializationFailed, perr.ErrCodeSerializationFailed},
	}

	for _, tc := range tests {
		if !errors.Is(tc.err, perr.Code(tc.code)) {
			t.Fatalf("expected %s to be %s", tc.err, tc.code)
		}
	}
}

func TestValidationMessagesDiffer(t *testing.T) {
	if perr.ErrInvalidChannel.Error() == perr.ErrInvalidCallback.Error() {
		t.Fatalf("channel and callback errors must be distinguishable")
	}
}
