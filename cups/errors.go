/* cups4j - Error taxonomy returned by every client-facing operation.
 *
 * See LICENSE for license terms and conditions
 */

// Package cups implements a client for the Internet Printing Protocol
// (IPP/1.1) with the CUPS server extensions: printer enumeration, job
// submission, job control, and printer/job attribute inspection.
package cups

import (
	"fmt"

	"github.com/oboehm/cups4j/ipp"
)

// ErrorKind classifies the cause of an Error, per the error taxonomy.
type ErrorKind int

const (
	// KindTransport covers connection refused, DNS failure, TLS failure,
	// or I/O errors mid-stream.
	KindTransport ErrorKind = iota
	// KindHTTPStatus covers a non-200 HTTP status after the single
	// auth-challenge retry has been exhausted or did not apply.
	KindHTTPStatus
	// KindProtocol covers codec decode failures (ipp.DecodeError).
	KindProtocol
	// KindIPPStatus covers a response that decoded cleanly but whose
	// status-code field is >= 0x0100.
	KindIPPStatus
	// KindInvalidArgument covers a caller-supplied value rejected before
	// transmission, such as a malformed page range.
	KindInvalidArgument
	// KindTimeout covers a deadline exceeded while waiting on the
	// transport.
	KindTimeout
	// KindAuthRequired covers a second 401 after the retry with
	// configured credentials.
	KindAuthRequired
)

func (k ErrorKind) String() string {
	switch k {
	case KindTransport:
		return "TRANSPORT_ERROR"
	case KindHTTPStatus:
		return "HTTP_ERROR"
	case KindProtocol:
		return "PROTOCOL_ERROR"
	case KindIPPStatus:
		return "IPP_STATUS"
	case KindInvalidArgument:
		return "INVALID_ARGUMENT"
	case KindTimeout:
		return "TIMEOUT"
	case KindAuthRequired:
		return "AUTH_REQUIRED"
	default:
		return "ERROR"
	}
}

// Error is the single error type returned across package boundaries by
// this library. Callers branch on it with errors.As.
type Error struct {
	Kind ErrorKind

	HTTPStatus int                 // set when Kind == KindHTTPStatus
	IPPStatus  ipp.Status          // set when Kind == KindIPPStatus
	StatusMsg  string              // IPP status-message attribute, if present
	Protocol   ipp.DecodeErrorKind // set when Kind == KindProtocol

	Msg string // human-readable detail, always set
	Err error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPStatus:
		return fmt.Sprintf("%s{%d}: %s", e.Kind, e.HTTPStatus, e.Msg)
	case KindIPPStatus:
		if e.StatusMsg != "" {
			return fmt.Sprintf("%s{0x%04x}: %s: %s", e.Kind, uint16(e.IPPStatus), e.IPPStatus, e.StatusMsg)
		}
		return fmt.Sprintf("%s{0x%04x}: %s", e.Kind, uint16(e.IPPStatus), e.IPPStatus)
	case KindProtocol:
		return fmt.Sprintf("%s{%s}: %s", e.Kind, e.Protocol, e.Msg)
	default:
		if e.Msg != "" {
			return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
		}
		return e.Kind.String()
	}
}

// Unwrap returns the wrapped cause, for errors.Is/errors.As chains.
func (e *Error) Unwrap() error { return e.Err }

func newError(kind ErrorKind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind ErrorKind, err error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// protocolError wraps a codec decode failure into a library-level Error.
func protocolError(err error) *Error {
	if de, ok := err.(*ipp.DecodeError); ok {
		return &Error{Kind: KindProtocol, Protocol: de.Kind, Msg: de.Msg, Err: de}
	}
	return &Error{Kind: KindProtocol, Msg: err.Error(), Err: err}
}

// ippStatusError builds a KindIPPStatus Error from a parsed response.
func ippStatusError(status ipp.Status, statusMsg string) *Error {
	return &Error{Kind: KindIPPStatus, IPPStatus: status, StatusMsg: statusMsg}
}
