/* cups4j - IPP status codes.
 *
 * See LICENSE for license terms and conditions
 */

package ipp

import "fmt"

// Status is an IPP response status code, carried in Message.Code on a
// response. Status values below 0x0100 are successful (spec §4.3).
type Status Code

// Status codes used by this library. client-error-not-possible is kept at
// 0x040c to match this library's own status table (spec §8, scenario 3)
// rather than RFC 8011's 0x0404.
const (
	StatusOK Status = 0x0000

	StatusErrorBadRequest       Status = 0x0400
	StatusErrorForbidden        Status = 0x0401
	StatusErrorNotAuthenticated Status = 0x0402
	StatusErrorNotAuthorized    Status = 0x0403
	StatusErrorNotPossible      Status = 0x040c
	StatusErrorNotFound         Status = 0x0406
	StatusErrorGone             Status = 0x0407

	StatusErrorInternal              Status = 0x0500
	StatusErrorOperationNotSupported Status = 0x0501
	StatusErrorDevice                Status = 0x0504
	StatusErrorTemporary             Status = 0x0505
	StatusErrorNotAcceptingJobs      Status = 0x0506
	StatusErrorBusy                  Status = 0x0507
	StatusErrorCanceled              Status = 0x0508
	StatusErrorConflict              Status = 0x0509
)

var statusNames = map[Status]string{
	StatusOK:                          "successful-ok",
	StatusErrorBadRequest:             "client-error-bad-request",
	StatusErrorForbidden:              "client-error-forbidden",
	StatusErrorNotAuthenticated:       "client-error-not-authenticated",
	StatusErrorNotAuthorized:          "client-error-not-authorized",
	StatusErrorNotPossible:            "client-error-not-possible",
	StatusErrorNotFound:               "client-error-not-found",
	StatusErrorGone:                   "client-error-gone",
	StatusErrorInternal:               "server-error-internal-error",
	StatusErrorOperationNotSupported:  "server-error-operation-not-supported",
	StatusErrorDevice:                 "server-error-device-error",
	StatusErrorTemporary:              "server-error-temporary-error",
	StatusErrorNotAcceptingJobs:       "server-error-not-accepting-jobs",
	StatusErrorBusy:                   "server-error-busy",
	StatusErrorCanceled:               "server-error-canceled",
	StatusErrorConflict:               "server-error-conflict",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%04x", uint16(s))
}

// IsSuccess reports whether s is in the successful range (< 0x0100),
// per spec §4.3.
func (s Status) IsSuccess() bool {
	return uint16(s) < 0x0100
}

// IsClientError reports whether s is in the 0x0400-0x04ff family.
func (s Status) IsClientError() bool {
	return uint16(s) >= 0x0400 && uint16(s) <= 0x04ff
}

// IsServerError reports whether s is in the 0x0500-0x05ff family.
func (s Status) IsServerError() bool {
	return uint16(s) >= 0x0500 && uint16(s) <= 0x05ff
}
