/* cups4j - IPP and CUPS operation codes.
 *
 * See LICENSE for license terms and conditions
 */

package ipp

import "fmt"

// Op is an IPP (or CUPS extension) operation code, carried in Message.Code
// on a request.
type Op Code

// Operation codes used by this library (spec §3, §4.3).
const (
	OpPrintJob             Op = 0x0002
	OpValidateJob          Op = 0x0004
	OpCancelJob            Op = 0x0008
	OpGetJobAttributes     Op = 0x0009
	OpGetJobs              Op = 0x000a
	OpGetPrinterAttributes Op = 0x000b
	OpHoldJob              Op = 0x000c
	OpReleaseJob           Op = 0x000d

	// CUPS extensions (operation codes 0x4000 and up).
	OpCupsGetDefault  Op = 0x4001
	OpCupsGetPrinters Op = 0x4002
	OpCupsMoveJob     Op = 0x400d
)

var opNames = map[Op]string{
	OpPrintJob:             "Print-Job",
	OpValidateJob:          "Validate-Job",
	OpCancelJob:            "Cancel-Job",
	OpGetJobAttributes:     "Get-Job-Attributes",
	OpGetJobs:              "Get-Jobs",
	OpGetPrinterAttributes: "Get-Printer-Attributes",
	OpHoldJob:              "Hold-Job",
	OpReleaseJob:           "Release-Job",
	OpCupsGetDefault:       "CUPS-Get-Default",
	OpCupsGetPrinters:      "CUPS-Get-Printers",
	OpCupsMoveJob:          "CUPS-Move-Job",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return fmt.Sprintf("0x%04x", uint16(op))
}
