/* cups4j - Printer and job state classification.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import "github.com/oboehm/cups4j/ipp"

// PrinterState mirrors the IPP printer-state enum values this library
// projects into Printer.State.
type PrinterState int32

const (
	PrinterStateIdle       PrinterState = 3
	PrinterStateProcessing PrinterState = 4
	PrinterStateStopped    PrinterState = 5
)

func (s PrinterState) String() string {
	switch s {
	case PrinterStateIdle:
		return "idle"
	case PrinterStateProcessing:
		return "processing"
	case PrinterStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// JobState mirrors the IPP job-state enum values this library projects
// into PrintJobAttributes.State.
type JobState int32

const (
	JobStatePending        JobState = 3
	JobStateHeld           JobState = 4
	JobStateProcessing     JobState = 5
	JobStateStopped        JobState = 6
	JobStateCanceled       JobState = 7
	JobStateAborted        JobState = 8
	JobStateCompleted      JobState = 9
)

func (s JobState) String() string {
	switch s {
	case JobStatePending:
		return "pending"
	case JobStateHeld:
		return "held"
	case JobStateProcessing:
		return "processing"
	case JobStateStopped:
		return "stopped"
	case JobStateCanceled:
		return "canceled"
	case JobStateAborted:
		return "aborted"
	case JobStateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// checkStatus inspects a decoded response's status code and returns a
// KindIPPStatus Error when the operation failed (status >= 0x0100), per
// the status-family table.
func checkStatus(msg *ipp.Message) error {
	status := msg.Status()
	if status.IsSuccess() {
		return nil
	}

	statusMsg := ""
	if op, ok := msg.Group(ipp.TagOperationGroup); ok {
		if attr, ok := op.Attrs.Get("status-message"); ok && len(attr.Values) > 0 {
			statusMsg = attr.Values[0].Val.String()
		}
	}

	return ippStatusError(status, statusMsg)
}
