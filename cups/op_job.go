/* cups4j - Job query and control operations: list, cancel, hold, release.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"context"

	"github.com/oboehm/cups4j/ipp"
)

// WhichJobs selects the job-state filter Get-Jobs applies server-side.
type WhichJobs string

const (
	WhichJobsCompleted    WhichJobs = "completed"
	WhichJobsNotCompleted WhichJobs = "not-completed"
	WhichJobsAll          WhichJobs = "all"
)

// GetJobAttributes performs Get-Job-Attributes against a job URI.
func (c *Client) GetJobAttributes(ctx context.Context, jobURI string) (PrintJobAttributes, error) {
	msg, gi := newRequest(ipp.OpGetJobAttributes)
	msg.Add(gi, ipp.MakeAttr("job-uri", ipp.TagURI, ipp.String(jobURI)))
	addUserName(msg, gi, c.cfg.User)

	resp, err := c.exchange(ctx, c.printerURL(jobURI), msg)
	if err != nil {
		return PrintJobAttributes{}, err
	}
	if err := checkStatus(resp); err != nil {
		return PrintJobAttributes{}, err
	}

	group, ok := resp.Group(ipp.TagJobGroup)
	if !ok {
		return PrintJobAttributes{}, newError(KindProtocol, "Get-Job-Attributes response carries no job-attributes group")
	}
	return projectJob(group), nil
}

// GetJobsOptions configures a Get-Jobs call.
type GetJobsOptions struct {
	Which    WhichJobs
	UserName string // requesting-user-name; when MyJobs is true and this is empty, the client's default user is sent
	MyJobs   bool

	// PrinterURI restricts the listing to one printer. Left empty, the
	// request carries no printer-uri filter and every job on the server
	// is returned — matching the original library's behavior, which its
	// own doc comment concedes disregards the printer parameter.
	PrinterURI string
}

// GetJobs performs Get-Jobs and projects each returned job-attributes
// group.
func (c *Client) GetJobs(ctx context.Context, opts GetJobsOptions) ([]PrintJobAttributes, error) {
	msg, gi := newRequest(ipp.OpGetJobs)

	which := opts.Which
	if which == "" {
		which = WhichJobsNotCompleted
	}
	msg.Add(gi, ipp.MakeAttr("which-jobs", ipp.TagKeyword, ipp.String(which)))
	msg.Add(gi, ipp.MakeAttr("my-jobs", ipp.TagBoolean, ipp.Boolean(opts.MyJobs)))

	userName := opts.UserName
	if opts.MyJobs {
		userName = c.userName(userName)
	}
	if userName != "" {
		addUserName(msg, gi, userName)
	}

	if opts.PrinterURI != "" {
		msg.Add(gi, ipp.MakeAttr("printer-uri", ipp.TagURI, ipp.String(opts.PrinterURI)))
	}

	url := c.serverURL()
	if opts.PrinterURI != "" {
		url = c.printerURL(opts.PrinterURI)
	}

	resp, err := c.exchange(ctx, url, msg)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	groups := resp.AllGroups(ipp.TagJobGroup)
	jobs := make([]PrintJobAttributes, len(groups))
	for i, g := range groups {
		jobs[i] = projectJob(g)
	}
	return jobs, nil
}

// jobControlOp is shared by Cancel-Job, Hold-Job, and Release-Job: all
// three carry the same operation-attributes shape and the same success
// rule (status < 0x0100).
func (c *Client) jobControlOp(ctx context.Context, op ipp.Op, printerURI string, jobID uint32, userName string) error {
	msg, gi := newRequest(op)
	msg.Add(gi, ipp.MakeAttr("printer-uri", ipp.TagURI, ipp.String(printerURI)))
	msg.Add(gi, ipp.MakeAttr("job-id", ipp.TagInteger, ipp.Integer(jobID)))
	addUserName(msg, gi, c.userName(userName))

	resp, err := c.exchange(ctx, c.printerURL(printerURI), msg)
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

// CancelJob cancels jobID on printerURI. Cancelling an already-terminal
// job surfaces as a KindIPPStatus Error with IPPStatus ==
// ipp.StatusErrorNotPossible, not as a silent success (spec §4.3).
func (c *Client) CancelJob(ctx context.Context, printerURI string, jobID uint32, userName string) error {
	return c.jobControlOp(ctx, ipp.OpCancelJob, printerURI, jobID, userName)
}

// HoldJob holds jobID on printerURI.
func (c *Client) HoldJob(ctx context.Context, printerURI string, jobID uint32, userName string) error {
	return c.jobControlOp(ctx, ipp.OpHoldJob, printerURI, jobID, userName)
}

// ReleaseJob releases a previously held jobID on printerURI.
func (c *Client) ReleaseJob(ctx context.Context, printerURI string, jobID uint32, userName string) error {
	return c.jobControlOp(ctx, ipp.OpReleaseJob, printerURI, jobID, userName)
}
