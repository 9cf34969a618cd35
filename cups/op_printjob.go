/* cups4j - Print-Job operation.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"context"

	"github.com/oboehm/cups4j/ipp"
)

// PrintJobSubmit performs Print-Job: it builds the operation- and
// job-attributes groups from job, streams job.Document immediately
// after the encoded IPP header, and projects the response's
// job-attributes group. The document is read to EOF and is never
// closed by this library (spec §5); the caller retains ownership.
func (c *Client) PrintJobSubmit(ctx context.Context, printerURI string, job *PrintJob) (PrintJobAttributes, error) {
	msg, gi := newRequest(ipp.OpPrintJob)
	msg.Add(gi, ipp.MakeAttr("printer-uri", ipp.TagURI, ipp.String(printerURI)))
	addUserName(msg, gi, c.userName(job.UserName))

	if job.JobName != "" {
		msg.Add(gi, ipp.MakeAttr("job-name", ipp.TagName, ipp.String(job.JobName)))
	}

	documentFormat := job.DocumentFormat
	if documentFormat == "" {
		documentFormat = "application/octet-stream"
	}
	msg.Add(gi, ipp.MakeAttr("document-format", ipp.TagMimeType, ipp.String(documentFormat)))

	for name, value := range job.OperationAttributes {
		msg.Add(gi, ipp.MakeAttr(name, ipp.TagKeyword, ipp.String(value)))
	}

	if err := c.addJobAttributes(msg, job); err != nil {
		return PrintJobAttributes{}, err
	}

	resp, err := c.exchangeWithDocument(ctx, c.printerURL(printerURI), msg, job.Document)
	if err != nil {
		return PrintJobAttributes{}, err
	}
	if err := checkStatus(resp); err != nil {
		return PrintJobAttributes{}, err
	}

	group, ok := resp.Group(ipp.TagJobGroup)
	if !ok {
		return PrintJobAttributes{}, newError(KindProtocol, "Print-Job response carries no job-attributes group")
	}
	return projectJob(group), nil
}

// addJobAttributes builds the job-attributes group from job's typed
// fields plus, if set, its raw job-attributes string (spec §4.3's
// Print-Job mapping table).
func (c *Client) addJobAttributes(msg *ipp.Message, job *PrintJob) error {
	ji := msg.AddGroup(ipp.TagJobGroup)

	copies := job.Copies
	if copies == 0 {
		copies = 1
	}
	msg.Add(ji, ipp.MakeAttr("copies", ipp.TagInteger, ipp.Integer(copies)))

	if job.PageRanges != "" {
		ranges, err := ParsePageRanges(job.PageRanges)
		if err != nil {
			return err
		}
		if len(ranges) > 0 {
			vals := make([]ipp.Value, len(ranges))
			for i, r := range ranges {
				vals[i] = ipp.Range{Lower: r.Lower, Upper: r.Upper}
			}
			attr := ipp.MakeAttr("page-ranges", ipp.TagRange, vals[0], vals[1:]...)
			msg.Add(ji, attr)
		}
	}

	msg.Add(ji, ipp.MakeAttr("sides", ipp.TagKeyword, ipp.String(sidesKeyword(job.Duplex, job.Portrait))))
	msg.Add(ji, ipp.MakeAttr("orientation-requested", ipp.TagEnum, orientationEnum(job.Portrait)))
	msg.Add(ji, ipp.MakeAttr("output-mode", ipp.TagKeyword, ipp.String(outputModeKeyword(job.Color))))

	if job.PageFormat != "" {
		msg.Add(ji, ipp.MakeAttr("media", ipp.TagKeyword, ipp.String(job.PageFormat)))
	}

	if job.Resolution != "" {
		res, err := parseResolution(job.Resolution)
		if err != nil {
			return err
		}
		msg.Add(ji, ipp.MakeAttr("printer-resolution", ipp.TagResolution, res))
	}

	attrs := msg.Groups[ji].Attrs
	if err := parseJobAttributesString(job.JobAttributesString, &attrs); err != nil {
		return err
	}
	msg.Groups[ji].Attrs = attrs

	return nil
}
