/* cups4j - CUPS-Move-Job operation.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"context"

	"github.com/oboehm/cups4j/ipp"
)

// MoveJob performs CUPS-Move-Job, retargeting the job identified by
// jobURI to targetPrinterURI. It returns true on success; a failed move
// surfaces as a KindIPPStatus Error, matching the rest of this
// package's convention of never silently swallowing a failure status.
func (c *Client) MoveJob(ctx context.Context, jobURI, userName, targetPrinterURI string) (bool, error) {
	msg, gi := newRequest(ipp.OpCupsMoveJob)
	msg.Add(gi, ipp.MakeAttr("job-uri", ipp.TagURI, ipp.String(jobURI)))
	addUserName(msg, gi, c.userName(userName))

	ji := msg.AddGroup(ipp.TagJobGroup)
	msg.Add(ji, ipp.MakeAttr("job-printer-uri", ipp.TagURI, ipp.String(targetPrinterURI)))

	resp, err := c.exchange(ctx, c.printerURL(jobURI), msg)
	if err != nil {
		return false, err
	}
	if err := checkStatus(resp); err != nil {
		return false, err
	}
	return true, nil
}
