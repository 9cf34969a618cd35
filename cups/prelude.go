/* cups4j - Shared request prelude: charset, language, and request-id handling.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"sync/atomic"

	"github.com/oboehm/cups4j/ipp"
)

// requestIDCounter is the process-wide, monotonically increasing request
// id source (spec §3: "Request ids are unique per client, monotonically
// increasing"). An atomic counter lets a single Client be shared across
// goroutines without external synchronization, per §5.
var requestIDCounter uint32

func nextRequestID() uint32 {
	return atomic.AddUint32(&requestIDCounter, 1)
}

// newRequest builds a Message for op with the mandatory
// operation-attributes prelude (attributes-charset, then
// attributes-natural-language, in that order) already in place. Callers
// append the operation-specific identifiers to the returned group index.
func newRequest(op ipp.Op) (*ipp.Message, int) {
	msg := ipp.NewRequest(ipp.DefaultVersion, op, nextRequestID())
	gi := msg.AddGroup(ipp.TagOperationGroup)
	msg.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
	msg.Add(gi, ipp.MakeAttr("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
	return msg, gi
}

// addUserName appends requesting-user-name to the operation-attributes
// group at index gi, falling back to "anonymous" when userName is empty.
func addUserName(msg *ipp.Message, gi int, userName string) {
	if userName == "" {
		userName = "anonymous"
	}
	msg.Add(gi, ipp.MakeAttr("requesting-user-name", ipp.TagName, ipp.String(userName)))
}
