/* cups4j - Request and response message structure.
 *
 * See LICENSE for license terms and conditions
 */

package ipp

import (
	"bytes"
	"fmt"
	"io"
)

// Code is the 16-bit field that carries an Op on a request and a Status
// on a response.
type Code uint16

// Version packs the major/minor protocol version byte pair (spec §3).
type Version uint16

// DefaultVersion is IPP/1.1, the version this package targets.
const DefaultVersion Version = 0x0101

// MakeVersion packs a major/minor pair into a Version.
func MakeVersion(major, minor uint8) Version {
	return Version(major)<<8 | Version(minor)
}

func (v Version) Major() uint8 { return uint8(v >> 8) }
func (v Version) Minor() uint8 { return uint8(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major(), v.Minor())
}

// Group is one attribute group: a delimiter tag plus the attributes it
// introduces. A Message may carry more than one group with the same tag
// (e.g. Get-Jobs responses carry one job-attributes group per job).
type Group struct {
	Tag   Tag
	Attrs Attributes
}

// Groups is an ordered list of Group.
type Groups []Group

// Message is a single IPP request or response: the fixed header plus an
// ordered sequence of attribute groups (spec §3).
type Message struct {
	Version   Version
	Code      Code
	RequestID uint32
	Groups    Groups
}

// NewRequest creates a request Message for the given operation and
// request id.
func NewRequest(v Version, op Op, requestID uint32) *Message {
	return &Message{Version: v, Code: Code(op), RequestID: requestID}
}

// NewResponse creates a response Message with the given status and
// request id.
func NewResponse(v Version, status Status, requestID uint32) *Message {
	return &Message{Version: v, Code: Code(status), RequestID: requestID}
}

// Op interprets Code as an operation code (valid on requests).
func (m *Message) Op() Op { return Op(m.Code) }

// Status interprets Code as a status code (valid on responses).
func (m *Message) Status() Status { return Status(m.Code) }

// Group returns the first group in the message carrying the given
// delimiter tag, or ok=false.
func (m *Message) Group(tag Tag) (Group, bool) {
	for _, g := range m.Groups {
		if g.Tag == tag {
			return g, true
		}
	}
	return Group{}, false
}

// AllGroups returns every group in the message carrying the given
// delimiter tag, in order. Used for Get-Jobs-style responses with one
// group per returned job.
func (m *Message) AllGroups(tag Tag) []Group {
	var out []Group
	for _, g := range m.Groups {
		if g.Tag == tag {
			out = append(out, g)
		}
	}
	return out
}

// AddGroup appends a new, empty group with the given tag and returns its
// index so the caller can append attributes to it.
func (m *Message) AddGroup(tag Tag) int {
	m.Groups = append(m.Groups, Group{Tag: tag})
	return len(m.Groups) - 1
}

// Add appends attr to the group at index gi (as returned by AddGroup).
func (m *Message) Add(gi int, attr Attribute) {
	m.Groups[gi].Attrs.Add(attr)
}

// Encode serializes the message to w.
func (m *Message) Encode(w io.Writer) error {
	return (&encoder{out: w}).encode(m)
}

// EncodeBytes serializes the message to a new byte slice.
func (m *Message) EncodeBytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a message from r.
func (m *Message) Decode(r io.Reader) error {
	*m = Message{}
	return (&decoder{in: r}).decode(m)
}

// DecodeBytes parses a message from a byte slice.
func (m *Message) DecodeBytes(data []byte) error {
	return m.Decode(bytes.NewReader(data))
}
