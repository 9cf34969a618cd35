/* cups4j - Wire decoder for IPP messages.
 *
 * See LICENSE for license terms and conditions
 */

package ipp

import (
	"encoding/binary"
	"fmt"
	"io"
)

// decoder parses a Message from the wire format of spec §3/§4.1,
// classifying failures per the DecodeErrorKind table.
type decoder struct {
	in  io.Reader
	off int
}

func (d *decoder) fail(kind DecodeErrorKind, format string, args ...interface{}) error {
	return &DecodeError{Kind: kind, Msg: fmt.Sprintf(format, args...), Offset: d.off}
}

func (d *decoder) decode(m *Message) error {
	ver, err := d.u16()
	if err != nil {
		return err
	}
	code, err := d.u16()
	if err != nil {
		return err
	}
	reqID, err := d.u32()
	if err != nil {
		return err
	}

	m.Version = Version(ver)
	m.Code = Code(code)
	m.RequestID = reqID

	var curGroup = -1 // index into m.Groups of the currently open group
	var prevAttr *int // index, within curGroup's Attrs, of the last named attribute

	depth := 0

	for {
		tagByte, err := d.u8()
		if err != nil {
			return err
		}
		tag := Tag(tagByte)

		if tag == TagEnd {
			return nil
		}

		if tag.IsDelimiter() {
			if !isKnownGroupTag(tag) {
				return d.fail(BadTag, "unknown delimiter tag 0x%02x", tagByte)
			}
			m.Groups = append(m.Groups, Group{Tag: tag})
			curGroup = len(m.Groups) - 1
			prevAttr = nil
			continue
		}

		if tag == TagMemberName || tag == TagEndCollection {
			return d.fail(BadOrder, "unexpected %s outside a collection", tag)
		}

		if !isKnownValueTag(tag) && !tag.IsOutOfBand() {
			return d.fail(BadTag, "unknown value tag 0x%02x", tagByte)
		}

		attr, err := d.attribute(tag, &depth)
		if err != nil {
			return err
		}

		switch {
		case attr.Name != "":
			if curGroup < 0 {
				return d.fail(BadOrder, "attribute %q appears before any delimiter group", attr.Name)
			}
			m.Groups[curGroup].Attrs.Add(attr)
			idx := len(m.Groups[curGroup].Attrs) - 1
			prevAttr = &idx

		default: // additional value for the previous named attribute
			if curGroup < 0 || prevAttr == nil {
				return d.fail(BadOrder, "additional value without a preceding named attribute")
			}
			last := &m.Groups[curGroup].Attrs[*prevAttr]
			last.Values.Add(attr.Values[0].Tag, attr.Values[0].Val)
		}
	}
}

func isKnownGroupTag(tag Tag) bool {
	switch tag {
	case TagOperationGroup, TagJobGroup, TagPrinterGroup, TagUnsupportedGroup,
		TagSubscriptionGroup, TagEventNotificationGroup:
		return true
	}
	return false
}

func isKnownValueTag(tag Tag) bool {
	switch tag {
	case TagInteger, TagBoolean, TagEnum, TagString, TagDateTime, TagResolution,
		TagRange, TagBeginCollection, TagEndCollection, TagMemberName,
		TagText, TagName, TagKeyword, TagURI, TagURIScheme, TagCharset,
		TagLanguage, TagMimeType:
		return true
	}
	return false
}

// attribute decodes one {tag, name, value} triple. If tag is
// TagBeginCollection, it recursively decodes the nested collection that
// follows.
func (d *decoder) attribute(tag Tag, depth *int) (Attribute, error) {
	name, err := d.str()
	if err != nil {
		return Attribute{}, err
	}

	raw, err := d.bytes()
	if err != nil {
		return Attribute{}, err
	}

	attr := Attribute{Name: name}
	if err := attr.unpack(tag, raw); err != nil {
		return Attribute{}, d.fail(BadLength, "%s", err)
	}

	if tag == TagBeginCollection {
		*depth++
		if *depth > MaxCollectionDepth {
			return Attribute{}, d.fail(BadOrder, "collection nesting exceeds %d levels", MaxCollectionDepth)
		}
		coll, err := d.collection(depth)
		if err != nil {
			return Attribute{}, err
		}
		*depth--
		attr.Values[0].Val = coll
	}

	return attr, nil
}

// collection decodes the memberAttrName/value run that follows a
// TagBeginCollection attribute, up to its TagEndCollection terminator.
// See spec §4.1.
func (d *decoder) collection(depth *int) (Collection, error) {
	var coll Collection
	memberName := ""

	for {
		tagByte, err := d.u8()
		if err != nil {
			return nil, err
		}
		tag := Tag(tagByte)

		if tag.IsDelimiter() {
			return nil, d.fail(BadOrder, "delimiter %s inside a collection", tag)
		}

		if (tag == TagMemberName || tag == TagEndCollection) && memberName != "" {
			return nil, d.fail(BadOrder, "%s while expecting a value for %q", tag, memberName)
		}

		attr, err := d.attribute(tag, depth)
		if err != nil {
			return nil, err
		}

		switch tag {
		case TagEndCollection:
			return coll, nil

		case TagMemberName:
			memberName = string(attr.Values[0].Val.(String))
			if memberName == "" {
				return nil, d.fail(BadOrder, "empty memberAttrName")
			}

		default:
			if memberName == "" {
				if len(coll) == 0 {
					return nil, d.fail(BadOrder, "value inside collection without a preceding memberAttrName")
				}
				last := &coll[len(coll)-1]
				last.Values.Add(tag, attr.Values[0].Val)
				continue
			}
			attr.Name = memberName
			coll = append(coll, attr)
			memberName = ""
		}
	}
}

func (d *decoder) u8() (uint8, error) {
	var buf [1]byte
	if err := d.read(buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

func (d *decoder) u16() (uint16, error) {
	var buf [2]byte
	if err := d.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf[:]), nil
}

func (d *decoder) u32() (uint32, error) {
	var buf [4]byte
	if err := d.read(buf[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf[:]), nil
}

func (d *decoder) bytes() ([]byte, error) {
	n, err := d.u16()
	if err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if err := d.read(buf); err != nil {
		return nil, err
	}
	return buf, nil
}

func (d *decoder) str() (string, error) {
	b, err := d.bytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (d *decoder) read(buf []byte) error {
	n, err := io.ReadFull(d.in, buf)
	d.off += n
	if err != nil {
		return &DecodeError{Kind: Truncated, Msg: "message truncated", Offset: d.off}
	}
	return nil
}
