/* cups4j - Wire encoder for IPP messages.
 *
 * See LICENSE for license terms and conditions
 */

package ipp

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
)

// encoder writes a Message in the wire format of spec §3/§4.1.
type encoder struct {
	out io.Writer
}

func (e *encoder) encode(m *Message) error {
	// Header: 2 bytes version, 2 bytes code, 4 bytes request id.
	if err := e.u16(uint16(m.Version)); err != nil {
		return err
	}
	if err := e.u16(uint16(m.Code)); err != nil {
		return err
	}
	if err := e.u32(m.RequestID); err != nil {
		return err
	}

	for _, grp := range m.Groups {
		if err := e.tag(grp.Tag); err != nil {
			return err
		}
		for _, attr := range grp.Attrs {
			if attr.Name == "" {
				return errors.New("ipp: attribute without name")
			}
			if err := e.attr(attr, true); err != nil {
				return err
			}
		}
	}

	return e.tag(TagEnd)
}

// attr encodes one attribute: its first value carries the name; every
// subsequent value in a multi-valued attribute carries name-length=0.
func (e *encoder) attr(attr Attribute, checkTag bool) error {
	if len(attr.Values) == 0 {
		return fmt.Errorf("ipp: attribute %q has no value", attr.Name)
	}

	name := attr.Name
	for _, tv := range attr.Values {
		tag := tv.Tag

		if checkTag {
			if tag.IsDelimiter() || tag == TagMemberName || tag == TagEndCollection {
				return fmt.Errorf("ipp: tag %s cannot carry a value", tag)
			}
		}

		if err := e.tag(tag); err != nil {
			return err
		}
		if err := e.name(name); err != nil {
			return err
		}
		if err := e.value(tag, tv.Val); err != nil {
			return err
		}

		name = ""
	}

	return nil
}

func (e *encoder) value(tag Tag, v Value) error {
	if tag.IsOutOfBand() {
		v = Void{}
	} else if tagType := tag.Type(); tagType != TypeVoid && tagType != v.Type() {
		return fmt.Errorf("ipp: tag %s requires a %s value, got %s", tag, tagType, v.Type())
	}

	data, err := v.encode()
	if err != nil {
		return err
	}
	if len(data) > math.MaxUint16 {
		return fmt.Errorf("ipp: value exceeds %d bytes", math.MaxUint16)
	}

	if err := e.u16(uint16(len(data))); err != nil {
		return err
	}
	if err := e.write(data); err != nil {
		return err
	}

	if coll, ok := v.(Collection); ok {
		return e.collection(coll)
	}
	return nil
}

// collection encodes a Collection as a run of memberAttrName/value pairs
// terminated by TagEndCollection, per spec §4.2's wire description.
func (e *encoder) collection(coll Collection) error {
	for _, attr := range coll {
		if attr.Name == "" {
			return errors.New("ipp: collection member without name")
		}

		member := MakeAttr("", TagMemberName, String(attr.Name))
		if err := e.attr(member, false); err != nil {
			return err
		}
		if err := e.attr(Attribute{Name: "", Values: attr.Values}, true); err != nil {
			return err
		}
	}

	return e.attr(MakeAttr("", TagEndCollection, Void{}), false)
}

func (e *encoder) tag(t Tag) error { return e.u8(byte(t)) }

func (e *encoder) name(name string) error {
	if len(name) > math.MaxUint16 {
		return fmt.Errorf("ipp: attribute name exceeds %d bytes", math.MaxUint16)
	}
	if err := e.u16(uint16(len(name))); err != nil {
		return err
	}
	return e.write([]byte(name))
}

func (e *encoder) u8(v uint8) error { return e.write([]byte{v}) }

func (e *encoder) u16(v uint16) error {
	buf := make([]byte, 2)
	binary.BigEndian.PutUint16(buf, v)
	return e.write(buf)
}

func (e *encoder) u32(v uint32) error {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, v)
	return e.write(buf)
}

func (e *encoder) write(data []byte) error {
	for len(data) > 0 {
		n, err := e.out.Write(data)
		if err != nil {
			return err
		}
		data = data[n:]
	}
	return nil
}
