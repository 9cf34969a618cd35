/* cups4j - Printer entity and its projection from IPP attribute groups.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"strings"

	"github.com/oboehm/cups4j/ipp"
)

// Printer is the projection of an IPP printer-attributes group into a
// domain entity.
type Printer struct {
	URI                 string
	Name                string
	Description         string
	Location            string
	State               PrinterState
	StateReasons        []string
	IsDefault           bool
	MediaSupported      []string
	ResolutionSupported []string
	MimeTypesSupported  []string

	// Attributes holds every attribute of the printer-attributes group,
	// keyed by name, for callers that need something this projection
	// does not expose directly.
	Attributes map[string][]ipp.Value
}

// cupsImplicitClassBit is the printer-type bit (spec.md §9) flagging a
// CUPS implicit class: a virtual printer fanning out to several queues
// sharing the same name across servers.
const cupsImplicitClassBit = 0x00000004

// isImplicitClass reports whether the raw printer-type attribute for
// this printer has the implicit-class bit set.
func (p Printer) isImplicitClass() bool {
	vals, ok := p.Attributes["printer-type"]
	if !ok || len(vals) == 0 {
		return false
	}
	n, ok := vals[0].(ipp.Integer)
	if !ok {
		return false
	}
	return int32(n)&cupsImplicitClassBit != 0
}

// projectPrinter builds a Printer from one printer-attributes group.
func projectPrinter(group ipp.Group) Printer {
	p := Printer{Attributes: make(map[string][]ipp.Value)}

	for _, attr := range group.Attrs {
		vals := make([]ipp.Value, len(attr.Values))
		for i, tv := range attr.Values {
			vals[i] = tv.Val
		}
		p.Attributes[attr.Name] = vals

		switch attr.Name {
		case "printer-uri-supported":
			p.URI = firstString(vals)
		case "printer-name":
			p.Name = firstString(vals)
		case "printer-info":
			p.Description = firstString(vals)
		case "printer-location":
			p.Location = firstString(vals)
		case "printer-state":
			if n, ok := firstInteger(vals); ok {
				p.State = PrinterState(n)
			}
		case "printer-state-reasons":
			p.StateReasons = allStrings(vals)
		case "printer-is-default", "printer-is-shared":
			if b, ok := firstBoolean(vals); ok && attr.Name == "printer-is-default" {
				p.IsDefault = b
			}
		case "media-supported":
			p.MediaSupported = allStrings(vals)
		case "printer-resolution-supported":
			p.ResolutionSupported = resolutionStrings(vals)
		case "document-format-supported":
			p.MimeTypesSupported = allStrings(vals)
		}
	}

	return p
}

func firstString(vals []ipp.Value) string {
	if len(vals) == 0 {
		return ""
	}
	if s, ok := vals[0].(ipp.String); ok {
		return string(s)
	}
	return ""
}

func firstInteger(vals []ipp.Value) (int32, bool) {
	if len(vals) == 0 {
		return 0, false
	}
	if n, ok := vals[0].(ipp.Integer); ok {
		return int32(n), true
	}
	return 0, false
}

func firstBoolean(vals []ipp.Value) (bool, bool) {
	if len(vals) == 0 {
		return false, false
	}
	if b, ok := vals[0].(ipp.Boolean); ok {
		return bool(b), true
	}
	return false, false
}

func allStrings(vals []ipp.Value) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if s, ok := v.(ipp.String); ok {
			out = append(out, string(s))
		}
	}
	return out
}

func resolutionStrings(vals []ipp.Value) []string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		if r, ok := v.(ipp.Resolution); ok {
			out = append(out, r.String())
		}
	}
	return out
}

// filterImplicitDuplicates removes any printer flagged as a CUPS
// implicit class when another entry in the same list shares its name
// (spec.md §9 Open Question, resolved as option (a): filter-on-duplicate).
// A printer that is the only listing under its name is never suppressed,
// even if it happens to be flagged as an implicit class.
func filterImplicitDuplicates(printers []Printer) []Printer {
	counts := make(map[string]int, len(printers))
	for _, p := range printers {
		counts[strings.ToLower(p.Name)]++
	}

	out := make([]Printer, 0, len(printers))
	for _, p := range printers {
		if p.isImplicitClass() && counts[strings.ToLower(p.Name)] > 1 {
			continue
		}
		out = append(out, p)
	}
	return out
}
