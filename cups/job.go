/* cups4j - Print job submission types and their IPP attribute mapping.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/oboehm/cups4j/ipp"
)

// PrintJob describes a document submission. NewPrintJob seeds the same
// defaults the original builder used (copies=1, duplex=false,
// portrait=true, color=false); callers set the fields they need before
// passing it to Client.PrintJobSubmit.
type PrintJob struct {
	Document io.Reader // read to EOF; not closed by this library
	UserName string
	JobName  string

	Copies     uint32
	PageRanges string // e.g. "1-3,5,8,10-13"; empty means all pages
	Duplex     bool
	Portrait   bool
	Color      bool
	PageFormat string // e.g. "iso_a4_210x297mm"
	Resolution string // e.g. "600dpi" or "600x600dpi"

	DocumentFormat string // sent as "application/octet-stream" when empty

	// OperationAttributes carries ad hoc keyword-valued operation
	// attributes the caller wants sent verbatim, e.g. {"compression":
	// "none"}.
	OperationAttributes map[string]string

	// JobAttributesString is the original "job-attributes" convention:
	// "name:syntax:value#name:syntax:value", parsed into individual
	// typed job attributes before serialization.
	JobAttributesString string
}

// NewPrintJob returns a PrintJob for document, pre-seeded with the
// defaults the source builder used.
func NewPrintJob(document io.Reader) *PrintJob {
	return &PrintJob{
		Document: document,
		Copies:   1,
		Portrait: true,
	}
}

// PageRange is an inclusive, 1-based page range.
type PageRange struct {
	Lower, Upper int
}

// ParsePageRanges parses a comma-separated list of page numbers and
// dash-separated ranges ("1-3,5,8,10-13") into disjoint, ascending
// ranges. A malformed entry (non-numeric, or a range where Lower >
// Upper) returns a KindInvalidArgument Error.
func ParsePageRanges(s string) ([]PageRange, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	var ranges []PageRange
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		var lo, hi int
		if idx := strings.IndexByte(part, '-'); idx >= 0 {
			var err error
			lo, err = strconv.Atoi(strings.TrimSpace(part[:idx]))
			if err != nil {
				return nil, newError(KindInvalidArgument, "malformed page range %q", part)
			}
			hi, err = strconv.Atoi(strings.TrimSpace(part[idx+1:]))
			if err != nil {
				return nil, newError(KindInvalidArgument, "malformed page range %q", part)
			}
		} else {
			n, err := strconv.Atoi(part)
			if err != nil {
				return nil, newError(KindInvalidArgument, "malformed page number %q", part)
			}
			lo, hi = n, n
		}

		if lo > hi {
			return nil, newError(KindInvalidArgument, "malformed page range %q: lower bound exceeds upper", part)
		}

		ranges = append(ranges, PageRange{Lower: lo, Upper: hi})
	}

	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Lower < ranges[j].Lower })
	merged := ranges[:0]
	for _, r := range ranges {
		if n := len(merged); n > 0 && r.Lower <= merged[n-1].Upper {
			if r.Upper > merged[n-1].Upper {
				merged[n-1].Upper = r.Upper
			}
			continue
		}
		merged = append(merged, r)
	}

	return merged, nil
}

// parseResolution parses "600dpi" or "600x600dpi"/"600x600dpc" into an
// ipp.Resolution. A single number applies to both axes.
func parseResolution(s string) (ipp.Resolution, error) {
	s = strings.TrimSpace(strings.ToLower(s))

	units := ipp.UnitsDPI
	switch {
	case strings.HasSuffix(s, "dpi"):
		s = strings.TrimSuffix(s, "dpi")
	case strings.HasSuffix(s, "dpc"):
		units = ipp.UnitsDPC
		s = strings.TrimSuffix(s, "dpc")
	default:
		return ipp.Resolution{}, newError(KindInvalidArgument, "unrecognized resolution unit in %q", s)
	}

	x, y := s, s
	if idx := strings.IndexByte(s, 'x'); idx >= 0 {
		x, y = s[:idx], s[idx+1:]
	}

	xi, err := strconv.Atoi(x)
	if err != nil {
		return ipp.Resolution{}, newError(KindInvalidArgument, "malformed resolution %q", s)
	}
	yi, err := strconv.Atoi(y)
	if err != nil {
		return ipp.Resolution{}, newError(KindInvalidArgument, "malformed resolution %q", s)
	}

	return ipp.Resolution{X: xi, Y: yi, Units: units}, nil
}

// sidesKeyword maps the PrintJob duplex/portrait pair onto the "sides"
// keyword attribute.
func sidesKeyword(duplex, portrait bool) string {
	if !duplex {
		return "one-sided"
	}
	if portrait {
		return "two-sided-long-edge"
	}
	return "two-sided-short-edge"
}

// orientationEnum maps portrait onto the "orientation-requested" enum
// (3 = portrait, 4 = landscape).
func orientationEnum(portrait bool) ipp.Integer {
	if portrait {
		return 3
	}
	return 4
}

// outputModeKeyword maps color onto the "output-mode" keyword.
func outputModeKeyword(color bool) string {
	if color {
		return "color"
	}
	return "monochrome"
}

// parseJobAttributesString parses the "name:syntax:value#name:syntax:value"
// convention into individual attributes, appending them to group. Unknown
// syntax tokens map to keyword.
func parseJobAttributesString(s string, group *ipp.Attributes) error {
	if s == "" {
		return nil
	}

	for _, triple := range strings.Split(s, "#") {
		triple = strings.TrimSpace(triple)
		if triple == "" {
			continue
		}

		parts := strings.SplitN(triple, ":", 3)
		if len(parts) != 3 {
			return newError(KindInvalidArgument, "malformed job-attributes entry %q", triple)
		}
		name, syntax, value := parts[0], parts[1], parts[2]

		tag, val, err := encodeBySyntax(syntax, value)
		if err != nil {
			return err
		}

		group.Add(ipp.MakeAttr(name, tag, val))
	}

	return nil
}

// encodeBySyntax converts a job-attributes-string syntax token and its
// literal value into a tagged ipp.Value.
func encodeBySyntax(syntax, value string) (ipp.Tag, ipp.Value, error) {
	switch syntax {
	case "integer":
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, nil, newError(KindInvalidArgument, "malformed integer value %q", value)
		}
		return ipp.TagInteger, ipp.Integer(n), nil
	case "enum":
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, nil, newError(KindInvalidArgument, "malformed enum value %q", value)
		}
		return ipp.TagEnum, ipp.Integer(n), nil
	case "boolean":
		return ipp.TagBoolean, ipp.Boolean(value == "true"), nil
	case "uri":
		return ipp.TagURI, ipp.String(value), nil
	case "name":
		return ipp.TagName, ipp.String(value), nil
	case "text":
		return ipp.TagText, ipp.String(value), nil
	case "keyword", "":
		return ipp.TagKeyword, ipp.String(value), nil
	default:
		// Unknown syntax tokens map to keyword, per spec.
		return ipp.TagKeyword, ipp.String(value), nil
	}
}

// PrintJobAttributes is the projection of a job-attributes group
// returned by Print-Job, Get-Job-Attributes, or Get-Jobs.
type PrintJobAttributes struct {
	JobID      uint32
	JobURI     string
	PrinterURI string
	UserName   string
	JobName    string
	State      JobState

	Attributes map[string][]ipp.Value
}

// projectJob builds a PrintJobAttributes from one job-attributes group.
func projectJob(group ipp.Group) PrintJobAttributes {
	j := PrintJobAttributes{Attributes: make(map[string][]ipp.Value)}

	for _, attr := range group.Attrs {
		vals := make([]ipp.Value, len(attr.Values))
		for i, tv := range attr.Values {
			vals[i] = tv.Val
		}
		j.Attributes[attr.Name] = vals

		switch attr.Name {
		case "job-id":
			if n, ok := firstInteger(vals); ok {
				j.JobID = uint32(n)
			}
		case "job-uri":
			j.JobURI = firstString(vals)
		case "job-printer-uri":
			j.PrinterURI = firstString(vals)
		case "job-originating-user-name":
			j.UserName = firstString(vals)
		case "job-name":
			j.JobName = firstString(vals)
		case "job-state":
			if n, ok := firstInteger(vals); ok {
				j.State = JobState(n)
			}
		}
	}

	return j
}
