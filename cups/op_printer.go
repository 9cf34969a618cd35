/* cups4j - Printer enumeration and attribute lookup operations.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"context"

	"github.com/oboehm/cups4j/ipp"
)

// GetPrinters performs CUPS-Get-Printers and projects every returned
// printer-attributes group into a Printer. The CUPS implicit-class
// duplicate suppression described by the Open Question is NOT applied
// here; use GetPrintersWithoutDefault for that.
//
// The request carries only the mandatory attributes-charset /
// attributes-natural-language prelude and no requesting-user-name (spec
// §8, scenario 1): CUPS-Get-Printers lists every printer regardless of
// owner, so there is nothing to filter by.
func (c *Client) GetPrinters(ctx context.Context) ([]Printer, error) {
	msg, _ := newRequest(ipp.OpCupsGetPrinters)

	resp, err := c.exchange(ctx, c.serverURL(), msg)
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	groups := resp.AllGroups(ipp.TagPrinterGroup)
	printers := make([]Printer, len(groups))
	for i, g := range groups {
		printers[i] = projectPrinter(g)
	}
	return printers, nil
}

// GetPrintersWithoutDefault is GetPrinters with the CUPS implicit-class
// duplicate filter applied (spec.md §9 Open Question, resolved as
// option (a): see printer.go's filterImplicitDuplicates).
func (c *Client) GetPrintersWithoutDefault(ctx context.Context) ([]Printer, error) {
	printers, err := c.GetPrinters(ctx)
	if err != nil {
		return nil, err
	}
	return filterImplicitDuplicates(printers), nil
}

// GetDefaultPrinter performs CUPS-Get-Default, which returns exactly one
// printer-attributes group.
func (c *Client) GetDefaultPrinter(ctx context.Context) (Printer, error) {
	msg, gi := newRequest(ipp.OpCupsGetDefault)
	addUserName(msg, gi, c.cfg.User)

	resp, err := c.exchange(ctx, c.serverURL(), msg)
	if err != nil {
		return Printer{}, err
	}
	if err := checkStatus(resp); err != nil {
		return Printer{}, err
	}

	group, ok := resp.Group(ipp.TagPrinterGroup)
	if !ok {
		return Printer{}, newError(KindProtocol, "CUPS-Get-Default response carries no printer-attributes group")
	}
	p := projectPrinter(group)
	p.IsDefault = true
	return p, nil
}

// GetPrinterAttributes performs Get-Printer-Attributes against a
// specific printer URI.
func (c *Client) GetPrinterAttributes(ctx context.Context, printerURI string) (Printer, error) {
	msg, gi := newRequest(ipp.OpGetPrinterAttributes)
	msg.Add(gi, ipp.MakeAttr("printer-uri", ipp.TagURI, ipp.String(printerURI)))
	addUserName(msg, gi, c.cfg.User)

	resp, err := c.exchange(ctx, c.printerURL(printerURI), msg)
	if err != nil {
		return Printer{}, err
	}
	if err := checkStatus(resp); err != nil {
		return Printer{}, err
	}

	group, ok := resp.Group(ipp.TagPrinterGroup)
	if !ok {
		return Printer{}, newError(KindProtocol, "Get-Printer-Attributes response carries no printer-attributes group")
	}
	return projectPrinter(group), nil
}

// GetPrinterByName is a convenience filter over GetPrinters (spec §4.4).
func (c *Client) GetPrinterByName(ctx context.Context, name string) (Printer, bool, error) {
	printers, err := c.GetPrinters(ctx)
	if err != nil {
		return Printer{}, false, err
	}
	for _, p := range printers {
		if p.Name == name {
			return p, true, nil
		}
	}
	return Printer{}, false, nil
}

// GetPrinterByURL is a convenience filter over GetPrinters (spec §4.4).
func (c *Client) GetPrinterByURL(ctx context.Context, uri string) (Printer, bool, error) {
	printers, err := c.GetPrinters(ctx)
	if err != nil {
		return Printer{}, false, err
	}
	for _, p := range printers {
		if p.URI == uri {
			return p, true, nil
		}
	}
	return Printer{}, false, nil
}

// GetPrinterOnCurrentHost resolves a path-only printer URL (e.g.
// "/printers/foo") against the client's own configured host/port and
// fetches its attributes.
func (c *Client) GetPrinterOnCurrentHost(ctx context.Context, path string) (Printer, error) {
	return c.GetPrinterAttributes(ctx, c.cfg.ResolvePath(path))
}
