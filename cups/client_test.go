/* cups4j - End-to-end tests for the client facade against a fake CUPS server.
 *
 * See LICENSE for license terms and conditions
 */

package cups

import (
	"bytes"
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/oboehm/cups4j/config"
	"github.com/oboehm/cups4j/ipp"
)

func testClient(t *testing.T, srv *httptest.Server) *Client {
	t.Helper()
	hostport := strings.TrimPrefix(srv.URL, "http://")
	host := hostport
	port := 80
	if idx := strings.LastIndex(hostport, ":"); idx >= 0 {
		host = hostport[:idx]
		p, err := strconv.Atoi(hostport[idx+1:])
		if err != nil {
			t.Fatalf("parsing test server port: %s", err)
		}
		port = p
	}
	cfg := config.Config{Host: host, Port: port, Scheme: "http", User: "tester"}
	return NewClient(cfg)
}

// TestEnumeratePrinters exercises spec §8 scenario 1: the encoded
// request's exact bytes, and the projection of a response
// printer-attributes group into a Printer.
func TestEnumeratePrinters(t *testing.T) {
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = ioutil.ReadAll(r.Body)

		resp := ipp.NewResponse(ipp.DefaultVersion, ipp.StatusOK, 1)
		gi := resp.AddGroup(ipp.TagOperationGroup)
		resp.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
		resp.Add(gi, ipp.MakeAttr("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))

		pi := resp.AddGroup(ipp.TagPrinterGroup)
		resp.Add(pi, ipp.MakeAttr("printer-name", ipp.TagName, ipp.String("LaserJet")))
		resp.Add(pi, ipp.MakeAttr("printer-uri-supported", ipp.TagURI, ipp.String("ipp://host:631/printers/LaserJet")))
		resp.Add(pi, ipp.MakeAttr("printer-state", ipp.TagEnum, ipp.Integer(3)))

		data, err := resp.EncodeBytes()
		if err != nil {
			t.Fatalf("EncodeBytes: %s", err)
		}
		w.Header().Set("Content-Type", "application/ipp")
		w.Write(data)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	printers, err := c.GetPrinters(context.Background())
	if err != nil {
		t.Fatalf("GetPrinters: %s", err)
	}
	if len(printers) != 1 {
		t.Fatalf("got %d printers, want 1", len(printers))
	}

	p := printers[0]
	if p.Name != "LaserJet" {
		t.Errorf("Name = %q, want %q", p.Name, "LaserJet")
	}
	if p.URI != "ipp://host:631/printers/LaserJet" {
		t.Errorf("URI = %q, want %q", p.URI, "ipp://host:631/printers/LaserJet")
	}
	if p.State != PrinterStateIdle {
		t.Errorf("State = %v, want %v", p.State, PrinterStateIdle)
	}

	if len(gotBody) < 8 || gotBody[0] != 0x01 || gotBody[1] != 0x01 || gotBody[2] != 0x40 || gotBody[3] != 0x02 {
		t.Fatalf("request header mismatch: got % x", gotBody)
	}

	wantTail := []byte{
		0x01, // operation-attributes-tag
		0x47, 0x00, 0x12, 'a', 't', 't', 'r', 'i', 'b', 'u', 't', 'e', 's', '-', 'c', 'h', 'a', 'r', 's', 'e', 't',
		0x00, 0x05, 'u', 't', 'f', '-', '8',
		0x48, 0x00, 0x1b, 'a', 't', 't', 'r', 'i', 'b', 'u', 't', 'e', 's', '-', 'n', 'a', 't', 'u', 'r', 'a', 'l', '-', 'l', 'a', 'n', 'g', 'u', 'a', 'g', 'e',
		0x00, 0x02, 'e', 'n',
		0x03, // end-of-attributes-tag
	}
	got := gotBody[8:] // skip version+code+request-id
	if !bytes.Equal(got, wantTail) {
		t.Fatalf("request body mismatch:\n got  % x\n want % x", got, wantTail)
	}
}

// TestPrintJobSubmission exercises spec §8 scenario 2: job-attributes
// mapping and body length (encoded IPP length + document length).
func TestPrintJobSubmission(t *testing.T) {
	document := bytes.Repeat([]byte{0x42}, 128)
	var gotLen int

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := ioutil.ReadAll(r.Body)
		gotLen = len(body)

		var req ipp.Message
		if err := req.DecodeBytes(body); err != nil {
			t.Fatalf("decoding request: %s", err)
		}

		jobAttrs, ok := req.Group(ipp.TagJobGroup)
		if !ok {
			t.Fatalf("request carries no job-attributes group")
		}
		copies, _ := jobAttrs.Attrs.Get("copies")
		if len(copies.Values) == 0 || copies.Values[0].Val.String() != "2" {
			t.Errorf("copies attribute = %+v, want 2", copies)
		}
		sides, _ := jobAttrs.Attrs.Get("sides")
		if len(sides.Values) == 0 || sides.Values[0].Val.String() != "two-sided-long-edge" {
			t.Errorf("sides attribute = %+v, want two-sided-long-edge", sides)
		}
		media, _ := jobAttrs.Attrs.Get("media")
		if len(media.Values) == 0 || media.Values[0].Val.String() != "iso_a4_210x297mm" {
			t.Errorf("media attribute = %+v, want iso_a4_210x297mm", media)
		}

		resp := ipp.NewResponse(ipp.DefaultVersion, ipp.StatusOK, req.RequestID)
		gi := resp.AddGroup(ipp.TagOperationGroup)
		resp.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
		resp.Add(gi, ipp.MakeAttr("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))

		ji := resp.AddGroup(ipp.TagJobGroup)
		resp.Add(ji, ipp.MakeAttr("job-id", ipp.TagInteger, ipp.Integer(7)))
		resp.Add(ji, ipp.MakeAttr("job-uri", ipp.TagURI, ipp.String("ipp://host:631/jobs/7")))
		resp.Add(ji, ipp.MakeAttr("job-state", ipp.TagEnum, ipp.Integer(int32(JobStatePending))))

		data, err := resp.EncodeBytes()
		if err != nil {
			t.Fatalf("EncodeBytes: %s", err)
		}
		w.Write(data)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	job := NewPrintJob(bytes.NewReader(document))
	job.Copies = 2
	job.Duplex = true
	job.Portrait = true
	job.PageFormat = "iso_a4_210x297mm"

	attrs, err := c.PrintJobSubmit(context.Background(), "ipp://host:631/printers/LaserJet", job)
	if err != nil {
		t.Fatalf("PrintJobSubmit: %s", err)
	}
	if attrs.JobID != 7 {
		t.Errorf("JobID = %d, want 7", attrs.JobID)
	}
	if attrs.State != JobStatePending {
		t.Errorf("State = %v, want %v", attrs.State, JobStatePending)
	}

	// The body the server observed is the encoded IPP header plus the
	// 128-byte document; its exact length depends on attribute
	// encoding, so just check it exceeds the document length.
	if gotLen <= len(document) {
		t.Errorf("observed request body length %d does not exceed document length %d", gotLen, len(document))
	}
}

// TestCancelTerminalJob exercises spec §8 scenario 3.
func TestCancelTerminalJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipp.NewResponse(ipp.DefaultVersion, ipp.StatusErrorNotPossible, 1)
		gi := resp.AddGroup(ipp.TagOperationGroup)
		resp.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
		resp.Add(gi, ipp.MakeAttr("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
		resp.Add(gi, ipp.MakeAttr("status-message", ipp.TagText, ipp.String("job is in a terminal state")))

		data, _ := resp.EncodeBytes()
		w.Write(data)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	err := c.CancelJob(context.Background(), "ipp://host:631/printers/LaserJet", 99, "")
	if err == nil {
		t.Fatalf("CancelJob on a terminal job: expected an error")
	}

	cerr, ok := err.(*Error)
	if !ok {
		t.Fatalf("got %T, want *Error", err)
	}
	if cerr.Kind != KindIPPStatus || cerr.IPPStatus != ipp.StatusErrorNotPossible {
		t.Errorf("got Kind=%v IPPStatus=0x%04x, want KindIPPStatus / 0x%04x",
			cerr.Kind, uint16(cerr.IPPStatus), uint16(ipp.StatusErrorNotPossible))
	}
}

// TestAuthChallengeRetrySucceeds exercises spec §8 scenario 4's first
// half: one retry after a 401, success on 200.
func TestAuthChallengeRetrySucceeds(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.Header().Set("WWW-Authenticate", `Basic realm="cups"`)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || user != "alice" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		resp := ipp.NewResponse(ipp.DefaultVersion, ipp.StatusOK, 1)
		gi := resp.AddGroup(ipp.TagOperationGroup)
		resp.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
		resp.Add(gi, ipp.MakeAttr("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
		data, _ := resp.EncodeBytes()
		w.Write(data)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	c.cfg.CredentialsUser = "alice"
	c.cfg.CredentialsPassword = "secret"

	if _, err := c.GetPrinters(context.Background()); err != nil {
		t.Fatalf("GetPrinters after one 401: %s", err)
	}
	if attempts != 2 {
		t.Errorf("server saw %d attempts, want 2", attempts)
	}
}

// TestAuthChallengeRetryExhausted exercises spec §8 scenario 4's second
// half: a second 401 raises AUTH_REQUIRED.
func TestAuthChallengeRetryExhausted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("WWW-Authenticate", `Basic realm="cups"`)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	c.cfg.CredentialsUser = "alice"
	c.cfg.CredentialsPassword = "wrong"

	_, err := c.GetPrinters(context.Background())
	if err == nil {
		t.Fatalf("expected AUTH_REQUIRED after exhausting the retry")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != KindAuthRequired {
		t.Fatalf("got %v, want KindAuthRequired", err)
	}
}

// TestMoveJob exercises spec §8 scenario 5.
func TestMoveJob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipp.NewResponse(ipp.DefaultVersion, ipp.StatusOK, 1)
		gi := resp.AddGroup(ipp.TagOperationGroup)
		resp.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
		resp.Add(gi, ipp.MakeAttr("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
		data, _ := resp.EncodeBytes()
		w.Write(data)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	ok, err := c.MoveJob(context.Background(), "ipp://h:631/jobs/42", "", "ipp://h:631/printers/B")
	if err != nil {
		t.Fatalf("MoveJob: %s", err)
	}
	if !ok {
		t.Errorf("MoveJob returned false, want true")
	}
}

// TestEnumeratePrintersWithBasePath checks that a configured base path
// reaches the actual HTTP request target.
func TestEnumeratePrintersWithBasePath(t *testing.T) {
	var gotPath string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		resp := ipp.NewResponse(ipp.DefaultVersion, ipp.StatusOK, 1)
		gi := resp.AddGroup(ipp.TagOperationGroup)
		resp.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
		resp.Add(gi, ipp.MakeAttr("attributes-natural-language", ipp.TagLanguage, ipp.String("en")))
		data, _ := resp.EncodeBytes()
		w.Write(data)
	}))
	defer srv.Close()

	c := testClient(t, srv)
	c.cfg.BasePath = "/printers/LaserJet"

	if _, err := c.GetPrinters(context.Background()); err != nil {
		t.Fatalf("GetPrinters: %s", err)
	}
	if gotPath != "/printers/LaserJet/" {
		t.Errorf("observed request path = %q, want %q", gotPath, "/printers/LaserJet/")
	}
}

// TestMalformedResponse exercises spec §8 scenario 6.
func TestMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ipp.NewResponse(ipp.DefaultVersion, ipp.StatusOK, 1)
		gi := resp.AddGroup(ipp.TagOperationGroup)
		resp.Add(gi, ipp.MakeAttr("attributes-charset", ipp.TagCharset, ipp.String("utf-8")))
		data, err := resp.EncodeBytes()
		if err != nil {
			t.Fatalf("EncodeBytes: %s", err)
		}
		w.Write(data[:len(data)-6]) // truncate mid value
	}))
	defer srv.Close()

	c := testClient(t, srv)
	_, err := c.GetPrinters(context.Background())
	if err == nil {
		t.Fatalf("expected a PROTOCOL_ERROR")
	}
	cerr, ok := err.(*Error)
	if !ok || cerr.Kind != KindProtocol {
		t.Fatalf("got %v, want KindProtocol", err)
	}
	if cerr.Protocol != ipp.Truncated {
		t.Errorf("Protocol = %v, want TRUNCATED", cerr.Protocol)
	}
}
