package fakturoid

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// tokenServer wraps a handler with a token endpoint and counts how often it
// is hit.
func tokenServer(t *testing.T, tokenCalls *int, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			*tokenCalls++
			if r.Method != "POST" {
				t.Errorf("token exchange: expected POST, got %s", r.Method)
			}
			auth := r.Header.Get("Authorization")
			if auth != "Basic dGVzdC1pZDp0ZXN0LXNlY3JldA==" { // test-id:test-secret
				t.Errorf("token exchange: unexpected auth header %q", auth)
			}
			if ct := r.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
				t.Errorf("token exchange: unexpected content type %q", ct)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("token exchange: parse form: %v", err)
			}
			if g := r.PostForm.Get("grant_type"); g != "client_credentials" {
				t.Errorf("token exchange: grant_type = %q", g)
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "tok-123",
				"token_type":   "Bearer",
				"expires_in":   7200,
			})
			return
		}
		handler(w, r)
	}))
}

func TestTokenRequestedAtMostOnce(t *testing.T) {
	tokenCalls := 0
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer tok-123" {
			t.Errorf("expected bearer token, got %q", auth)
		}
		if ua := r.Header.Get("User-Agent"); ua != "TestApp (me@example.com)" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	defer srv.Close()

	c := testClient(srv.URL)
	for i := 0; i < 2; i++ {
		if _, err := c.ListSubjects(context.Background()); err != nil {
			t.Fatalf("ListSubjects: %v", err)
		}
	}
	if tokenCalls != 1 {
		t.Errorf("token endpoint hit %d times, want 1", tokenCalls)
	}
}

func TestAuthenticateRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(401)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.ListSubjects(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected *AuthError, got %T: %v", err, err)
	}
	if authErr.Status != 401 {
		t.Errorf("status = %d, want 401", authErr.Status)
	}
}

func TestRequestErrorCarriesStatusAndBody(t *testing.T) {
	tokenCalls := 0
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(422)
		w.Write([]byte(`{"errors":{"lines":["invalid"]}}`))
	})
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.CreateInvoice(context.Background(), InvoiceDraft{SubjectID: 1})
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %T: %v", err, err)
	}
	if reqErr.Status != 422 {
		t.Errorf("status = %d, want 422", reqErr.Status)
	}
	if reqErr.Body != `{"errors":{"lines":["invalid"]}}` {
		t.Errorf("body = %q", reqErr.Body)
	}
}

func TestBinaryClassification(t *testing.T) {
	tokenCalls := 0
	pdf := []byte("%PDF-1.4 fake")
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acme/invoices/7/download.pdf" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Transfer-Encoding", "binary")
		w.Write(pdf)
	})
	defer srv.Close()

	c := testClient(srv.URL)
	got, err := c.DownloadPDF(context.Background(), 7)
	if err != nil {
		t.Fatalf("DownloadPDF: %v", err)
	}
	if string(got) != string(pdf) {
		t.Errorf("pdf bytes = %q, want %q", got, pdf)
	}
}

func TestEmptyClassification(t *testing.T) {
	tokenCalls := 0
	var fired struct {
		Event string `json:"event"`
	}
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acme/invoices/9/fire.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&fired)
		w.WriteHeader(204)
	})
	defer srv.Close()

	c := testClient(srv.URL)
	if err := c.MarkAsSent(context.Background(), 9); err != nil {
		t.Fatalf("MarkAsSent: %v", err)
	}
	if fired.Event != "mark_as_sent" {
		t.Errorf("event = %q, want mark_as_sent", fired.Event)
	}
}

func TestShapeMismatchSurfaced(t *testing.T) {
	tokenCalls := 0
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		// Object where the subject list is expected.
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1}`))
	})
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.ListSubjects(context.Background()); err == nil {
		t.Fatal("expected shape mismatch error, got nil")
	}
}

func TestMissingIDCaughtBeforeNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, err := c.Request(context.Background(), "GET", "download_pdf", ReqOptions{})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if calls != 0 {
		t.Errorf("server hit %d times, want 0", calls)
	}
}

func TestCreateInvoiceRoundTrip(t *testing.T) {
	tokenCalls := 0
	var received map[string]json.RawMessage
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case "POST":
			if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
				t.Fatalf("decode create body: %v", err)
			}
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"id": 11, "number": "2026-0001", "subject_id": 3,
				"issued_on": "2026-08-01", "due": 14, "status": "open",
				"lines": [
					{"quantity": 2.5, "unit_name": "hod", "unit_price": 1200, "name": "Work za 08/2026"},
					{"quantity": 1, "unit_name": "kus", "unit_price": 500, "name": "License za 08/2026"}
				]
			}`))
		default:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[]`))
		}
	})
	defer srv.Close()

	c := testClient(srv.URL)
	draft := InvoiceDraft{
		SubjectID: 3,
		IssuedOn:  "2026-08-01",
		Due:       14,
		Lines: []InvoiceLine{
			{Quantity: 2.5, UnitName: "hod", UnitPrice: 1200, Name: "Work za 08/2026"},
			{Quantity: 1, UnitName: "kus", UnitPrice: 500, Name: "License za 08/2026"},
		},
	}
	inv, err := c.CreateInvoice(context.Background(), draft)
	if err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}

	if len(inv.Lines) != len(draft.Lines) {
		t.Fatalf("round trip lines = %d, want %d", len(inv.Lines), len(draft.Lines))
	}
	for i := range draft.Lines {
		if inv.Lines[i].Quantity != draft.Lines[i].Quantity {
			t.Errorf("line %d quantity = %v, want %v", i, inv.Lines[i].Quantity, draft.Lines[i].Quantity)
		}
		if inv.Lines[i].UnitPrice != draft.Lines[i].UnitPrice {
			t.Errorf("line %d unit_price = %v, want %v", i, inv.Lines[i].UnitPrice, draft.Lines[i].UnitPrice)
		}
	}

	// The derived total never appears on the wire.
	var lines []map[string]json.RawMessage
	if err := json.Unmarshal(received["lines"], &lines); err != nil {
		t.Fatalf("decode transmitted lines: %v", err)
	}
	for i, line := range lines {
		if _, ok := line["total_price"]; ok {
			t.Errorf("line %d transmitted a total_price field", i)
		}
	}
}

func TestCreateInvoiceEmptyLinesTransmitsList(t *testing.T) {
	tokenCalls := 0
	var raw map[string]json.RawMessage
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 12, "number": "2026-0002", "lines": []}`))
	})
	defer srv.Close()

	c := testClient(srv.URL)
	if _, err := c.CreateInvoice(context.Background(), InvoiceDraft{SubjectID: 3}); err != nil {
		t.Fatalf("CreateInvoice: %v", err)
	}
	if string(raw["lines"]) != "[]" {
		t.Errorf("lines on the wire = %s, want []", raw["lines"])
	}
}

func TestListUnpaidDeduplicatesByID(t *testing.T) {
	tokenCalls := 0
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Query().Get("status") {
		case "open":
			w.Write([]byte(`[{"id":1,"number":"A"},{"id":2,"number":"B"}]`))
		case "sent":
			w.Write([]byte(`[{"id":2,"number":"B"},{"id":3,"number":"C"}]`))
		case "overdue":
			w.Write([]byte(`[{"id":3,"number":"C"}]`))
		default:
			t.Errorf("unexpected status filter %q", r.URL.Query().Get("status"))
			w.Write([]byte(`[]`))
		}
	})
	defer srv.Close()

	c := testClient(srv.URL)
	unpaid, err := c.ListUnpaidInvoices(context.Background(), 5)
	if err != nil {
		t.Fatalf("ListUnpaidInvoices: %v", err)
	}
	if len(unpaid) != 3 {
		t.Fatalf("unpaid count = %d, want 3", len(unpaid))
	}
	seen := map[int]bool{}
	for _, inv := range unpaid {
		if seen[inv.ID] {
			t.Errorf("invoice id %d appears more than once", inv.ID)
		}
		seen[inv.ID] = true
	}
}

func TestCreatePayment(t *testing.T) {
	tokenCalls := 0
	var body Payment
	srv := tokenServer(t, &tokenCalls, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/accounts/acme/invoices/4/payments.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(201)
		w.Write([]byte(`{"id":99,"paid_on":"2026-08-15"}`))
	})
	defer srv.Close()

	c := testClient(srv.URL)
	paidOn, _ := time.Parse(DateFormat, "2026-08-15")
	if err := c.CreatePayment(context.Background(), 4, paidOn); err != nil {
		t.Fatalf("CreatePayment: %v", err)
	}
	if body.PaidOn != "2026-08-15" {
		t.Errorf("paid_on = %q, want 2026-08-15", body.PaidOn)
	}
}
