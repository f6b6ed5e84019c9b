package googlesheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// fakeSheets mimics the subset of the Sheets v4 REST API the backend uses,
// backed by an in-memory grid for the worksheet "TestSheet" (sheetId 123).
type fakeSheets struct {
	t *testing.T

	mu       sync.Mutex
	rows     [][]interface{}
	requests []*http.Request
	bodies   map[string][]byte // last request body per path
	failures map[string]int    // path -> remaining 503 responses
	calls    map[string]int
}

func newFakeSheets(t *testing.T, rows [][]interface{}) (*fakeSheets, *httptest.Server) {
	f := &fakeSheets{
		t:        t,
		rows:     rows,
		bodies:   make(map[string][]byte),
		failures: make(map[string]int),
		calls:    make(map[string]int),
	}
	server := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(server.Close)
	return f, server
}

func (f *fakeSheets) open(t *testing.T, server *httptest.Server, config Config) *Sheet {
	t.Helper()
	if config.SpreadsheetID == "" {
		config.SpreadsheetID = "test-id"
	}
	if config.SheetName == "" && config.SheetIndex == 0 {
		config.SheetIndex = 1
	}
	s, err := NewSheet(context.Background(), config,
		option.WithEndpoint(server.URL), option.WithoutAuthentication())
	if err != nil {
		t.Fatalf("Failed to create sheet: %v", err)
	}
	return s
}

func (f *fakeSheets) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[path]
}

func (f *fakeSheets) body(path string) []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[path]
}

func (f *fakeSheets) snapshot() [][]interface{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]interface{}, len(f.rows))
	for i, r := range f.rows {
		out[i] = append([]interface{}(nil), r...)
	}
	return out
}

func (f *fakeSheets) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	f.calls[path]++
	f.requests = append(f.requests, r)

	var body []byte
	if r.Body != nil {
		var raw json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		body = raw
		f.bodies[path] = body
	}

	if n := f.failures[path]; n > 0 {
		f.failures[path] = n - 1
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error": {"code": 503, "message": "Service Unavailable"}}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")

	const prefix = "/v4/spreadsheets/test-id"
	switch {
	case path == prefix:
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sheets": []map[string]interface{}{
				{"properties": map[string]interface{}{"sheetId": 0, "title": "Summary"}},
				{"properties": map[string]interface{}{"sheetId": 123, "title": "TestSheet"}},
			},
		})

	case path == prefix+":batchUpdate":
		var req sheets.BatchUpdateSpreadsheetRequest
		json.Unmarshal(body, &req)
		for _, rq := range req.Requests {
			if rq.DeleteDimension == nil {
				continue
			}
			rg := rq.DeleteDimension.Range
			start, end := int(rg.StartIndex), int(rg.EndIndex)
			if rg.SheetId == 123 && end <= len(f.rows) {
				f.rows = append(f.rows[:start], f.rows[end:]...)
			}
		}
		w.Write([]byte(`{"spreadsheetId": "test-id"}`))

	case path == prefix+"/values:batchUpdate":
		var req sheets.BatchUpdateValuesRequest
		json.Unmarshal(body, &req)
		for _, vr := range req.Data {
			col, row := parseCell(strings.TrimPrefix(vr.Range, "TestSheet!"))
			for len(f.rows) < row {
				f.rows = append(f.rows, []interface{}{})
			}
			cells := f.rows[row-1]
			for len(cells) < col {
				cells = append(cells, "")
			}
			cells[col-1] = vr.Values[0][0]
			f.rows[row-1] = cells
		}
		w.Write([]byte(`{"spreadsheetId": "test-id"}`))

	case strings.HasPrefix(path, prefix+"/values/") && strings.HasSuffix(path, ":append"):
		var vr sheets.ValueRange
		json.Unmarshal(body, &vr)
		f.rows = append(f.rows, vr.Values...)
		w.Write([]byte(`{"spreadsheetId": "test-id"}`))

	case strings.HasPrefix(path, prefix+"/values/"):
		ref := strings.TrimPrefix(path, prefix+"/values/TestSheet!")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          "TestSheet!" + ref,
			"majorDimension": "ROWS",
			"values":         f.read(ref),
		})

	default:
		f.t.Errorf("Unexpected request to %s", path)
		w.WriteHeader(http.StatusNotFound)
	}
}

// read answers the three range shapes the backend requests: A:ZZ, 1:1 and X2:X
func (f *fakeSheets) read(ref string) [][]interface{} {
	switch {
	case ref == "A:ZZ":
		return f.rows
	case ref == "1:1":
		if len(f.rows) == 0 {
			return nil
		}
		return f.rows[:1]
	default:
		letters := strings.SplitN(ref, "2:", 2)[0]
		col, _ := parseCell(letters + "1")
		var out [][]interface{}
		for _, r := range f.rows[1:] {
			if col-1 < len(r) {
				out = append(out, []interface{}{r[col-1]})
			} else {
				out = append(out, []interface{}{})
			}
		}
		return out
	}
}

// parseCell converts "C12" to column 3, row 12
func parseCell(ref string) (int, int) {
	col := 0
	i := 0
	for ; i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z'; i++ {
		col = col*26 + int(ref[i]-'A'+1)
	}
	row, _ := strconv.Atoi(ref[i:])
	return col, row
}
