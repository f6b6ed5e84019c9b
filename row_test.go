package sheetfdw_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ideamans/go-sheetfdw"
)

func TestRow_GetAsString(t *testing.T) {
	tests := []struct {
		name         string
		row          sheetfdw.Row
		col          string
		defaultValue string
		want         string
	}{
		{"string value", sheetfdw.Row{"name": "John Doe"}, "name", "default", "John Doe"},
		{"int64 value", sheetfdw.Row{"age": int64(30)}, "age", "default", "30"},
		{"float64 value", sheetfdw.Row{"score": 99.5}, "score", "default", "99.5"},
		{"date value", sheetfdw.Row{"d": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)}, "d", "default", "2024-03-01"},
		{"null value", sheetfdw.Row{"name": nil}, "name", "default", "default"},
		{"missing column", sheetfdw.Row{}, "name", "default", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.GetAsString(tt.col, tt.defaultValue); got != tt.want {
				t.Errorf("GetAsString() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRow_GetAsInt64(t *testing.T) {
	tests := []struct {
		name         string
		row          sheetfdw.Row
		defaultValue int64
		want         int64
	}{
		{"int64 value", sheetfdw.Row{"v": int64(42)}, -1, 42},
		{"int value", sheetfdw.Row{"v": 7}, -1, 7},
		{"float64 value", sheetfdw.Row{"v": 3.0}, -1, 3},
		{"string value", sheetfdw.Row{"v": "12"}, -1, 12},
		{"invalid string", sheetfdw.Row{"v": "abc"}, -1, -1},
		{"null value", sheetfdw.Row{"v": nil}, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.GetAsInt64("v", tt.defaultValue); got != tt.want {
				t.Errorf("GetAsInt64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRow_GetAsFloat64(t *testing.T) {
	tests := []struct {
		name         string
		row          sheetfdw.Row
		defaultValue float64
		want         float64
	}{
		{"float64 value", sheetfdw.Row{"v": 1.5}, -1, 1.5},
		{"int64 value", sheetfdw.Row{"v": int64(2)}, -1, 2},
		{"string value", sheetfdw.Row{"v": "2.25"}, -1, 2.25},
		{"invalid string", sheetfdw.Row{"v": "x"}, -1, -1},
		{"missing", sheetfdw.Row{}, -1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.row.GetAsFloat64("v", tt.defaultValue); got != tt.want {
				t.Errorf("GetAsFloat64() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRow_GetAsTimeAndUUID(t *testing.T) {
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	row := sheetfdw.Row{
		"date":     day,
		"text":     "2024-01-15",
		"bad":      "soon",
		"id":       id,
		"id_text":  id.String(),
		"id_wrong": "not-a-uuid",
	}

	if got := row.GetAsTime("date", time.Time{}); !got.Equal(day) {
		t.Errorf("GetAsTime(date) = %v, want %v", got, day)
	}
	if got := row.GetAsTime("text", time.Time{}); !got.Equal(day) {
		t.Errorf("GetAsTime(text) = %v, want %v", got, day)
	}
	if got := row.GetAsTime("bad", time.Time{}); !got.IsZero() {
		t.Errorf("GetAsTime(bad) = %v, want zero", got)
	}
	if got := row.GetAsUUID("id", uuid.Nil); got != id {
		t.Errorf("GetAsUUID(id) = %v, want %v", got, id)
	}
	if got := row.GetAsUUID("id_text", uuid.Nil); got != id {
		t.Errorf("GetAsUUID(id_text) = %v, want %v", got, id)
	}
	if got := row.GetAsUUID("id_wrong", uuid.Nil); got != uuid.Nil {
		t.Errorf("GetAsUUID(id_wrong) = %v, want nil uuid", got)
	}
}

func TestRow_CloneAndProject(t *testing.T) {
	row := sheetfdw.Row{"a": 1, "b": "x"}

	clone := row.Clone()
	clone["a"] = 2
	if row["a"] != 1 {
		t.Error("Clone() should not share storage")
	}
	if sheetfdw.Row(nil).Clone() != nil {
		t.Error("Clone() of nil row should be nil")
	}

	projected := row.Project([]string{"b", "c"})
	if len(projected) != 2 {
		t.Fatalf("Project() len = %d, want 2", len(projected))
	}
	if projected["b"] != "x" {
		t.Errorf("Project() b = %v", projected["b"])
	}
	if v, ok := projected["c"]; !ok || v != nil {
		t.Errorf("Project() c = %v, %v; want nil, true", v, ok)
	}
}

func TestParseHostValue(t *testing.T) {
	tests := []struct {
		name    string
		typ     sheetfdw.ColumnType
		input   string
		want    interface{}
		wantErr bool
	}{
		{"empty is null", sheetfdw.TypeString, "", nil, false},
		{"NULL literal", sheetfdw.TypeInteger, "NULL", nil, false},
		{"string", sheetfdw.TypeString, "hello", "hello", false},
		{"integer", sheetfdw.TypeInteger, "42", int64(42), false},
		{"bad integer", sheetfdw.TypeInteger, "4.2", nil, true},
		{"float", sheetfdw.TypeFloat, "4.25", 4.25, false},
		{"date", sheetfdw.TypeDate, "2024-02-29", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"datetime drops clock", sheetfdw.TypeDate, "2024-02-29 13:14:15", time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), false},
		{"bad date", sheetfdw.TypeDate, "tomorrow", nil, true},
		{"uuid", sheetfdw.TypeUUID, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8"), false},
		{"invalid type", sheetfdw.TypeInvalid, "x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := sheetfdw.ParseHostValue(tt.typ, tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseHostValue() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got != tt.want {
				t.Errorf("ParseHostValue() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
