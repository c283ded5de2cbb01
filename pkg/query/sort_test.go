package query_test

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/JaimeStill/content-lab/pkg/query"
)

func TestParseSortFields(t *testing.T) {
	tests := []struct {
		input string
		want  []query.SortField
	}{
		{"", nil},
		{"   ", nil},
		{"title", []query.SortField{{Field: "title"}}},
		{"-created_at", []query.SortField{{Field: "created_at", Descending: true}}},
		{"status, -title", []query.SortField{{Field: "status"}, {Field: "title", Descending: true}}},
		{"a,,-,b", []query.SortField{{Field: "a"}, {Field: "b"}}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := query.ParseSortFields(tt.input)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseSortFields(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortFields_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    query.SortFields
		wantErr bool
	}{
		{"string form", `"title,-status"`, query.SortFields{{Field: "title"}, {Field: "status", Descending: true}}, false},
		{"array form", `[{"field":"title","descending":true}]`, query.SortFields{{Field: "title", Descending: true}}, false},
		{"invalid", `42`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got query.SortFields
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Unmarshal() = %v, want %v", got, tt.want)
			}
		})
	}
}
