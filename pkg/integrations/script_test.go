package integrations

import (
	"errors"
	"testing"
)

func TestScriptJSON(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		marker string
		want   string
		err    error
	}{
		{
			name:   "array",
			page:   `<html><head><script>var x = 1;</script><script>var _data = [{"a":"]"},{"b":2}]; init();</script></head></html>`,
			marker: "var _data =",
			want:   `[{"a":"]"},{"b":2}]`,
		},
		{
			name:   "object with escaped quote",
			page:   `<body><script>window.initialState = {"s":"a\"}b","n":{"m":[1]}};</script></body>`,
			marker: "window.initialState =",
			want:   `{"s":"a\"}b","n":{"m":[1]}}`,
		},
		{
			name:   "marker absent",
			page:   `<script>var other = [];</script>`,
			marker: "var _data =",
			err:    ErrNoScriptData,
		},
		{
			name:   "unbalanced",
			page:   `<script>var _data = [{"a":1};</script>`,
			marker: "var _data =",
			err:    ErrNoScriptData,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScriptJSON(tt.page, tt.marker)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("ScriptJSON() error = %v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ScriptJSON() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("ScriptJSON() = %s, want %s", got, tt.want)
			}
		})
	}
}
