package llm

import (
	"encoding/json"
	"testing"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "bare object",
			content: `{"key": "value"}`,
			want:    `{"key": "value"}`,
		},
		{
			name:    "markdown fence with language",
			content: "Here you go:\n```json\n{\"key\": \"value\"}\n```\nDone.",
			want:    `{"key": "value"}`,
		},
		{
			name:    "markdown fence without language",
			content: "```\n{\"key\": \"value\"}\n```",
			want:    `{"key": "value"}`,
		},
		{
			name:    "prose before and after",
			content: "Sure! The result is {\"key\": \"value\"} as requested.",
			want:    `{"key": "value"}`,
		},
		{
			name:    "nested objects",
			content: `{"outer": {"inner": [1, 2, 3]}}`,
			want:    `{"outer": {"inner": [1, 2, 3]}}`,
		},
		{
			name:    "braces inside strings",
			content: `{"text": "a { brace } in a string"}`,
			want:    `{"text": "a { brace } in a string"}`,
		},
		{
			name:    "no json present",
			content: "I cannot produce that.",
			want:    "",
		},
		{
			name:    "empty input",
			content: "",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.content)
			if got != tt.want {
				t.Errorf("ExtractJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExtractJSONCleansInvalidSyntax(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "trailing comma in object",
			content: `{"a": 1, "b": 2,}`,
		},
		{
			name:    "trailing comma in array",
			content: `{"items": [1, 2, 3,]}`,
		},
		{
			name: "line comments",
			content: `{
				"a": 1, // first value
				"b": 2
			}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSON(tt.content)
			if got == "" {
				t.Fatal("ExtractJSON() returned empty string")
			}
			var v map[string]any
			if err := json.Unmarshal([]byte(got), &v); err != nil {
				t.Errorf("cleaned output is not valid JSON: %v\n%s", err, got)
			}
		})
	}
}
