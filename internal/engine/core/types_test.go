package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestRule_GetString(t *testing.T) {
	rule := &Rule{
		Check: map[string]interface{}{
			"encoding": "utf8",
		},
	}

	if got := rule.GetString("encoding"); got != "utf8" {
		t.Errorf("GetString(encoding) = %q, want %q", got, "utf8")
	}
	if got := rule.GetString("missing"); got != "" {
		t.Errorf("GetString(missing) = %q, want empty", got)
	}
}

func TestRule_GetInt(t *testing.T) {
	rule := &Rule{
		Check: map[string]interface{}{
			"max_params": 4,
			"max_lines":  30.0,
			"max_indent": int64(3),
			"name":       "x",
		},
	}

	tests := map[string]int{"max_params": 4, "max_lines": 30, "max_indent": 3, "name": 0, "missing": 0}
	for key, want := range tests {
		if got := rule.GetInt(key); got != want {
			t.Errorf("GetInt(%s) = %d, want %d", key, got, want)
		}
	}
}

func TestRule_GetBool(t *testing.T) {
	rule := &Rule{Check: map[string]interface{}{"strict": true}}

	if !rule.GetBool("strict") {
		t.Error("GetBool(strict) = false, want true")
	}
	if rule.GetBool("missing") {
		t.Error("GetBool(missing) = true, want false")
	}
}

func TestRule_GetStringSlice(t *testing.T) {
	rule := &Rule{
		Check: map[string]interface{}{
			"kinds":  []interface{}{"upper-case", 3, "lower-case"},
			"native": []string{"line-count"},
		},
	}

	got := rule.GetStringSlice("kinds")
	want := []string{"upper-case", "lower-case"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("GetStringSlice(kinds) = %v, want %v", got, want)
	}
	if got := rule.GetStringSlice("native"); len(got) != 1 || got[0] != "line-count" {
		t.Errorf("GetStringSlice(native) = %v", got)
	}
	if got := rule.GetStringSlice("missing"); got != nil {
		t.Errorf("GetStringSlice(missing) = %v, want nil", got)
	}
}

func TestRule_SeverityOr(t *testing.T) {
	if got := (&Rule{}).SeverityOr(SeverityWarning); got != SeverityWarning {
		t.Errorf("SeverityOr() = %q, want %q", got, SeverityWarning)
	}
	if got := (&Rule{Severity: SeverityError}).SeverityOr(SeverityWarning); got != SeverityError {
		t.Errorf("SeverityOr() = %q, want %q", got, SeverityError)
	}
}

func TestViolation_String(t *testing.T) {
	tests := []struct {
		name string
		v    Violation
		want string
	}{
		{
			name: "full location",
			v:    Violation{File: "src/Order.cs", Line: 10, Column: 5, Message: "Meaningless word!", RuleID: "naming"},
			want: "src/Order.cs:10:5: Meaningless word! [naming]",
		},
		{
			name: "line only",
			v:    Violation{File: "src/Order.cs", Line: 42, Message: "More than 24 line!", RuleID: "size"},
			want: "src/Order.cs:42: More than 24 line! [size]",
		},
		{
			name: "file only",
			v:    Violation{File: "Order.cs", Message: "failed to read", RuleID: "lexical"},
			want: "Order.cs: failed to read [lexical]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationResult_MarshalJSON(t *testing.T) {
	r := &ValidationResult{RuleID: "naming", Passed: true, Engine: "cleancode", Duration: 1500 * time.Millisecond}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !strings.Contains(string(data), `"duration":"1.5s"`) {
		t.Errorf("Marshal() = %s, want duration string", data)
	}
	if !strings.Contains(string(data), `"engine":"cleancode"`) {
		t.Errorf("Marshal() = %s, want engine", data)
	}
}

func TestRule_UnmarshalYAML(t *testing.T) {
	var rules []Rule
	src := `
- id: naming
  engine: cleancode
  check:
    max_params: 3
    kinds: [upper-case, lower-case]
- id: off
  engine: lexical
  enabled: false
`
	if err := yaml.Unmarshal([]byte(src), &rules); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if !rules[0].Enabled || rules[1].Enabled {
		t.Errorf("Enabled = %v, %v, want true, false", rules[0].Enabled, rules[1].Enabled)
	}
	if got := rules[0].GetInt("max_params"); got != 3 {
		t.Errorf("GetInt(max_params) = %d, want 3", got)
	}
	if got := rules[0].GetStringSlice("kinds"); len(got) != 2 {
		t.Errorf("GetStringSlice(kinds) = %v", got)
	}
}
