package graph

import "testing"

func TestSetTextOnTextReplaces(t *testing.T) {
	p := Parameter{ID: "name", Value: TextValue("old")}
	p.SetText("new")
	if p.Value.Kind != KindText || p.Value.Text != "new" {
		t.Fatalf("expected text %q, got %+v", "new", p.Value)
	}
}

func TestSetTextOnNumberParses(t *testing.T) {
	p := Parameter{ID: "n", Value: NumberValue(1)}
	p.SetText("42")
	if p.Value.Kind != KindNumber {
		t.Fatalf("expected number kind, got %q", p.Value.Kind)
	}
	if p.Value.Number != 42 {
		t.Fatalf("expected 42, got %v", p.Value.Number)
	}
	if got := p.Value.String(); got != "42" {
		t.Fatalf("expected rendered %q, got %q", "42", got)
	}
}

func TestSetTextOnNumberDegradesToText(t *testing.T) {
	p := Parameter{ID: "n", Value: NumberValue(1)}
	p.SetText("abc")
	if p.Value.Kind != KindText || p.Value.Text != "abc" {
		t.Fatalf("expected degradation to text %q, got %+v", "abc", p.Value)
	}
	// Once degraded, the parameter stays textual.
	p.SetText("7")
	if p.Value.Kind != KindText || p.Value.Text != "7" {
		t.Fatalf("expected text %q after degradation, got %+v", "7", p.Value)
	}
}

func TestSetTextOnBooleanIsStrict(t *testing.T) {
	p := Parameter{ID: "b", Value: BoolValue(false)}
	p.SetText("true")
	if p.Value.Kind != KindBoolean || !p.Value.Bool {
		t.Fatalf("expected boolean true, got %+v", p.Value)
	}
	p.SetText("false")
	if p.Value.Kind != KindBoolean || p.Value.Bool {
		t.Fatalf("expected boolean false, got %+v", p.Value)
	}
	p.SetText("True")
	if p.Value.Kind != KindText || p.Value.Text != "True" {
		t.Fatalf("expected degradation for non-lowercase token, got %+v", p.Value)
	}
}

func TestSetTextOnSelect(t *testing.T) {
	p := Parameter{ID: "s", Value: SelectValue("a", []string{"a", "b"})}
	p.SetText("b")
	if p.Value.Kind != KindSelect || p.Value.Selected != "b" {
		t.Fatalf("expected selection %q, got %+v", "b", p.Value)
	}
	p.SetText("c")
	if p.Value.Kind != KindText || p.Value.Text != "c" {
		t.Fatalf("expected degradation for unknown option, got %+v", p.Value)
	}
}

func TestValueCloneIsDeep(t *testing.T) {
	v := SelectValue("a", []string{"a", "b"})
	c := v.Clone()
	c.Options[0] = "x"
	if v.Options[0] != "a" {
		t.Fatalf("clone shares options slice")
	}
}
