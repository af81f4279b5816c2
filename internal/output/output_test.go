package output

import (
	"bytes"
	"testing"
)

type greeting struct {
	Name string `json:"name" yaml:"name"`
}

func (g greeting) String() string { return "hello " + g.Name }

func TestWriter(t *testing.T) {
	tests := map[Format]string{
		FormatText: "hello sketch\n",
		FormatJSON: "{\n  \"name\": \"sketch\"\n}\n",
		FormatYAML: "name: sketch\n",
	}

	for format, want := range tests {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := NewWriter(&buf, format).Write(greeting{Name: "sketch"}); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if got := buf.String(); got != want {
				t.Errorf("Expected %q, got %q", want, got)
			}
		})
	}
}

func TestWriterTextWithoutStringer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf, FormatText).Write(struct{ N int }{3}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if buf.String() != "{N:3}\n" {
		t.Errorf("Unexpected output %q", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{
		"":     FormatText,
		"text": FormatText,
		"JSON": FormatJSON,
		"yaml": FormatYAML,
		"yml":  FormatYAML,
	}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}

	if _, err := ParseFormat("xml"); err == nil {
		t.Error("Expected error for unknown format")
	}
}
