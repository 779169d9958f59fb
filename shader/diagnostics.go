package shader

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/wgsl"
)

// Diagnostics is compiler output produced on warnings or errors.
//
// A nil *Diagnostics means the compiler had nothing to say. Diagnostics are
// read-only; the harness logs them and drops them.
type Diagnostics struct {
	text string
}

// String returns the diagnostic text. It is safe to call on nil.
func (d *Diagnostics) String() string {
	if d == nil {
		return ""
	}
	return d.text
}

// Bytes returns a copy of the diagnostic text.
func (d *Diagnostics) Bytes() []byte {
	if d == nil {
		return nil
	}
	return []byte(d.text)
}

// Len returns the size of the diagnostic text in bytes.
func (d *Diagnostics) Len() int {
	if d == nil {
		return 0
	}
	return len(d.text)
}

// diagnosticsFromError renders a compiler error, preferring naga's
// source-context formatting when the error carries spans.
func diagnosticsFromError(name string, err error) *Diagnostics {
	if err == nil {
		return nil
	}

	var body string
	var list *wgsl.SourceErrors
	var single *wgsl.SourceError
	switch {
	case errors.As(err, &list) && list != nil && list.HasErrors():
		body = list.FormatAll()
	case errors.As(err, &single):
		body = single.FormatWithContext()
	default:
		body = err.Error()
	}

	var sb strings.Builder
	sb.WriteString(name)
	sb.WriteString(": error: ")
	sb.WriteString(strings.TrimRight(body, "\n"))
	sb.WriteByte('\n')
	return &Diagnostics{text: sb.String()}
}

// diagnosticsFromWarnings renders lowering warnings as
// "<path>:<line>:<col>: warning: <msg>" lines.
func diagnosticsFromWarnings(name string, warnings []wgsl.Warning) *Diagnostics {
	if len(warnings) == 0 {
		return nil
	}
	var sb strings.Builder
	for _, w := range warnings {
		if w.Span.Start.Line > 0 {
			fmt.Fprintf(&sb, "%s:%d:%d: warning: %s\n", name, w.Span.Start.Line, w.Span.Start.Column, w.Message)
		} else {
			fmt.Fprintf(&sb, "%s: warning: %s\n", name, w.Message)
		}
	}
	return &Diagnostics{text: sb.String()}
}

// diagnosticsFromValidation renders IR validation errors, one per line.
func diagnosticsFromValidation(name string, errs []ir.ValidationError) *Diagnostics {
	if len(errs) == 0 {
		return nil
	}
	var sb strings.Builder
	for i := range errs {
		sb.WriteString(name)
		sb.WriteString(": error: ")
		sb.WriteString(errs[i].Error())
		sb.WriteByte('\n')
	}
	return &Diagnostics{text: sb.String()}
}
