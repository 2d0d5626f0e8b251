package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiagnostics_AddBySeverity(t *testing.T) {
	var d Diagnostics
	d.AddError(CodeNotFound, "callable not found", "svc.Missing", "")
	d.AddWarning(CodeUnrepresentable, "net/http.Handler", "svc.Server", "handler")
	d.AddInfo(CodeContextParam, "context parameter dropped", "svc.Server", "ctx")

	assert.Len(t, d.Errors, 1)
	assert.Len(t, d.Warnings, 1)
	assert.Len(t, d.Infos, 1)
	assert.True(t, d.HasErrors())
	assert.True(t, d.HasWarnings())
	assert.False(t, d.IsValid())
}

func TestDiagnostics_ByCode(t *testing.T) {
	var d Diagnostics
	d.AddWarning(CodeUnrepresentable, "a", "s", "x")
	d.AddWarning(CodeUnknownDefault, "b", "s", "y")
	d.AddError(CodeUnrepresentable, "c", "s", "z")

	got := d.ByCode(CodeUnrepresentable)
	require.Len(t, got, 2)
	assert.Equal(t, "z", got[0].Field)
	assert.Equal(t, "x", got[1].Field)
}

func TestDiagnostics_Merge(t *testing.T) {
	var a, b Diagnostics
	a.AddWarning(CodeRender, "a", "s", "f")
	b.AddError(CodeCycle, "b", "s", "")
	a.Merge(b)

	assert.Len(t, a.Warnings, 1)
	assert.Len(t, a.Errors, 1)
}

func TestDiagnostics_Error(t *testing.T) {
	var d Diagnostics
	require.NoError(t, d.Error())

	d.AddError(CodeNotFound, "callable not found", "svc.NewServr", "")
	d.Errors[0].Suggestions = []string{"NewServer"}

	err := d.Error()
	require.Error(t, err)
	assert.Equal(t,
		"[svc.NewServr]: [not_found] callable not found (did you mean NewServer?)",
		err.Error())
}

func TestDiagnostic_String(t *testing.T) {
	d := Diagnostic{Code: CodeUnrepresentable, Schema: "svc.Server", Field: "handler", Message: "net/http.Handler"}
	assert.Equal(t, "[svc.Server] handler: [unrepresentable] net/http.Handler", d.String())

	assert.Equal(t, "plain", Diagnostic{Message: "plain"}.String())
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "unknown", Severity(42).String())
}
