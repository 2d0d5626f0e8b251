// Package diagnostic provides the structured diagnostics stream produced while
// generating configuration structs.
//
// Every unrepresentable field, skipped parameter and failed callable becomes a
// Diagnostic carrying the schema and field it concerns plus a reason. The
// orchestrator decides whether warnings fail the run (strict mode).
package diagnostic
