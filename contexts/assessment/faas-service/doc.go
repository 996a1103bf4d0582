// Package faasservice implements the FAAS record module inside the
// assessment context.
//
// The module owns the Field Appraisal and Assessment Sheet lifecycle
// (draft -> submitted -> approved), the append-only history ledger with
// its administrator-only erasure paths, and the printable workbook
// export. Business rules stay in domain/application layers behind
// explicit ports; HTTP, memory, postgres, and excel concerns live in
// adapters.
package faasservice
