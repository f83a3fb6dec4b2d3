// Package dustdoc generates reference documentation from Dust source files.
// It classifies source lines, pairs doc comments with the declarations they
// describe, builds a document tree and renders it as Markdown, optionally
// converted into a standalone HTML page.
//
// This package contains domain types, interfaces and the pure parsing and
// rendering pipeline, following Ben Johnson's Standard Package Layout.
// Implementations live in subdirectories named after their primary
// dependency (e.g., goldmark/, goquery/, difflib/).
package dustdoc
