// Package scratches provides a web clipper that extracts the readable
// article from a page, cleans it into a markdown document and hands it to
// a note-taking app through its URL scheme.
//
// This package contains domain types, interfaces and the pure parts of the
// pipeline (settings, normalization, templating) following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, gemini/).
package scratches
