// Package assets provides the CSS styles injected into Markdown documents
// before they are submitted for rendering.
//
// # Loader Architecture
//
//	StyleLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in styles compiled into the binary
//	    ├── FilesystemLoader  - {basePath}/{name}.css on disk
//	    └── Resolver          - custom directory first, built-ins as fallback
//
// A style is addressed by a bare name ("technical"), never by a path.
// Callers that accept either a name or a file path decide which one they
// got before reaching this package.
//
// # Security
//
// Names are validated so they cannot carry separators or dots.
// FilesystemLoader also resolves symlinks and checks the final path stays
// under basePath.
package assets
