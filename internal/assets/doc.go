// Package assets provides the invoice template and stylesheet.
//
// # Loader Architecture
//
// The package implements a layered loading system:
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in invoice)
//	    ├── FilesystemLoader  - loads from custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// EmbeddedLoader provides the built-in invoice template, stored as its
// unpacked WordprocessingML parts and zipped into a .docx on load, and
// the stylesheet used when rendering through the browser.
//
// FilesystemLoader lets users override assets from a directory, with path
// traversal protection and symlink resolution.
//
// # Directory Structure
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # stylesheet for HTML rendering
//	└── templates/
//	    └── {name}.docx     # invoice template
//
// # Security
//
// Asset names are validated to prevent path traversal attacks.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
