// Package assets provides the stylesheets and the HTML document template used
// to assemble a document before it is printed.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads from go:embed filesystem (built-in themes)
//	    ├── FilesystemLoader  - loads from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// The embedded set holds the base stylesheet, one stylesheet per theme
// (default, academic, business) and the document template.
//
// # Directory Structure
//
// A custom asset directory mirrors the embedded layout:
//
//	{basePath}/
//	├── styles/
//	│   └── {name}.css      # base.css or a theme
//	└── templates/
//	    └── {name}.html     # document.html
//
// # Security
//
// Asset names are validated to prevent path traversal. FilesystemLoader
// resolves symlinks and verifies paths stay within basePath.
package assets
