package assets

// Asset names.
const (
	BaseStyleName        = "base"
	DefaultThemeName     = "default"
	DocumentTemplateName = "document"
)

// Themes lists the built-in theme names.
var Themes = []string{"default", "academic", "business"}

// IsTheme reports whether name is a built-in theme.
func IsTheme(name string) bool {
	for _, t := range Themes {
		if t == name {
			return true
		}
	}
	return false
}
