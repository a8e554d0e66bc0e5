package assets

// defaultLoader is the package-level embedded loader.
var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads a built-in CSS style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// LoadTemplate loads a built-in .docx template by name.
func LoadTemplate(name string) ([]byte, error) {
	return defaultLoader.LoadTemplate(name)
}
