package assets

// AssetLoader defines the contract for loading invoice templates and styles.
type AssetLoader interface {
	// LoadStyle loads a CSS style by name (without .css extension).
	// Returns ErrStyleNotFound if the style doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadStyle(name string) (string, error)

	// LoadTemplate loads a .docx template by name (without extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTemplate(name string) ([]byte, error)
}

// Names of the built-in assets.
const (
	DefaultTemplateName = "invoice"
	DefaultStyleName    = "invoice"
)
