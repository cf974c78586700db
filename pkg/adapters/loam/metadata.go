package loam

// ProtocolMetadata is the frontmatter of a stored protocol. It duplicates a
// few header fields so the markdown files stay greppable; the authoritative
// copy of the document is the JSON block in the body.
type ProtocolMetadata struct {
	ID         string `json:"id" mapstructure:"id" yaml:"id"`
	Source     string `json:"source,omitempty" mapstructure:"source" yaml:"source,omitempty"`
	Number     string `json:"number,omitempty" mapstructure:"number" yaml:"number,omitempty"`
	Date       string `json:"date,omitempty" mapstructure:"date" yaml:"date,omitempty"`
	Parliament string `json:"parliament,omitempty" mapstructure:"parliament" yaml:"parliament,omitempty"`
}
