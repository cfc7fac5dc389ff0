package models

// Kind names a Result variant.
type Kind string

const (
	KindStandard Kind = "standard"
	KindImage    Kind = "image"
)

// Result is the outcome of a successful resolution. It is implemented only by
// StandardInfo and ImageInfo; a nil Result means absent (failed or not yet
// resolved). Callers branch on the concrete type.
type Result interface {
	Kind() Kind
	isResult()
}

// StandardInfo is the metadata extracted from an HTML document.
// Any field may be empty.
type StandardInfo struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Image       string `json:"image,omitempty" yaml:"image,omitempty"`
	Icon        string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Language    string `json:"language,omitempty" yaml:"language,omitempty"` // ISO-639-1, only when detection is enabled
}

func (StandardInfo) Kind() Kind { return KindStandard }
func (StandardInfo) isResult()  {}

// ImageInfo is returned when the fetched resource is itself an image.
type ImageInfo struct {
	Image string `json:"image" yaml:"image"`
}

func (ImageInfo) Kind() Kind { return KindImage }
func (ImageInfo) isResult()  {}
