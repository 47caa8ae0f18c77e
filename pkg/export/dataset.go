package export

// Dataset defines tabular export content. Title and Summary only appear in
// formats that support free text.
type Dataset struct {
	Title   string
	Summary []string
	Headers []string
	Rows    []map[string]string
}

// Renderer turns a dataset into file bytes.
type Renderer interface {
	Render(data Dataset) ([]byte, error)
	ContentType() string
	Extension() string
}
