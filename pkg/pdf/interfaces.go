package pdf

// Document represents a parsed PDF document
type Document interface {
	// Backend reports which parser produced the document
	Backend() Backend

	// GetPages returns all pages in the document
	GetPages() []Page

	// GetPage returns a specific page by index (0-based)
	GetPage(index int) (Page, error)

	// PageCount returns the total number of pages
	PageCount() int

	// Close releases resources associated with the document
	Close() error
}

// Page represents a single page in a PDF document
type Page interface {
	// GetPageNumber returns the page number (1-based)
	GetPageNumber() int

	// GetWidth returns the page width
	GetWidth() float64

	// GetHeight returns the page height
	GetHeight() float64

	// GetBBox returns the page bounding box
	GetBBox() BoundingBox

	// GetObjects returns all objects on the page
	GetObjects() Objects

	// ExtractText extracts text from the page
	ExtractText(opts ...TextExtractionOption) string

	// ExtractWords extracts individual words from the page
	ExtractWords(opts ...WordExtractionOption) []Word

	// ExtractTables extracts tables from the page
	ExtractTables(opts ...TableExtractionOption) []Table

	// WithinBBox filters objects within a bounding box
	WithinBBox(bbox BoundingBox) Objects
}

// Object represents a PDF object (char, line, rect, curve)
type Object interface {
	// GetType returns the object type
	GetType() ObjectType

	// GetBBox returns the object's bounding box
	GetBBox() BoundingBox
}
