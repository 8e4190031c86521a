package export

// Download is a file offered to the user
type Download struct {
	FileName string
	MIMEType string
	Data     []byte
}

// Names and types of the two downloads
const (
	TextFileName    = "converted_output.txt"
	TextMIMEType    = "text/plain"
	ArchiveFileName = "selected_images.zip"
	ArchiveMIMEType = "application/zip"
)

// TextDownload wraps serialized text
func TextDownload(data []byte) *Download {
	return &Download{FileName: TextFileName, MIMEType: TextMIMEType, Data: data}
}

// ArchiveDownload wraps a built archive
func ArchiveDownload(data []byte) *Download {
	return &Download{FileName: ArchiveFileName, MIMEType: ArchiveMIMEType, Data: data}
}
