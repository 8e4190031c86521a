package main

import (
	"fmt"
	"log"
	"os"
	"time"

	pdfexactor "github.com/FlowerFish/PDF-Exactor"
	"github.com/FlowerFish/PDF-Exactor/pkg/extractors"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: benchmark <pdf-file>")
		os.Exit(1)
	}

	pdfPath := os.Args[1]
	data, err := os.ReadFile(pdfPath)
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	fmt.Printf("=== PDF-Exactor Benchmark ===\n")
	fmt.Printf("File: %s (%d bytes)\n", pdfPath, len(data))

	// Per backend opening and text extraction
	for _, backend := range []pdfexactor.Backend{pdfexactor.BackendLedongthuc, pdfexactor.BackendDslipak, pdfexactor.BackendPDFCPU} {
		start := time.Now()
		doc, err := pdfexactor.OpenBytes(data, backend)
		if err != nil {
			fmt.Printf("\n[%s] failed to open: %v\n", backend, err)
			continue
		}
		openTime := time.Since(start)

		var totalTextLen, totalTables, totalObjects int
		start = time.Now()
		for _, page := range doc.GetPages() {
			totalTextLen += len(page.ExtractText())
		}
		textTime := time.Since(start)

		start = time.Now()
		for _, page := range doc.GetPages() {
			totalTables += len(page.ExtractTables())
			objects := page.GetObjects()
			totalObjects += len(objects.Chars) + len(objects.Lines) + len(objects.Rects)
		}
		tableTime := time.Since(start)

		fmt.Printf("\n[%s]\n", backend)
		fmt.Printf("Pages: %d\n", doc.PageCount())
		fmt.Printf("Open time: %v\n", openTime)
		fmt.Printf("Text extraction time: %v (%d chars)\n", textTime, totalTextLen)
		fmt.Printf("Table extraction time: %v (%d tables, %d objects)\n", tableTime, totalTables, totalObjects)
		doc.Close()
	}

	// Full pipeline as a session runs it
	s := pdfexactor.NewSession(pdfexactor.DefaultConfig(), nil)

	start := time.Now()
	dl, err := s.ConvertText(data)
	if err != nil {
		log.Fatalf("Failed to convert text: %v", err)
	}
	convertTime := time.Since(start)

	start = time.Now()
	n, err := s.ExtractImages(data)
	if err != nil {
		log.Fatalf("Failed to extract images: %v", err)
	}
	imageTime := time.Since(start)

	var archiveTime time.Duration
	if n > 0 {
		start = time.Now()
		if _, err := s.Archive(); err != nil {
			log.Fatalf("Failed to build archive: %v", err)
		}
		archiveTime = time.Since(start)
	}

	fmt.Printf("\n=== Summary ===\n")
	fmt.Printf("Text conversion: %v (%d bytes)\n", convertTime, len(dl.Data))
	fmt.Printf("Image extraction: %v (%d images, %d previews)\n", imageTime, n, len(extractors.Previews(s.Images())))
	fmt.Printf("Archive: %v\n", archiveTime)
	fmt.Printf("Total: %v\n", convertTime+imageTime+archiveTime)
}
