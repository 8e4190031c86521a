package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	pdfexactor "github.com/FlowerFish/PDF-Exactor"
	"github.com/FlowerFish/PDF-Exactor/pkg/export"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	markers := flag.Bool("markers", false, "prefix every page with a --- Page n --- line")
	output := flag.String("o", export.TextFileName, "output file, - for stdout")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: convert_text [-config file] [-markers] [-o output] <pdf_file>")
		os.Exit(1)
	}

	cfg := pdfexactor.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = pdfexactor.LoadConfig(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	logger := cfg.Log.NewLogger(os.Stderr)

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	s := pdfexactor.NewSession(cfg, logger)
	s.SetPageMarkers(*markers)
	dl, err := s.ConvertText(data)
	if err != nil {
		log.Fatalf("Failed to convert PDF: %+v", err)
	}

	if *output == "-" {
		os.Stdout.Write(dl.Data)
		return
	}
	if err := os.WriteFile(*output, dl.Data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	fmt.Printf("Wrote %d bytes to %s (%s)\n", len(dl.Data), *output, dl.MIMEType)
}
