package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	pdfexactor "github.com/FlowerFish/PDF-Exactor"
	"github.com/FlowerFish/PDF-Exactor/pkg/export"
)

func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	only := flag.String("select", "", "comma separated image indices to keep, default all")
	list := flag.Bool("list", false, "list the images instead of writing an archive")
	output := flag.String("o", export.ArchiveFileName, "output archive")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: extract_images [-config file] [-select 0,2,5] [-list] [-o output] <pdf_file>")
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
	n, err := s.ExtractImages(data)
	if err != nil {
		log.Fatalf("Failed to extract images: %+v", err)
	}
	fmt.Printf("Found %d images\n", n)

	if *list {
		records := s.Images()
		for i, p := range s.Previews() {
			r := records[i]
			fmt.Printf("  %-14s page %-3d %-8s %4dx%-4d %-6s %d bytes\n",
				p.Caption, r.Page, r.Name, r.Width, r.Height, p.Format, len(p.Data))
		}
		return
	}

	if *only != "" {
		s.SetAll(false)
		for _, field := range strings.Split(*only, ",") {
			i, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || i < 0 || i >= n {
				log.Fatalf("Invalid image index %q (have %d images)", field, n)
			}
			s.SetOne(i, true)
		}
	}

	dl, err := s.Archive()
	if err != nil {
		log.Fatalf("Failed to build archive: %v", err)
	}
	if err := os.WriteFile(*output, dl.Data, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *output, err)
	}
	fmt.Printf("Wrote %d of %d images to %s\n", s.SelectedCount(), n, *output)
}
