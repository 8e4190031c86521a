package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	pdfexactor "github.com/FlowerFish/PDF-Exactor"
	"github.com/FlowerFish/PDF-Exactor/pkg/config"
	"github.com/FlowerFish/PDF-Exactor/pkg/export"
)

// process_pdf runs text conversion and image extraction side by side. Each
// path gets its own session, so no document handle is shared.
func main() {
	configPath := flag.String("config", "", "YAML configuration file")
	markers := flag.Bool("markers", false, "prefix every page with a --- Page n --- line")
	outDir := flag.String("out", ".", "directory for the text file and the archive")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Println("Usage: process_pdf [-config file] [-markers] [-out dir] <pdf_file>")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	logger := cfg.Log.NewLogger(os.Stderr).WithField("file", filepath.Base(flag.Arg(0)))

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read PDF: %v", err)
	}

	g, _ := errgroup.WithContext(context.Background())

	g.Go(func() error {
		s := pdfexactor.NewSession(cfg, logger.WithField("op", "text"))
		s.SetPageMarkers(*markers)
		dl, err := s.ConvertText(data)
		if err != nil {
			return err
		}
		return write(logger, *outDir, dl)
	})

	g.Go(func() error {
		s := pdfexactor.NewSession(cfg, logger.WithField("op", "images"))
		n, err := s.ExtractImages(data)
		if err != nil {
			return err
		}
		if n == 0 {
			logger.Info("no images found, archive skipped")
			return nil
		}
		dl, err := s.Archive()
		if err != nil {
			return err
		}
		return write(logger, *outDir, dl)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Failed to process PDF: %+v", err)
	}
}

func write(logger logrus.FieldLogger, dir string, dl *export.Download) error {
	path := filepath.Join(dir, dl.FileName)
	if err := os.WriteFile(path, dl.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	logger.WithFields(logrus.Fields{
		"path":  path,
		"bytes": len(dl.Data),
		"mime":  dl.MIMEType,
	}).Info("wrote download")
	return nil
}
