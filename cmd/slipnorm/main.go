// Command slipnorm normalizes a directory of payment slips from the
// command line. It reads .txt OCR dumps directly and sends image files
// through the OCR service when an API key is configured, then writes the
// normalized records to JSON, CSV, or XLSX.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"slipnorm/constants"
	"slipnorm/internal/config"
	"slipnorm/internal/export"
	"slipnorm/internal/normalizer"
	"slipnorm/internal/ocr"
	"slipnorm/internal/repository"
)

func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		dir     = flag.String("dir", "", "directory of slip files to process (required)")
		out     = flag.String("out", "", "output file path (defaults to slips.xlsx next to --dir)")
		format  = flag.String("format", "", "output format: json, csv or xlsx (defaults from --out extension)")
		bank    = flag.String("bank", "", "bank hint applied to every slip (SCB, BBL, Krungsri, ...)")
		workers = flag.Int("workers", 0, "normalization workers, 0 means one per CPU")
	)
	flag.Parse()

	if *dir == "" {
		printError("Error: --dir is required\n")
		os.Exit(1)
	}
	if *out == "" {
		*out = filepath.Join(filepath.Dir(*dir), "slips.xlsx")
	}
	if *format == "" {
		*format = strings.TrimPrefix(filepath.Ext(*out), ".")
	}
	switch *format {
	case "json", "csv", "xlsx":
	default:
		printError("Error: unknown format %q, use json, csv or xlsx\n", *format)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx := context.Background()
	cfg := config.LoadSecrets(config.Config{})

	var ocrClient *ocr.Client
	if cfg.OCR.APIKey != "" {
		ocrClient = ocr.NewClient(ocr.Config{
			Endpoint: "https://api.opentyphoon.ai/v1/ocr",
			APIKey:   cfg.OCR.APIKey,
		}, logger)
		logger.Info("ocr client initialized")
	} else {
		logger.Warn("OPENTYPHOON_API_KEY not set, image files will be skipped")
	}

	inputs, err := collectInputs(ctx, *dir, *bank, ocrClient, logger)
	if err != nil {
		logger.Error("failed to read slip directory", "dir", *dir, "error", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		printError("Error: no slip files found in %s\n", *dir)
		os.Exit(1)
	}

	norm := normalizer.New(logger)
	results := norm.NormalizeBatch(ctx, inputs, *workers)

	db, err := repository.Open(":memory:", logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slips := repository.NewSlipRepository(db, logger)

	processed, failures := 0, 0
	for _, res := range results {
		if res.Err != nil {
			logger.Error("normalize failed", "file", res.FileName, "error", res.Err)
			failures++
			continue
		}
		if _, err := slips.Save(ctx, res.FileName, inputs[res.Index].RawText, res.Record); err != nil {
			logger.Error("save failed", "file", res.FileName, "error", err)
			failures++
			continue
		}
		processed++
	}

	if err := writeOutput(ctx, *format, *out, slips, logger); err != nil {
		logger.Error("failed to write output", "out", *out, "error", err)
		os.Exit(1)
	}

	logger.Info("batch complete", "processed", processed, "failures", failures, "output", *out)
	if failures > 0 {
		os.Exit(1)
	}
}

// collectInputs walks dir non-recursively. Text files are read as OCR
// dumps; image files go through the OCR service when available.
func collectInputs(ctx context.Context, dir, bank string, ocrClient *ocr.Client, logger *slog.Logger) ([]normalizer.BatchInput, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var inputs []normalizer.BatchInput
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		path := filepath.Join(dir, name)
		switch {
		case strings.EqualFold(filepath.Ext(name), ".txt"):
			data, err := os.ReadFile(path)
			if err != nil {
				logger.Error("read failed", "file", name, "error", err)
				continue
			}
			inputs = append(inputs, normalizer.BatchInput{RawText: string(data), BankHint: bank, FileName: name})
		case constants.IsAllowedImage(name):
			if ocrClient == nil {
				logger.Warn("skipping image, no ocr client", "file", name)
				continue
			}
			f, err := os.Open(path)
			if err != nil {
				logger.Error("open failed", "file", name, "error", err)
				continue
			}
			text, err := ocrClient.ExtractText(ctx, name, f)
			f.Close()
			if err != nil {
				logger.Error("ocr failed", "file", name, "error", err)
				continue
			}
			inputs = append(inputs, normalizer.BatchInput{RawText: text, BankHint: bank, FileName: name})
		}
	}
	return inputs, nil
}

func writeOutput(ctx context.Context, format, out string, slips repository.SlipRepository, logger *slog.Logger) error {
	switch format {
	case "json":
		stored, err := slips.List(ctx, nil, nil)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(stored, "", "  ")
		if err != nil {
			return err
		}
		return os.WriteFile(out, data, 0o644)
	case "csv":
		data, err := export.NewService(slips, logger).ExportSlipsCSV(ctx, nil, nil)
		if err != nil {
			return err
		}
		return os.WriteFile(out, data, 0o644)
	default:
		data, err := export.NewService(slips, logger).ExportSlipsXLSX(ctx, nil, nil)
		if err != nil {
			return err
		}
		return os.WriteFile(out, data, 0o644)
	}
}
