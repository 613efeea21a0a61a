package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	imageinsights "github.com/vscarpenter/image-insights"
	"github.com/vscarpenter/image-insights/internal/utils"
	"github.com/vscarpenter/image-insights/pkg/captioner"
	"github.com/vscarpenter/image-insights/pkg/client"
	"github.com/vscarpenter/image-insights/pkg/insights"
	"github.com/vscarpenter/image-insights/pkg/llamacpp"
	"github.com/vscarpenter/image-insights/pkg/ollama"
	"github.com/vscarpenter/image-insights/pkg/processing"
)

func main() {
	var in, outDir, model, url, ext, typesFlag string
	var backend string
	var quality int
	var sendFmt string
	var sendSize int
	var sendQ int
	var writeJSON bool
	var applyCrop bool
	var debug bool

	flag.StringVar(&in, "in", "", "input image path or URL (jpg/png/webp)")
	flag.StringVar(&outDir, "out", "out", "output directory")
	flag.StringVar(&backend, "backend", "none", "captioning backend: none, ollama, or llamacpp")
	flag.StringVar(&url, "url", "", "captioner server URL (defaults: ollama=http://localhost:11434, llamacpp=http://localhost:8080)")
	flag.StringVar(&model, "model", "openbmb/minicpm-v4.5", "vision model name")

	flag.StringVar(&sendFmt, "sendfmt", "jpg", "format sent to the vision model: jpg|png")
	flag.IntVar(&sendSize, "sendsize", 1536, "max long side sent to the vision model (px), 0=original")
	flag.IntVar(&sendQ, "sendq", 85, "JPEG quality for image sent to the vision model (1-100)")

	flag.StringVar(&typesFlag, "types", "", "comma-separated insight types to keep (default: all)")
	flag.BoolVar(&writeJSON, "json", false, "write the full report as JSON to the output directory")
	flag.BoolVar(&applyCrop, "crop", false, "apply the best cropping suggestion and save the result")
	flag.BoolVar(&debug, "debug", false, "write an overlay image showing cropping suggestions")
	flag.StringVar(&ext, "ext", "jpg", "output format for saved images: jpg|png|webp")
	flag.IntVar(&quality, "quality", 90, "JPEG/WebP output quality (1-100)")

	flag.Parse()
	if in == "" {
		log.Fatalf("usage: %s -in input.jpg|URL [-backend none|ollama|llamacpp] [-url server_url] [-out outdir] [-json] [-crop] [-debug]", filepath.Base(os.Args[0]))
	}
	if err := utils.EnsureDir(outDir); err != nil {
		log.Fatal(err)
	}

	engine := imageinsights.NewWithOptions(imageinsights.Options{
		EnabledTypes: parseTypes(typesFlag),
	})
	processor := processing.NewProcessor()

	img, err := processor.LoadImageSmart(in)
	if err != nil {
		log.Fatal(err)
	}

	result := engine.BuildResult(img)

	if backend != "none" {
		var visionClient client.VisionClient

		switch backend {
		case "ollama":
			if url == "" {
				url = "http://localhost:11434"
			}
			visionClient, err = ollama.NewClient(url)
			if err != nil {
				log.Fatalf("Failed to create Ollama client: %v", err)
			}
		case "llamacpp":
			if url == "" {
				url = "http://localhost:8080"
			}
			visionClient, err = llamacpp.NewClient(url)
			if err != nil {
				log.Fatalf("Failed to create llama.cpp client: %v", err)
			}
		default:
			log.Fatalf("Unknown backend: %s (use 'none', 'ollama' or 'llamacpp')", backend)
		}

		imgB64, err := processor.PrepareImageForModel(img, sendFmt, sendSize, sendQ)
		if err != nil {
			log.Fatal(err)
		}

		desc, err := captioner.New(visionClient).Describe(context.Background(), model, imgB64)
		if err != nil {
			log.Printf("captioning failed, continuing with local signals: %v", err)
		} else {
			captioner.Apply(&result, desc)
		}
	}

	report := engine.Analyze(result)

	log.Printf("purpose=%s quality=%s megapixels=%.1f", report.Purpose, result.Quality, result.QualityMetrics.Megapixels)
	fmt.Println(report.Narrative)
	fmt.Println()
	for i, ins := range report.Insights {
		action := ""
		if ins.SuggestedAction != insights.ActionNone {
			action = fmt.Sprintf(" -> %s", ins.SuggestedAction)
		}
		fmt.Printf("%2d. [%s] %s (%.2f)%s\n     %s\n", i+1, ins.Priority, ins.Title, ins.Confidence, action, ins.Description)
	}

	if writeJSON {
		js, _ := json.MarshalIndent(report, "", "  ")
		jsonPath := filepath.Join(outDir, "report.json")
		if err := os.WriteFile(jsonPath, js, 0o644); err != nil {
			log.Printf("failed to write %s: %v", jsonPath, err)
		} else {
			log.Printf("wrote %s", jsonPath)
		}
	}

	if applyCrop {
		if result.Saliency == nil || len(result.Saliency.CroppingSuggestions) == 0 {
			log.Printf("no cropping suggestions for this image")
		} else {
			cropped, err := processor.ApplyCropSuggestion(img, result.Saliency.CroppingSuggestions[0], 0, 0)
			if err != nil {
				log.Printf("crop failed: %v", err)
			} else {
				cropPath := utils.GenerateOutputFilename(in, outDir, "_crop", strings.ToLower(ext))
				if err := processor.SaveImage(cropped, cropPath, ext, quality, false); err != nil {
					log.Printf("save %s failed: %v", cropPath, err)
				} else {
					log.Printf("wrote %s", cropPath)
				}
			}
		}
	}

	if debug {
		overlay := processor.CreateSuggestionOverlay(img, result.Saliency)
		dbgPath := utils.GenerateOutputFilename(in, outDir, "_debug", strings.ToLower(ext))
		if err := processor.SaveImage(overlay, dbgPath, ext, quality, false); err != nil {
			log.Printf("debug save %s failed: %v", dbgPath, err)
		} else {
			log.Printf("wrote %s", dbgPath)
		}
	}
}

func parseTypes(raw string) []insights.Type {
	if raw == "" {
		return nil
	}
	var out []insights.Type
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, insights.Type(part))
		}
	}
	return out
}
