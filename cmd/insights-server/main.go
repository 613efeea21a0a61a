package main

import (
	"flag"
	"log"

	imageinsights "github.com/vscarpenter/image-insights"
	"github.com/vscarpenter/image-insights/internal/config"
	"github.com/vscarpenter/image-insights/internal/server"
	"github.com/vscarpenter/image-insights/internal/store"
	"github.com/vscarpenter/image-insights/internal/utils"
	"github.com/vscarpenter/image-insights/pkg/captioner"
	"github.com/vscarpenter/image-insights/pkg/client"
	"github.com/vscarpenter/image-insights/pkg/insights"
	"github.com/vscarpenter/image-insights/pkg/llamacpp"
	"github.com/vscarpenter/image-insights/pkg/ollama"
)

func main() {
	var configPath string
	var addr string

	flag.StringVar(&configPath, "config", "", "path to config file (default: "+config.GetConfigPath()+")")
	flag.StringVar(&addr, "addr", "", "listen address, overrides config")
	flag.Parse()

	cfg := loadConfig(configPath)
	if addr != "" {
		cfg.Server.Address = addr
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	engine := imageinsights.NewWithOptions(imageinsights.Options{
		EnabledTypes: toInsightTypes(cfg.Engine.EnabledInsightTypes),
	})

	st, err := store.Open(cfg.Server.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open report store: %v", err)
	}

	cap, err := buildCaptioner(cfg)
	if err != nil {
		log.Fatalf("failed to set up captioner: %v", err)
	}
	if cap == nil {
		log.Printf("no captioning backend configured, using local signals only")
	} else {
		log.Printf("captioning via %s (%s)", cfg.Captioner.Backend, cfg.Captioner.Model)
	}

	srv, err := server.New(cfg, engine, st, cap)
	if err != nil {
		log.Fatalf("failed to create server: %v", err)
	}

	if err := srv.Run(); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}

func loadConfig(path string) *config.Config {
	if path == "" {
		path = config.GetConfigPath()
		if !utils.FileExists(path) {
			return config.Default()
		}
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		log.Fatalf("failed to load config %s: %v", path, err)
	}
	return cfg
}

func buildCaptioner(cfg *config.Config) (*captioner.Captioner, error) {
	var visionClient client.VisionClient
	var err error

	switch cfg.Captioner.Backend {
	case "", "none":
		return nil, nil
	case "ollama":
		url := cfg.Captioner.URL
		if url == "" {
			url = "http://localhost:11434"
		}
		visionClient, err = ollama.NewClient(url)
	case "llamacpp":
		url := cfg.Captioner.URL
		if url == "" {
			url = "http://localhost:8080"
		}
		visionClient, err = llamacpp.NewClient(url)
	}
	if err != nil {
		return nil, err
	}
	return captioner.New(visionClient), nil
}

func toInsightTypes(names []string) []insights.Type {
	if len(names) == 0 {
		return nil
	}
	out := make([]insights.Type, 0, len(names))
	for _, name := range names {
		out = append(out, insights.Type(name))
	}
	return out
}
