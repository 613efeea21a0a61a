// Package server exposes the analysis pipeline over a small HTTP API:
// upload an image, get back the narrative and ranked insights, browse
// report history.
package server

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	imageinsights "github.com/vscarpenter/image-insights"
	"github.com/vscarpenter/image-insights/internal/config"
	"github.com/vscarpenter/image-insights/internal/store"
	"github.com/vscarpenter/image-insights/internal/utils"
	"github.com/vscarpenter/image-insights/pkg/captioner"
	"github.com/vscarpenter/image-insights/pkg/processing"
)

// Server wires the engine, report store, and optional captioner behind
// HTTP handlers
type Server struct {
	cfg       *config.Config
	engine    *imageinsights.Engine
	store     *store.Store
	processor *processing.Processor
	captioner *captioner.Captioner
}

// New creates a Server. The captioner may be nil when no vision-model
// backend is configured.
func New(cfg *config.Config, engine *imageinsights.Engine, st *store.Store, cap *captioner.Captioner) (*Server, error) {
	if err := utils.EnsureDir(cfg.Server.UploadDir); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Server{
		cfg:       cfg,
		engine:    engine,
		store:     st,
		processor: processing.NewProcessor(),
		captioner: cap,
	}, nil
}

// Router builds the gin router with all API routes registered
func (s *Server) Router() *gin.Engine {
	r := gin.Default()

	api := r.Group("/api")
	{
		api.POST("/analyze", s.analyze)
		api.GET("/history", s.history)
		api.GET("/analyses/:id", s.getAnalysis)
		api.DELETE("/analyses/:id", s.deleteAnalysis)
	}

	return r
}

// Run starts the HTTP server on the configured address
func (s *Server) Run() error {
	log.Printf("listening on %s", s.cfg.Server.Address)
	return s.Router().Run(s.cfg.Server.Address)
}

func (s *Server) analyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image file provided"})
		return
	}
	defer file.Close()

	if !utils.IsImageFile(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file format"})
		return
	}

	reportID := uuid.New().String()
	filename := reportID + filepath.Ext(header.Filename)
	imagePath := filepath.Join(s.cfg.Server.UploadDir, filename)

	out, err := os.Create(imagePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}
	written, copyErr := io.Copy(out, file)
	out.Close()
	if copyErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save image"})
		return
	}
	log.Printf("received %s (%s)", header.Filename, utils.FormatFileSize(written))

	img, err := s.processor.LoadImage(imagePath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Could not decode image"})
		return
	}

	result := s.engine.BuildResult(img)

	if s.captioner != nil {
		imgB64, err := s.processor.PrepareImageForModel(img, s.cfg.Captioner.SendFormat, s.cfg.Captioner.SendMaxDim, s.cfg.Captioner.SendQuality)
		if err != nil {
			log.Printf("captioner payload failed: %v", err)
		} else if desc, err := s.captioner.Describe(c.Request.Context(), s.cfg.Captioner.Model, imgB64); err != nil {
			log.Printf("captioning failed: %v", err)
		} else {
			captioner.Apply(&result, desc)
		}
	}

	report := s.engine.Analyze(result)

	rec := &store.Record{
		ID:           reportID,
		ImagePath:    imagePath,
		OriginalName: header.Filename,
		Purpose:      string(report.Purpose),
		Narrative:    report.Narrative,
		Insights:     report.Insights,
		Megapixels:   result.QualityMetrics.Megapixels,
		Quality:      string(result.Quality),
	}
	if err := s.store.Save(rec); err != nil {
		log.Printf("failed to persist report: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save report"})
		return
	}

	c.JSON(http.StatusOK, rec)
}

func (s *Server) history(c *gin.Context) {
	records, err := s.store.List(50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records, "count": len(records)})
}

func (s *Server) getAnalysis(c *gin.Context) {
	rec, err := s.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) deleteAnalysis(c *gin.Context) {
	if err := s.store.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete analysis"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": c.Param("id")})
}
