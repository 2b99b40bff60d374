package cmd

import (
	"github.com/felixgeelhaar/flowcanvas/internal/canvas"
	"github.com/felixgeelhaar/flowcanvas/internal/config"
	"github.com/felixgeelhaar/flowcanvas/internal/log"
	"github.com/felixgeelhaar/flowcanvas/internal/plan"
)

// loadedPlan is a plan file opened on a headless canvas
type loadedPlan struct {
	Path     string
	Document *plan.Document
	Canvas   *canvas.Canvas
	Report   canvas.LoadReport
}

// openPlan reads path and loads it onto a new canvas built from cfg
func openPlan(path string, cfg *config.Config, logger *log.Logger) (*loadedPlan, error) {
	doc, err := plan.Load(path)
	if err != nil {
		return nil, err
	}

	opts := cfg.CanvasOptions()
	opts.Logger = logger
	c := canvas.New(opts)
	report := c.Load(doc.ToLoadSpec())

	return &loadedPlan{
		Path:     path,
		Document: doc,
		Canvas:   c,
		Report:   report,
	}, nil
}

// document captures the canvas as a plan, keeping the original name and
// description
func (p *loadedPlan) document() *plan.Document {
	doc := plan.FromCanvas(p.Canvas)
	doc.Name = p.Document.Name
	doc.Description = p.Document.Description
	return doc
}
