package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/stride/internal/library"
	"github.com/claude/stride/internal/models"
	"github.com/claude/stride/internal/periodization"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) templateCatalog(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	templates := []library.Template{}
	if h.lib != nil {
		templates = h.lib.All()
	}

	data, err := json.Marshal(templates)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

type distanceInfo struct {
	Distance     models.DistanceCategory `json:"distance"`
	Meters       float64                 `json:"meters"`
	RecoveryDays int                     `json:"recovery_days"`
}

func (h *handlers) distanceReference(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	var out []distanceInfo
	for _, d := range []models.DistanceCategory{
		models.Distance5K, models.Distance10K, models.DistanceHalf, models.DistanceMarathon,
	} {
		out = append(out, distanceInfo{
			Distance:     d,
			Meters:       d.Meters(),
			RecoveryDays: periodization.RecoveryDays(d),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
