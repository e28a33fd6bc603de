// Package mcp exposes the plan engine over the Model Context Protocol so
// assistants can compute zones, preview periodization, and generate full
// plans. Everything is served from the engine and the template catalog; no
// database is involved.
package mcp

import (
	"log/slog"

	"github.com/claude/stride/internal/library"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(lib *library.Catalog, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Stride", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Stride running-plan server. Compute pace zones from a reference race, preview phase allocations and volume schedules, browse the workout template catalog, and generate complete multi-week training plans."),
	)

	h := &handlers{lib: lib, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolComputePaceZones, Handler: h.computePaceZones},
		server.ServerTool{Tool: toolPreviewPhaseAllocation, Handler: h.previewPhaseAllocation},
		server.ServerTool{Tool: toolPreviewVolumeSchedule, Handler: h.previewVolumeSchedule},
		server.ServerTool{Tool: toolGeneratePlan, Handler: h.generatePlan},
		server.ServerTool{Tool: toolListTemplates, Handler: h.listTemplates},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resTemplateCatalog, Handler: h.templateCatalog},
		server.ServerResource{Resource: resDistanceReference, Handler: h.distanceReference},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	lib *library.Catalog
	log *slog.Logger
}

// --- Resource definitions ---

var resTemplateCatalog = mcp.NewResource(
	"stride://template_catalog",
	"Workout Template Catalog",
	mcp.WithResourceDescription("Every workout template: type, phase, effort, structure, and coaching notes"),
	mcp.WithMIMEType("application/json"),
)

var resDistanceReference = mcp.NewResource(
	"stride://distance_reference",
	"Race Distance Reference",
	mcp.WithResourceDescription("Supported race distances with nominal length and post-race recovery period"),
	mcp.WithMIMEType("application/json"),
)
