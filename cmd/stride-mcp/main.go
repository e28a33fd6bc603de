package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/stride/internal/library"
	stridemcp "github.com/claude/stride/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	catalogPath := flag.String("catalog", "", "alternative workout template catalog (defaults to the embedded one)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("stride-mcp", Version)
		return
	}

	// stdout carries the protocol stream; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	lib, err := loadCatalog(*catalogPath)
	if err != nil {
		log.Error("failed to load template catalog", "error", err)
		os.Exit(1)
	}

	s := stridemcp.New(lib, Version, log)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}

func loadCatalog(path string) (*library.Catalog, error) {
	if path == "" {
		return library.Load()
	}
	return library.LoadFile(path)
}
