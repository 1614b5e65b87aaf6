package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/texture-mcp/internal/graph"
	"github.com/ironsheep/texture-mcp/internal/server"
	"github.com/ironsheep/texture-mcp/internal/texture"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func usage() {
	fmt.Println("texture-mcp - palette-based texture compositing")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  texture-mcp [serve]                          Run the MCP server on stdin/stdout")
	fmt.Println("  texture-mcp generate <document.json> <dir>   Write every output of a source document")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version, -v    Print version information")
	fmt.Println("  --help, -h       Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Println("  TEXTURE_MCP_LOG_LEVEL=debug    Enable debug logging")
	fmt.Println()
	fmt.Println("In serve mode the server communicates via MCP protocol over stdin/stdout.")
	fmt.Println("Configure it in your MCP client (e.g., Claude Desktop).")
}

func main() {
	// Configure logging to stderr (stdout is for MCP protocol)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	debug := os.Getenv("TEXTURE_MCP_LOG_LEVEL") == "debug"

	cmd := "serve"
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "--version", "-v", "version":
		fmt.Printf("texture-mcp %s\n", Version)
		fmt.Printf("  Build time: %s\n", BuildTime)
		fmt.Printf("  Git commit: %s\n", GitCommit)
	case "--help", "-h", "help":
		usage()
	case "generate":
		if len(os.Args) != 4 {
			usage()
			os.Exit(2)
		}
		if err := generate(os.Args[2], os.Args[3], debug); err != nil {
			log.Fatalf("Generate error: %v", err)
		}
	case "serve":
		if debug {
			log.Printf("Texture MCP Server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
		}
		srv := server.New()
		if err := srv.Run(); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		usage()
		os.Exit(2)
	}
}

// generate evaluates the document at docPath and writes its outputs under
// outDir.
func generate(docPath, outDir string, debug bool) error {
	g, err := graph.ParseFile(docPath)
	if err != nil {
		return err
	}
	if debug {
		log.Printf("%s: %d nodes, %d outputs", docPath, len(g.Nodes), len(g.Outputs))
	}

	paths, err := graph.WriteOutputs(g, texture.NewTextureCache(), outDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Println(p)
	}
	return nil
}
