package server

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/cenkalti/dominantcolor"

	"github.com/ironsheep/texture-mcp/internal/graph"
	"github.com/ironsheep/texture-mcp/internal/mask"
	"github.com/ironsheep/texture-mcp/internal/palette"
	"github.com/ironsheep/texture-mcp/internal/shadow"
	"github.com/ironsheep/texture-mcp/internal/texture"
	"github.com/ironsheep/texture-mcp/internal/transfer"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "texture_info", "texture_mask").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the named tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	start := time.Now()
	result, err := s.executeTool(params.Name, params.Arguments)
	s.debugf("tool %s finished in %s (err=%v)", params.Name, time.Since(start), err)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Loads textures from cache as needed
//  4. Calls the appropriate texture source
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Inspection
	case "texture_info":
		return s.handleTextureInfo(args)
	case "texture_sample_color":
		return s.handleTextureSampleColor(args)
	case "texture_palette":
		return s.handleTexturePalette(args)

	// Sources
	case "texture_mask":
		return s.handleTextureMask(args)
	case "texture_foreground_transfer":
		return s.handleTextureForegroundTransfer(args)
	case "texture_palette_spread":
		return s.handleTexturePaletteSpread(args)
	case "texture_generate":
		return s.handleTextureGenerate(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Inspection Handlers ===

type textureInfoArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleTextureInfo(args json.RawMessage) (interface{}, error) {
	var a textureInfoArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return texture.LoadInfo(s.cache, a.Path)
}

type textureSampleColorArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleTextureSampleColor(args json.RawMessage) (interface{}, error) {
	var a textureSampleColorArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	t, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return texture.SampleColor(t, a.X, a.Y)
}

type texturePaletteArgs struct {
	Path              string `json:"path"`
	ExtendPaletteSize *int   `json:"extend_palette_size"`
	DominantCount     int    `json:"dominant_count"`
}

// PaletteEntry is one ramp entry of an extracted palette.
type PaletteEntry struct {
	Index     int                 `json:"index"`
	Sample    float64             `json:"sample"`
	Synthetic bool                `json:"synthetic"`
	Color     texture.ColorResult `json:"color"`
}

// DominantColor is a color and the share of pixels it represents.
type DominantColor struct {
	Hex    string  `json:"hex"`
	Weight float64 `json:"weight"`
}

// PaletteResult describes the palette extracted from a texture.
type PaletteResult struct {
	NaturalSize int             `json:"natural_size"`
	Ramp        []PaletteEntry  `json:"ramp"`
	Step        float64         `json:"step"`
	Dominant    []DominantColor `json:"dominant"`
}

func (s *Server) handleTexturePalette(args json.RawMessage) (interface{}, error) {
	var a texturePaletteArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	size := 6
	if a.ExtendPaletteSize != nil {
		size = *a.ExtendPaletteSize
	}
	if a.DominantCount == 0 {
		a.DominantCount = 5
	}
	t, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}

	p, err := palette.Extract(size, t)
	if err != nil {
		return nil, err
	}

	natural := make(map[[3]uint8]bool, p.NaturalLen())
	for _, c := range p.Colors()[:p.NaturalLen()] {
		natural[[3]uint8{c.R, c.G, c.B}] = true
	}
	result := &PaletteResult{
		NaturalSize: p.NaturalLen(),
		Step:        p.Step(),
	}
	for i, c := range p.Ramp() {
		result.Ramp = append(result.Ramp, PaletteEntry{
			Index:     i,
			Sample:    p.Sample(c),
			Synthetic: !natural[[3]uint8{c.R, c.G, c.B}],
			Color:     texture.DescribeColor(c),
		})
	}
	for _, c := range dominantcolor.FindWeight(t.Image(), a.DominantCount) {
		result.Dominant = append(result.Dominant, DominantColor{
			Hex:    texture.Hex(color.NRGBA{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B, A: 255}),
			Weight: c.Weight,
		})
	}
	return result, nil
}

// === Source Handlers ===

type textureMaskArgs struct {
	MaskPath   string `json:"mask_path"`
	InputPath  string `json:"input_path"`
	OutputPath string `json:"output_path"`
}

func (s *Server) handleTextureMask(args json.RawMessage) (interface{}, error) {
	var a textureMaskArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	ts, err := s.loadAll(a.MaskPath, a.InputPath)
	if err != nil {
		return nil, err
	}
	out, err := mask.Multiply(ts[0], ts[1])
	if err != nil {
		return nil, err
	}
	return texture.EncodeResult(out, a.OutputPath)
}

type textureForegroundTransferArgs struct {
	BackgroundPath    string   `json:"background_path"`
	FullPath          string   `json:"full_path"`
	NewBackgroundPath string   `json:"new_background_path"`
	TrimTrailing      *bool    `json:"trim_trailing"`
	ForceNeighbors    *bool    `json:"force_neighbors"`
	FillHoles         *bool    `json:"fill_holes"`
	ExtendPaletteSize *int     `json:"extend_palette_size"`
	CloseCutoff       *float64 `json:"close_cutoff"`
	OutputPath        string   `json:"output_path"`
}

func (a *textureForegroundTransferArgs) options() transfer.Options {
	opts := transfer.DefaultOptions()
	if a.TrimTrailing != nil {
		opts.TrimTrailing = *a.TrimTrailing
	}
	if a.ForceNeighbors != nil {
		opts.ForceNeighbors = *a.ForceNeighbors
	}
	if a.FillHoles != nil {
		opts.FillHoles = *a.FillHoles
	}
	if a.ExtendPaletteSize != nil {
		opts.ExtendPaletteSize = *a.ExtendPaletteSize
	}
	if a.CloseCutoff != nil {
		opts.CloseCutoff = *a.CloseCutoff
	}
	return opts
}

// TransferResult is a foreground transfer output plus a summary of the diff
// that produced it.
type TransferResult struct {
	texture.Result
	OverlayPixels  int                   `json:"overlay_pixels"`
	MappingEntries int                   `json:"mapping_entries"`
	Shifts         []transfer.ShiftCount `json:"shifts"`
}

func (s *Server) handleTextureForegroundTransfer(args json.RawMessage) (interface{}, error) {
	var a textureForegroundTransferArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := a.options()
	ts, err := s.loadAll(a.BackgroundPath, a.FullPath, a.NewBackgroundPath)
	if err != nil {
		return nil, err
	}

	d, err := transfer.BuildDiff(ts[0], ts[1], opts.DiffOptions)
	if err != nil {
		return nil, err
	}
	out, err := transfer.Apply(d, ts[2], opts.ApplyOptions)
	if err != nil {
		return nil, err
	}
	res, err := texture.EncodeResult(out, a.OutputPath)
	if err != nil {
		return nil, err
	}
	return &TransferResult{
		Result:         *res,
		OverlayPixels:  d.Overlay.Len(),
		MappingEntries: d.Mapping.Len(),
		Shifts:         d.Mapping.Shifts(),
	}, nil
}

type texturePaletteSpreadArgs struct {
	BackgroundPath    string   `json:"background_path"`
	ForegroundPath    string   `json:"foreground_path"`
	ExtendPaletteSize *int     `json:"extend_palette_size"`
	HighlightStrength *float64 `json:"highlight_strength"`
	ShadowStrength    *float64 `json:"shadow_strength"`
	Uniformity        *float64 `json:"uniformity"`
	OutputPath        string   `json:"output_path"`
}

func (s *Server) handleTexturePaletteSpread(args json.RawMessage) (interface{}, error) {
	var a texturePaletteSpreadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	opts := shadow.DefaultOptions()
	if a.ExtendPaletteSize != nil {
		opts.ExtendPaletteSize = *a.ExtendPaletteSize
	}
	if a.HighlightStrength != nil {
		opts.HighlightStrength = *a.HighlightStrength
	}
	if a.ShadowStrength != nil {
		opts.ShadowStrength = *a.ShadowStrength
	}
	if a.Uniformity != nil {
		opts.Uniformity = *a.Uniformity
	}

	ts, err := s.loadAll(a.BackgroundPath, a.ForegroundPath)
	if err != nil {
		return nil, err
	}
	out, err := shadow.Spread(ts[0], ts[1], opts)
	if err != nil {
		return nil, err
	}
	return texture.EncodeResult(out, a.OutputPath)
}

type textureGenerateArgs struct {
	DocumentPath string          `json:"document_path"`
	Document     json.RawMessage `json:"document"`
	BaseDir      string          `json:"base_dir"`
	OutputDir    string          `json:"output_dir"`
}

// GenerateResult lists the files written by texture_generate.
type GenerateResult struct {
	Outputs []string `json:"outputs"`
}

func (s *Server) handleTextureGenerate(args json.RawMessage) (interface{}, error) {
	var a textureGenerateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.OutputDir == "" {
		return nil, fmt.Errorf("output_dir is required")
	}

	var g *graph.Graph
	var err error
	switch {
	case a.DocumentPath != "":
		g, err = graph.ParseFile(a.DocumentPath)
	case len(a.Document) > 0:
		if a.BaseDir == "" {
			a.BaseDir, err = os.Getwd()
			if err != nil {
				return nil, err
			}
		}
		g, err = graph.Parse(a.Document, filepath.Clean(a.BaseDir))
	default:
		return nil, fmt.Errorf("one of document_path or document is required")
	}
	if err != nil {
		return nil, err
	}
	s.debugf("generate: %d nodes, %d outputs", len(g.Nodes), len(g.Outputs))

	paths, err := graph.WriteOutputs(g, s.cache, a.OutputDir)
	if err != nil {
		return nil, err
	}
	return &GenerateResult{Outputs: paths}, nil
}

// loadAll loads every path through the cache, in order.
func (s *Server) loadAll(paths ...string) ([]*texture.Texture, error) {
	out := make([]*texture.Texture, len(paths))
	for i, p := range paths {
		if p == "" {
			return nil, fmt.Errorf("missing texture path (argument %d)", i+1)
		}
		t, err := s.cache.Load(p)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}
