package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

var outputPathProperty = pathProperty("Optional path to also write the result PNG to")

var extendPaletteSizeProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Grow the extracted palette to at least this many colors (0-64). Default 6",
	"default":     6,
	"minimum":     0,
	"maximum":     64,
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Inspection
		{
			Name:        "texture_info",
			Description: "Get the dimensions, format, file size, and whether a texture has translucent pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the texture file"),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "texture_sample_color",
			Description: "Get the color of a single pixel as hex, RGBA, and HSL.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty("Absolute path to the texture file"),
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},
		{
			Name:        "texture_palette",
			Description: "Extract the palette of a texture, extended to the requested size and ordered dark to light, plus its most dominant colors.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":                pathProperty("Absolute path to the texture file"),
					"extend_palette_size": extendPaletteSizeProperty,
					"dominant_count": map[string]interface{}{
						"type":        "integer",
						"description": "Number of dominant colors to report. Default 5",
						"default":     5,
					},
				},
				"required": []string{"path"},
			},
		},

		// Sources
		{
			Name:        "texture_mask",
			Description: "Multiply the alpha of an input texture by the alpha of a mask texture.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"mask_path":   pathProperty("Absolute path to the mask texture"),
					"input_path":  pathProperty("Absolute path to the input texture"),
					"output_path": outputPathProperty,
				},
				"required": []string{"mask_path", "input_path"},
			},
		},
		{
			Name:        "texture_foreground_transfer",
			Description: "Learn what a foreground did to a background (full = background + foreground) and reproduce it on a new background, shifting shaded pixels along the new background's palette.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"background_path":     pathProperty("Absolute path to the original background"),
					"full_path":           pathProperty("Absolute path to the background with the foreground applied"),
					"new_background_path": pathProperty("Absolute path to the background to transfer onto"),
					"trim_trailing": map[string]interface{}{
						"type":        "boolean",
						"description": "Drop faint overlay pieces and mapping entries not attached to the foreground. Default true",
						"default":     true,
					},
					"force_neighbors": map[string]interface{}{
						"type":        "boolean",
						"description": "Pin unchanged pixels next to the foreground so they keep their color. Default true",
						"default":     true,
					},
					"fill_holes": map[string]interface{}{
						"type":        "boolean",
						"description": "Shift colors the original background never had using the new background's palette. Default true",
						"default":     true,
					},
					"extend_palette_size": extendPaletteSizeProperty,
					"close_cutoff": map[string]interface{}{
						"type":        "number",
						"description": "How far, in palette steps, a changed color may be from the palette and still count as shading. Default 2.0",
						"default":     2.0,
					},
					"output_path": outputPathProperty,
				},
				"required": []string{"background_path", "full_path", "new_background_path"},
			},
		},
		{
			Name:        "texture_palette_spread",
			Description: "Shade a background around a foreground by moving its colors along its own palette, then draw the foreground on top.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"background_path":     pathProperty("Absolute path to the background texture"),
					"foreground_path":     pathProperty("Absolute path to the foreground texture"),
					"extend_palette_size": extendPaletteSizeProperty,
					"highlight_strength": map[string]interface{}{
						"type":        "number",
						"description": "Sample offset added on the lit side of the foreground. Default 72",
						"default":     72,
					},
					"shadow_strength": map[string]interface{}{
						"type":        "number",
						"description": "Sample offset subtracted on the shaded side of the foreground. Default 72",
						"default":     72,
					},
					"uniformity": map[string]interface{}{
						"type":        "number",
						"description": "0 keeps each pixel's own shade, 1 shades from the average of the background. Default 1.0",
						"default":     1.0,
					},
					"output_path": outputPathProperty,
				},
				"required": []string{"background_path", "foreground_path"},
			},
		},
		{
			Name:        "texture_generate",
			Description: "Evaluate a JSON source document and write every declared output as a PNG under output_dir. Source types: texture, foreground_transfer, mask, mask/add, mask/invert, mask/cutoff, overlay, palette_spread.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"document_path": pathProperty("Absolute path to a source document; relative texture paths resolve against its directory"),
					"document": map[string]interface{}{
						"type":        "object",
						"description": "Inline source document, used when document_path is not given",
					},
					"base_dir":   pathProperty("Directory relative texture paths in an inline document resolve against. Default: working directory"),
					"output_dir": pathProperty("Directory outputs are written under"),
				},
				"required": []string{"output_dir"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
