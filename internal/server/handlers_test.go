package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/texture-mcp/internal/texture"
)

var (
	gray        = color.NRGBA{128, 128, 128, 255}
	blue        = color.NRGBA{40, 60, 200, 255}
	red         = color.NRGBA{220, 30, 30, 255}
	transparent = color.NRGBA{}
)

// createTestTextureFile writes a PNG into a per-test temp dir and returns its
// path.
func createTestTextureFile(t *testing.T, name string, tex *texture.Texture) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := texture.Save(tex, path); err != nil {
		t.Fatalf("failed to save texture: %v", err)
	}
	return path
}

// createForegroundTexture returns a 4x4 texture of bg with a fg square at
// (1,1)-(2,2).
func createForegroundTexture(bg, fg color.NRGBA) *texture.Texture {
	return texture.Generate(4, 4, func(x, y int) color.NRGBA {
		if x >= 1 && x <= 2 && y >= 1 && y <= 2 {
			return fg
		}
		return bg
	})
}

// callTool sends a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// resultText extracts the JSON text payload of a successful tool response.
func resultText(t *testing.T, resp *MCPResponse) []byte {
	t.Helper()

	if resp.Error != nil {
		t.Fatalf("Unexpected error: %v", resp.Error)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content: got %v", result["content"])
	}
	if content[0]["type"] != "text" {
		t.Errorf("content type: got %v, want text", content[0]["type"])
	}
	return []byte(content[0]["text"].(string))
}

// decodeImageResult decodes a source tool result and its embedded PNG.
func decodeImageResult(t *testing.T, resp *MCPResponse) (texture.Result, *texture.Texture) {
	t.Helper()

	var res texture.Result
	if err := json.Unmarshal(resultText(t, resp), &res); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if res.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", res.MimeType)
	}
	data, err := base64.StdEncoding.DecodeString(res.ImageBase64)
	if err != nil {
		t.Fatalf("invalid base64: %v", err)
	}
	tex, err := texture.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("invalid PNG: %v", err)
	}
	return res, tex
}

func TestHandleToolsCall_TextureInfo(t *testing.T) {
	s := New()
	path := createTestTextureFile(t, "info.png", createForegroundTexture(gray, transparent))

	var info texture.Info
	if err := json.Unmarshal(resultText(t, callTool(t, s, "texture_info", map[string]interface{}{"path": path})), &info); err != nil {
		t.Fatalf("failed to decode info: %v", err)
	}
	if info.Width != 4 || info.Height != 4 {
		t.Errorf("size: got %dx%d, want 4x4", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if !info.Translucent {
		t.Error("Translucent should be true")
	}
}

func TestHandleToolsCall_SampleColor(t *testing.T) {
	s := New()
	path := createTestTextureFile(t, "sample.png", createForegroundTexture(gray, red))

	var c texture.ColorResult
	args := map[string]interface{}{"path": path, "x": 1, "y": 2}
	if err := json.Unmarshal(resultText(t, callTool(t, s, "texture_sample_color", args)), &c); err != nil {
		t.Fatalf("failed to decode color: %v", err)
	}
	if c.Hex != "#DC1E1E" {
		t.Errorf("Hex: got %s, want #DC1E1E", c.Hex)
	}

	resp := callTool(t, s, "texture_sample_color", map[string]interface{}{"path": path, "x": 4, "y": 0})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("out of bounds sample: got %+v, want code -32000", resp.Error)
	}
}

func TestHandleToolsCall_Palette(t *testing.T) {
	s := New()
	path := createTestTextureFile(t, "palette.png", texture.Solid(3, 3, gray))

	var res PaletteResult
	if err := json.Unmarshal(resultText(t, callTool(t, s, "texture_palette", map[string]interface{}{"path": path})), &res); err != nil {
		t.Fatalf("failed to decode palette: %v", err)
	}
	if res.NaturalSize != 1 {
		t.Errorf("NaturalSize: got %d, want 1", res.NaturalSize)
	}
	if len(res.Ramp) != 6 {
		t.Fatalf("ramp length: got %d, want 6", len(res.Ramp))
	}
	synthetic := 0
	for i, e := range res.Ramp {
		if e.Index != i {
			t.Errorf("ramp[%d].Index = %d", i, e.Index)
		}
		if i > 0 && e.Sample <= res.Ramp[i-1].Sample {
			t.Errorf("ramp samples not increasing at %d", i)
		}
		if e.Synthetic {
			synthetic++
		}
	}
	if synthetic != 5 {
		t.Errorf("synthetic entries: got %d, want 5", synthetic)
	}
	if len(res.Dominant) > 5 {
		t.Errorf("Dominant: got %d colors, want at most 5", len(res.Dominant))
	}

	resp := callTool(t, s, "texture_palette", map[string]interface{}{"path": path, "extend_palette_size": 65})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("oversized palette: got %+v, want code -32000", resp.Error)
	}
}

func TestHandleToolsCall_Mask(t *testing.T) {
	s := New()
	maskPath := createTestTextureFile(t, "mask.png", createForegroundTexture(transparent, gray))
	inputPath := createTestTextureFile(t, "input.png", texture.Solid(4, 4, blue))
	outPath := filepath.Join(t.TempDir(), "out", "masked.png")

	res, tex := decodeImageResult(t, callTool(t, s, "texture_mask", map[string]interface{}{
		"mask_path":   maskPath,
		"input_path":  inputPath,
		"output_path": outPath,
	}))

	if res.OutputPath != outPath {
		t.Errorf("OutputPath: got %s, want %s", res.OutputPath, outPath)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Errorf("output not written: %v", err)
	}
	if got := tex.At(0, 0); got.A != 0 {
		t.Errorf("masked-out pixel: got %v, want transparent", got)
	}
	if got := tex.At(1, 1); got != blue {
		t.Errorf("masked-in pixel: got %v, want %v", got, blue)
	}
}

func TestHandleToolsCall_ForegroundTransfer(t *testing.T) {
	s := New()
	bgPath := createTestTextureFile(t, "bg.png", texture.Solid(4, 4, gray))
	fullPath := createTestTextureFile(t, "full.png", createForegroundTexture(gray, red))
	newBgPath := createTestTextureFile(t, "new.png", texture.Solid(4, 4, blue))

	resp := callTool(t, s, "texture_foreground_transfer", map[string]interface{}{
		"background_path":     bgPath,
		"full_path":           fullPath,
		"new_background_path": newBgPath,
	})

	var res TransferResult
	if err := json.Unmarshal(resultText(t, resp), &res); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	if res.OverlayPixels != 4 {
		t.Errorf("OverlayPixels: got %d, want 4", res.OverlayPixels)
	}

	_, tex := decodeImageResult(t, resp)
	if got := tex.At(1, 1); got != red {
		t.Errorf("foreground pixel: got %v, want %v", got, red)
	}
	if got := tex.At(0, 0); got != blue {
		t.Errorf("background pixel: got %v, want %v", got, blue)
	}
}

func TestHandleToolsCall_ForegroundTransferInvalidOption(t *testing.T) {
	s := New()
	path := createTestTextureFile(t, "bg.png", texture.Solid(2, 2, gray))

	resp := callTool(t, s, "texture_foreground_transfer", map[string]interface{}{
		"background_path":     path,
		"full_path":           path,
		"new_background_path": path,
		"close_cutoff":        -1,
	})
	if resp.Error == nil || resp.Error.Code != -32000 {
		t.Errorf("negative close_cutoff: got %+v, want code -32000", resp.Error)
	}
}

func TestHandleToolsCall_PaletteSpread(t *testing.T) {
	s := New()
	bgPath := createTestTextureFile(t, "bg.png", texture.Solid(4, 4, gray))
	fgPath := createTestTextureFile(t, "fg.png", createForegroundTexture(transparent, red))

	_, tex := decodeImageResult(t, callTool(t, s, "texture_palette_spread", map[string]interface{}{
		"background_path": bgPath,
		"foreground_path": fgPath,
	}))

	if got := tex.At(1, 1); got != red {
		t.Errorf("foreground pixel: got %v, want %v", got, red)
	}
	// Right of the foreground is lit, left of it is shaded
	lit, shaded := tex.At(3, 1), tex.At(0, 1)
	if texture.Luminance(lit) <= texture.Luminance(shaded) {
		t.Errorf("lit %v should be lighter than shaded %v", lit, shaded)
	}
	if got := tex.At(3, 3); got != gray {
		t.Errorf("untouched corner: got %v, want %v", got, gray)
	}
}

func TestHandleToolsCall_Generate(t *testing.T) {
	s := New()
	dir := t.TempDir()
	if err := texture.Save(texture.Solid(2, 2, gray), filepath.Join(dir, "gray.png")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	outDir := filepath.Join(dir, "out")

	var res GenerateResult
	resp := callTool(t, s, "texture_generate", map[string]interface{}{
		"document": map[string]interface{}{
			"outputs": map[string]interface{}{
				"copy.png": map[string]interface{}{"type": "texture", "path": "gray.png"},
			},
		},
		"base_dir":   dir,
		"output_dir": outDir,
	})
	if err := json.Unmarshal(resultText(t, resp), &res); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
	want := filepath.Join(outDir, "copy.png")
	if len(res.Outputs) != 1 || res.Outputs[0] != want {
		t.Errorf("Outputs: got %v, want [%s]", res.Outputs, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("output not written: %v", err)
	}
}

func TestHandleToolsCall_GenerateErrors(t *testing.T) {
	s := New()
	dir := t.TempDir()

	tests := []struct {
		name string
		args map[string]interface{}
	}{
		{"missing output dir", map[string]interface{}{"document": map[string]interface{}{}}},
		{"missing document", map[string]interface{}{"output_dir": dir}},
		{"unknown kind", map[string]interface{}{
			"document": map[string]interface{}{
				"outputs": map[string]interface{}{"a.png": map[string]interface{}{"type": "blur"}},
			},
			"output_dir": dir,
		}},
		{"missing document file", map[string]interface{}{
			"document_path": filepath.Join(dir, "none.json"),
			"output_dir":    dir,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, "texture_generate", tt.args)
			if resp.Error == nil || resp.Error.Code != -32000 {
				t.Errorf("got %+v, want code -32000", resp.Error)
			}
		})
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := New()
	resp := callTool(t, s, "texture_info", map[string]interface{}{"path": "/nonexistent/path/texture.png"})

	if resp.Error == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New()
	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})

	if resp.Error == nil {
		t.Fatal("Expected error for invalid tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`{invalid json}`),
	}

	resp := s.handleRequest(req)

	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestExecuteTool_MissingPaths(t *testing.T) {
	s := New()

	for _, name := range []string{"texture_mask", "texture_foreground_transfer", "texture_palette_spread"} {
		t.Run(name, func(t *testing.T) {
			if _, err := s.executeTool(name, json.RawMessage(`{}`)); err == nil {
				t.Errorf("executeTool(%s) should fail without paths", name)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New()

	_, err := s.executeTool("unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New()

	_, err := s.executeTool("texture_info", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}
