// Package server implements the MCP (Model Context Protocol) server for
// palette-based texture compositing.
//
// This package provides a JSON-RPC 2.0 server that exposes the texture
// sources through the MCP protocol, so an MCP client can inspect palettes,
// run a single compositing step, or generate every output of a source
// document.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Inspection:
//   - texture_info: Dimensions, format, and translucency of a texture file
//   - texture_sample_color: Color at a pixel
//   - texture_palette: Extracted palette ramp and dominant colors
//
// Sources:
//   - texture_mask: Multiply alpha by a mask
//   - texture_foreground_transfer: Move a foreground onto a new background
//   - texture_palette_spread: Shade a background around a foreground
//   - texture_generate: Evaluate a source document and write its outputs
//
// Source tools return the result as a base64-encoded PNG and, when
// output_path is given, also write it to disk.
//
// # Texture Caching
//
// Textures are cached by path and reused across tool calls for the lifetime
// of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
package server
