package graph

import (
	"fmt"
	"path/filepath"

	"github.com/ironsheep/texture-mcp/internal/layer"
	"github.com/ironsheep/texture-mcp/internal/mask"
	"github.com/ironsheep/texture-mcp/internal/shadow"
	"github.com/ironsheep/texture-mcp/internal/texture"
	"github.com/ironsheep/texture-mcp/internal/transfer"
)

// Loader supplies the textures of KindTexture nodes.
// *texture.TextureCache satisfies it.
type Loader interface {
	Load(path string) (*texture.Texture, error)
}

// Evaluate computes every output of g and returns them keyed by output name.
//
// Only nodes that some output depends on are evaluated, each exactly once,
// so a source shared by several outputs is computed a single time.
func Evaluate(g *Graph, loader Loader) (map[string]*texture.Texture, error) {
	needed := make([]bool, len(g.Nodes))
	for _, out := range g.Outputs {
		needed[out.Node] = true
	}
	for i := len(g.Nodes) - 1; i >= 0; i-- {
		if !needed[i] {
			continue
		}
		for _, in := range g.Nodes[i].Inputs {
			needed[in] = true
		}
	}

	results := make([]*texture.Texture, len(g.Nodes))
	for i, node := range g.Nodes {
		if !needed[i] {
			continue
		}
		t, err := evalNode(node, results, loader)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", describe(node, i), err)
		}
		results[i] = t
	}

	out := make(map[string]*texture.Texture, len(g.Outputs))
	for _, o := range g.Outputs {
		out[o.Name] = results[o.Node]
	}
	return out, nil
}

func evalNode(node Node, results []*texture.Texture, loader Loader) (*texture.Texture, error) {
	in := func(i int) *texture.Texture { return results[node.Inputs[i]] }
	all := func() []*texture.Texture {
		ts := make([]*texture.Texture, len(node.Inputs))
		for i := range ts {
			ts[i] = in(i)
		}
		return ts
	}

	switch node.Kind {
	case KindTexture:
		return loader.Load(node.Path)
	case KindForegroundTransfer:
		return transfer.ForegroundTransfer(in(0), in(1), in(2), node.Transfer)
	case KindMask:
		return mask.Multiply(in(0), in(1))
	case KindPaletteSpread:
		return shadow.Spread(in(0), in(1), node.Spread)
	case KindOverlay:
		return layer.Overlay(all()...)
	case KindInvert:
		return mask.Invert(in(0)), nil
	case KindCutoff:
		return mask.Cutoff(in(0), node.Cutoff)
	case KindAdd:
		return mask.Add(all()...)
	}
	return nil, fmt.Errorf("%w: unknown kind %v", ErrInvalidSource, node.Kind)
}

func describe(node Node, i int) string {
	if node.Name != "" {
		return fmt.Sprintf("source %q (%s)", node.Name, node.Kind)
	}
	return fmt.Sprintf("node %d (%s)", i, node.Kind)
}

// WriteOutputs evaluates g and saves every output as a PNG under dir. It
// returns the written paths in output order.
func WriteOutputs(g *Graph, loader Loader, dir string) ([]string, error) {
	results, err := Evaluate(g, loader)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(g.Outputs))
	for _, o := range g.Outputs {
		path := filepath.Join(dir, o.Name)
		if err := texture.Save(results[o.Name], path); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", o.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
