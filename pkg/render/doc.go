// Package render converts rendered diagrams between output formats.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg):
//
//	svg, err := treedot.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0) // 2x scale
//
// The [treedot] subpackage draws parts category trees.
//
// [treedot]: github.com/matzehuels/partscout/pkg/render/treedot
package render
