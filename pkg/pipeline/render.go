package pipeline

import (
	"context"
	"time"

	"github.com/populationgenomics/pedviz/pkg/errors"
	"github.com/populationgenomics/pedviz/pkg/observability"
	"github.com/populationgenomics/pedviz/pkg/pedigree"
	"github.com/populationgenomics/pedviz/pkg/render"
	"github.com/populationgenomics/pedviz/pkg/render/styles"
	"github.com/populationgenomics/pedviz/pkg/tangle"
)

// RenderFromLayout generates all requested artifact formats for a layout.
// SVG is rendered once and reused for the raster and PDF conversions.
func RenderFromLayout(ctx context.Context, layout *tangle.Result, p *pedigree.Pedigree, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "render options")
	}

	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	start := time.Now()

	artifacts, err := renderAll(layout, p, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func renderAll(layout *tangle.Result, p *pedigree.Pedigree, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	needSVG := func() []byte {
		if svg == nil {
			svg = render.RenderSVG(layout, opts.svgOptions()...)
		}
		return svg
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			artifacts[format] = needSVG()
		case FormatPNG:
			data, err := render.ToPNG(needSVG(), opts.Scale)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "png conversion")
			}
			artifacts[format] = data
		case FormatPDF:
			data, err := render.ToPDF(needSVG())
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "pdf conversion")
			}
			artifacts[format] = data
		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(p, render.DOTOptions{Detailed: opts.Labels}))
		case FormatJSON:
			data, err := tangle.MarshalResult(layout)
			if err != nil {
				return nil, err
			}
			artifacts[format] = data
		default:
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown output format %q", format)
		}
	}
	return artifacts, nil
}

// svgOptions converts pipeline options into SVG renderer options.
func (o *Options) svgOptions() []render.SVGOption {
	style, _ := styles.ByName(o.Style)
	svgOpts := []render.SVGOption{render.WithStyle(style)}
	if o.Labels {
		svgOpts = append(svgOpts, render.WithLabels())
	}
	if o.Legend {
		svgOpts = append(svgOpts, render.WithLegend())
	}
	if o.ShowUnplaced {
		svgOpts = append(svgOpts, render.WithUnplaced())
	}
	return svgOpts
}
