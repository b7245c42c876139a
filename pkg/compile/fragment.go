package compile

import (
	"strconv"

	"github.com/Delen0828/gramm-export-to-vega/pkg/plot"
	"github.com/Delen0828/gramm-export-to-vega/pkg/stats"
	"github.com/Delen0828/gramm-export-to-vega/pkg/vega"
)

// Fragment is a self-contained partial scene graph produced by one layer
// builder. Fragments are immutable after construction; the merge engine
// only reads them.
type Fragment struct {
	Data   []vega.Data
	Scales []vega.Scale
	Axes   []vega.Axis
	Marks  []vega.Mark
}

// builder produces a fragment for one layer kind. A nil fragment means the
// layer had nothing to contribute (e.g. its statistic records were all
// malformed); the dispatcher records a note and moves on.
type builder func(b *buildCtx) *Fragment

// buildCtx carries the shared read-only state every builder needs.
type buildCtx struct {
	ctx  *plot.Context
	opts plot.Options

	numericX bool
	numericY bool

	// warnings accumulates recovered degradations from stat normalization.
	warnings []stats.Warning
}

func newBuildCtx(ctx *plot.Context, opts plot.Options) *buildCtx {
	return &buildCtx{
		ctx:      ctx,
		opts:     opts,
		numericX: plot.IsNumeric(ctx.Aes.X),
		numericY: plot.IsNumeric(ctx.Aes.Y),
	}
}

// grouped reports whether the color aesthetic partitions observations.
func (b *buildCtx) grouped() bool {
	return b.ctx.Grouping.HasColorGroup
}

// groupLabel maps a 1-based statistic group index to its color level label.
// Statistic groups are produced in level order, so index i pairs with
// Levels[i-1]; out-of-range groups fall back to their numeric form.
func (b *buildCtx) groupLabel(group int) string {
	levels := b.ctx.Grouping.Levels
	if group >= 1 && group <= len(levels) {
		return levels[group-1]
	}
	return "group " + strconv.Itoa(group)
}

// warn records normalization warnings surfaced by a builder.
func (b *buildCtx) warn(ws []stats.Warning) {
	b.warnings = append(b.warnings, ws...)
}
