package dashboard

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/financial-dashboard/internal/sales"
)

// Currency of the revenue labels.
const Currency = money.USD

// Axis labels of the revenue chart.
const (
	xAxisLabel = "Receita"
	yAxisLabel = "Segmento"
)

// Chart geometry, in SVG user units.
const (
	chartWidth   = 720.0
	marginLeft   = 150.0
	marginRight  = 110.0
	marginTop    = 20.0
	marginBottom = 60.0
	barHeight    = 28.0
	barGap       = 10.0
	tickCount    = 4
)

// chartView is the data the SVG template draws.
type chartView struct {
	Width, Height float64
	PlotX, PlotY  float64
	PlotW, PlotH  float64
	XLabel        string
	YLabel        string
	Bars          []chartBar
	Ticks         []chartTick
}

// chartBar is one horizontal bar.
type chartBar struct {
	Segment string
	Label   string
	X, Y    float64
	W, H    float64
}

// chartTick is one tick of the revenue axis.
type chartTick struct {
	X     float64
	Label string
}

// FormatRevenue renders an amount as a currency label, e.g. "$1,500.00".
func FormatRevenue(amount float64) string {
	cents := decimal.NewFromFloat(amount).Shift(2).Round(0).IntPart()
	return money.New(cents, Currency).Display()
}

// newChartView lays out a horizontal bar chart of the aggregate.
//
// The aggregate is ordered by ascending revenue, so the largest segment is
// drawn on top. Negative totals are drawn as empty bars.
func newChartView(agg *sales.Aggregate) chartView {
	n := float64(len(agg.Segments))
	plotH := n*barHeight + (n+1)*barGap
	view := chartView{
		Width:  chartWidth,
		Height: marginTop + plotH + marginBottom,
		PlotX:  marginLeft,
		PlotY:  marginTop,
		PlotW:  chartWidth - marginLeft - marginRight,
		PlotH:  plotH,
		XLabel: xAxisLabel,
		YLabel: yAxisLabel,
	}

	top := agg.Max()
	scale := 0.0
	if top > 0 {
		scale = view.PlotW / top
	}

	last := len(agg.Segments) - 1
	for i, s := range agg.Segments {
		w := s.Revenue * scale
		if w < 0 {
			w = 0
		}
		view.Bars = append(view.Bars, chartBar{
			Segment: s.Segment,
			Label:   FormatRevenue(s.Revenue),
			X:       view.PlotX,
			Y:       view.PlotY + barGap + float64(last-i)*(barHeight+barGap),
			W:       w,
			H:       barHeight,
		})
	}

	if top > 0 {
		for i := 0; i <= tickCount; i++ {
			frac := float64(i) / tickCount
			view.Ticks = append(view.Ticks, chartTick{
				X:     view.PlotX + frac*view.PlotW,
				Label: FormatRevenue(top * frac),
			})
		}
	}

	return view
}
