package plan

import "github.com/samasastudio/sq-gendash/internal/models"

const (
	kpiWidth    = 4
	kpiHeight   = 2
	chartWidth  = 12
	chartHeight = 6
	rowStride   = 4
)

// NormalizeLayout keeps a layout that covers every widget and otherwise
// replaces it with DefaultLayout.
func NormalizeLayout(p models.Plan) models.Plan {
	if len(p.Layout) == len(p.Widgets) {
		p.Layout = append(make([]models.LayoutItem, 0, len(p.Layout)), p.Layout...)
		return p
	}
	p.Layout = DefaultLayout(p.Widgets)
	return p
}

// DefaultLayout stacks widgets in a single column.
func DefaultLayout(widgets []models.Widget) []models.LayoutItem {
	layout := make([]models.LayoutItem, 0, len(widgets))
	for i, w := range widgets {
		item := models.LayoutItem{WidgetIndex: i, X: 0, Y: i * rowStride, W: chartWidth, H: chartHeight}
		if w.IsKPI() {
			item.W, item.H = kpiWidth, kpiHeight
		}
		layout = append(layout, item)
	}
	return layout
}
