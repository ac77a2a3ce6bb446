package plan

import (
	"reflect"
	"testing"

	"github.com/samasastudio/sq-gendash/internal/models"
)

func TestNormalizeLayoutDefault(t *testing.T) {
	p := models.Plan{
		Widgets: []models.Widget{
			{Type: models.WidgetKPI},
			{Type: models.WidgetLine},
			{Type: models.WidgetBar},
		},
	}

	got := NormalizeLayout(p).Layout
	want := []models.LayoutItem{
		{WidgetIndex: 0, X: 0, Y: 0, W: 4, H: 2},
		{WidgetIndex: 1, X: 0, Y: 4, W: 12, H: 6},
		{WidgetIndex: 2, X: 0, Y: 8, W: 12, H: 6},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected layout %+v", got)
	}
}

func TestNormalizeLayoutKeepsMatchingLayout(t *testing.T) {
	layout := []models.LayoutItem{
		{WidgetIndex: 1, X: 6, Y: 0, W: 6, H: 3},
		{WidgetIndex: 0, X: 0, Y: 0, W: 6, H: 3},
	}
	p := models.Plan{
		Widgets: []models.Widget{{Type: models.WidgetKPI}, {Type: models.WidgetArea}},
		Layout:  layout,
	}

	got := NormalizeLayout(p).Layout
	if !reflect.DeepEqual(got, layout) {
		t.Fatalf("expected layout kept, got %+v", got)
	}
	got[0].X = 99
	if layout[0].X != 6 {
		t.Fatalf("normalized layout aliases the input")
	}
}

func TestNormalizeLayoutReplacesMismatch(t *testing.T) {
	p := models.Plan{
		Widgets: []models.Widget{{Type: models.WidgetKPI}, {Type: models.WidgetKPI}},
		Layout:  []models.LayoutItem{{WidgetIndex: 0, X: 3, Y: 3, W: 3, H: 3}},
	}

	got := NormalizeLayout(p).Layout
	if len(got) != 2 || got[0].X != 0 || got[1].Y != 4 {
		t.Fatalf("expected default layout, got %+v", got)
	}
}
