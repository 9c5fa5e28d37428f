package server

import (
	"github.com/plotboard/plotboard/internal/engine"
	"github.com/plotboard/plotboard/internal/errs"
	"github.com/plotboard/plotboard/internal/report"
)

// actionEnvelope is the wire form of a report action: a type tag plus the
// union of every variant's fields. Only the fields the tag needs are read;
// the rest must be absent (decodeJSON rejects unknown fields, so a client
// sending move fields on a resize action gets a 400, not silence).
type actionEnvelope struct {
	Type string `json:"type"`

	ID         string            `json:"id,omitempty"`
	WidgetType report.WidgetType `json:"widgetType,omitempty"`

	X *float64 `json:"x,omitempty"`
	Y *float64 `json:"y,omitempty"`
	W *float64 `json:"w,omitempty"`
	H *float64 `json:"h,omitempty"`

	Position *report.Position `json:"position,omitempty"`
	Data     *dataPatch       `json:"data,omitempty"`
	Style    *stylePatch      `json:"style,omitempty"`

	// Full-config replacements, used only by update_widget.
	DataConfig  *engine.DataConfig  `json:"dataConfig,omitempty"`
	StyleConfig *report.StyleConfig `json:"styleConfig,omitempty"`
}

// dataPatch mirrors report.DataConfigPatch with json tags. Absent fields
// stay nil and are left untouched by the reducer.
type dataPatch struct {
	XAxis       *string             `json:"xAxis,omitempty"`
	YAxis       *string             `json:"yAxis,omitempty"`
	Category    *string             `json:"category,omitempty"`
	Aggregation *engine.Aggregation `json:"aggregation,omitempty"`
	Filters     *[]engine.Filter    `json:"filters,omitempty"`
}

func (p *dataPatch) toPatch() report.DataConfigPatch {
	return report.DataConfigPatch{
		XAxis:       p.XAxis,
		YAxis:       p.YAxis,
		Category:    p.Category,
		Aggregation: p.Aggregation,
		Filters:     p.Filters,
	}
}

// stylePatch mirrors report.StyleConfigPatch with json tags.
type stylePatch struct {
	Title          *string              `json:"title,omitempty"`
	ColorScheme    *string              `json:"colorScheme,omitempty"`
	ShowLegend     *bool                `json:"showLegend,omitempty"`
	LegendPosition *string              `json:"legendPosition,omitempty"`
	XAxisLabel     *string              `json:"xAxisLabel,omitempty"`
	YAxisLabel     *string              `json:"yAxisLabel,omitempty"`
	NumberFormat   *engine.NumberFormat `json:"numberFormat,omitempty"`
	Orientation    *string              `json:"orientation,omitempty"`
}

func (p *stylePatch) toPatch() report.StyleConfigPatch {
	return report.StyleConfigPatch{
		Title:          p.Title,
		ColorScheme:    p.ColorScheme,
		ShowLegend:     p.ShowLegend,
		LegendPosition: p.LegendPosition,
		XAxisLabel:     p.XAxisLabel,
		YAxisLabel:     p.YAxisLabel,
		NumberFormat:   p.NumberFormat,
		Orientation:    p.Orientation,
	}
}

// decodeAction turns a wire envelope into a typed action. LoadReport is
// deliberately not decodable here: state replacement only happens through
// the persistence endpoints.
func decodeAction(env actionEnvelope) (report.Action, error) {
	switch env.Type {
	case "add_widget":
		if !report.KnownType(env.WidgetType) {
			return nil, errs.Newf(errs.ErrKindInvalidInput, "unknown widget type %q", env.WidgetType)
		}
		id := env.ID
		if id == "" {
			id = report.NewID()
		}
		return report.AddWidget{ID: id, Type: env.WidgetType}, nil

	case "update_widget":
		if env.ID == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "update_widget requires an id")
		}
		patch := report.WidgetPatch{
			Position: env.Position,
			Data:     env.DataConfig,
			Style:    env.StyleConfig,
		}
		if env.WidgetType != "" {
			if !report.KnownType(env.WidgetType) {
				return nil, errs.Newf(errs.ErrKindInvalidInput, "unknown widget type %q", env.WidgetType)
			}
			t := env.WidgetType
			patch.Type = &t
		}
		return report.UpdateWidget{ID: env.ID, Patch: patch}, nil

	case "delete_widget":
		if env.ID == "" {
			return nil, errs.New(errs.ErrKindInvalidInput, "delete_widget requires an id")
		}
		return report.DeleteWidget{ID: env.ID}, nil

	case "select_widget":
		return report.SelectWidget{ID: env.ID}, nil

	case "move_widget":
		if env.ID == "" || env.X == nil || env.Y == nil {
			return nil, errs.New(errs.ErrKindInvalidInput, "move_widget requires id, x, and y")
		}
		return report.MoveWidget{ID: env.ID, X: *env.X, Y: *env.Y}, nil

	case "resize_widget":
		if env.ID == "" || env.W == nil || env.H == nil {
			return nil, errs.New(errs.ErrKindInvalidInput, "resize_widget requires id, w, and h")
		}
		return report.ResizeWidget{ID: env.ID, W: *env.W, H: *env.H}, nil

	case "update_data_config":
		if env.ID == "" || env.Data == nil {
			return nil, errs.New(errs.ErrKindInvalidInput, "update_data_config requires id and data")
		}
		return report.UpdateDataConfig{ID: env.ID, Patch: env.Data.toPatch()}, nil

	case "update_style_config":
		if env.ID == "" || env.Style == nil {
			return nil, errs.New(errs.ErrKindInvalidInput, "update_style_config requires id and style")
		}
		return report.UpdateStyleConfig{ID: env.ID, Patch: env.Style.toPatch()}, nil

	default:
		return nil, errs.Newf(errs.ErrKindInvalidInput, "unknown action type %q", env.Type)
	}
}
