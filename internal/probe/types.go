// types.go — wire contract between the Coordinator and the browser-side
// Probe. These types are marshaled/unmarshaled verbatim against
// the JSON bodies the Probe sends and polls for; field names and optionality
// follow the wire contract exactly, not Go naming conventions.
package probe

// CoordRequest is what GET /coord-request returns: the single pending DOM
// query, or a zero value (encodes to "{}") when none is pending.
type CoordRequest struct {
	RequestID string `json:"request_id,omitempty"`
	Selector  string `json:"selector,omitempty"`
	LabelText string `json:"label_text,omitempty"`
}

// Empty reports whether this is the "no pending query" sentinel.
func (r CoordRequest) Empty() bool {
	return r.RequestID == ""
}

// ViewportBounds is a rectangle in absolute screen coordinates describing
// the browser content area.
type ViewportBounds struct {
	Left   float64 `json:"vp_left"`
	Top    float64 `json:"vp_top"`
	Right  float64 `json:"vp_right"`
	Bottom float64 `json:"vp_bottom"`
}

// Width returns the viewport width.
func (v ViewportBounds) Width() float64 { return v.Right - v.Left }

// Height returns the viewport height.
func (v ViewportBounds) Height() float64 { return v.Bottom - v.Top }

// Contains reports whether (x, y) lies within the rectangle.
func (v ViewportBounds) Contains(x, y float64) bool {
	return x >= v.Left && x <= v.Right && y >= v.Top && y <= v.Bottom
}

// Clamp returns (x, y) moved into [Left+m, Right-m] x [Top+m, Bottom-m].
// If the margin would invert the rectangle (viewport narrower than 2m),
// the midpoint is returned instead of an inverted clamp.
func (v ViewportBounds) Clamp(x, y, margin float64) (float64, float64) {
	minX, maxX := v.Left+margin, v.Right-margin
	if minX > maxX {
		minX, maxX = (v.Left+v.Right)/2, (v.Left+v.Right)/2
	}
	minY, maxY := v.Top+margin, v.Bottom-margin
	if minY > maxY {
		minY, maxY = (v.Top+v.Bottom)/2, (v.Top+v.Bottom)/2
	}
	return clampFloat(x, minX, maxX), clampFloat(y, minY, maxY)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CheckedState is the tri-state {true, false, null} the wire contract uses
// for checkable inputs; nil means "not a checkable element".
type CheckedState = *bool

// CoordResponse is the Probe's response to a DOM query.
type CoordResponse struct {
	RequestID string `json:"request_id"`
	Found     bool   `json:"found"`

	X float64 `json:"x"`
	Y float64 `json:"y"`

	CursorX float64 `json:"cursor_x"`
	CursorY float64 `json:"cursor_y"`

	Value   string        `json:"value"`
	Checked CheckedState  `json:"checked"`
	Focused bool          `json:"focused"`

	TagName   string `json:"tag_name,omitempty"`
	InputType string `json:"input_type,omitempty"`

	InViewport        bool    `json:"in_viewport"`
	ViewportTop       float64 `json:"viewport_top"`
	ViewportH         float64 `json:"viewport_h"`
	ScrollDeltaNeeded float64 `json:"scroll_delta_needed"`

	HoveredLabelText string `json:"hovered_label_text,omitempty"`

	VPLeft   *float64 `json:"vp_left,omitempty"`
	VPTop    *float64 `json:"vp_top,omitempty"`
	VPRight  *float64 `json:"vp_right,omitempty"`
	VPBottom *float64 `json:"vp_bottom,omitempty"`
}

// Viewport extracts ViewportBounds from the optional vp_* fields, reporting
// false if any of the four is missing (partial bounds are not usable).
func (c CoordResponse) Viewport() (ViewportBounds, bool) {
	if c.VPLeft == nil || c.VPTop == nil || c.VPRight == nil || c.VPBottom == nil {
		return ViewportBounds{}, false
	}
	return ViewportBounds{Left: *c.VPLeft, Top: *c.VPTop, Right: *c.VPRight, Bottom: *c.VPBottom}, true
}

// IsChecked reports whether Checked is a non-nil true.
func (c CoordResponse) IsChecked() bool {
	return c.Checked != nil && *c.Checked
}

// ScanRequest is what GET /scan-request returns.
type ScanRequest struct {
	RequestID string `json:"request_id,omitempty"`
}

// Empty reports whether this is the "no pending scan" sentinel.
func (r ScanRequest) Empty() bool {
	return r.RequestID == ""
}

// QuestionType enumerates the form-control kinds a scan can report.
type QuestionType string

const (
	QuestionRadio    QuestionType = "radio"
	QuestionCheckbox QuestionType = "checkbox"
	QuestionTextarea QuestionType = "textarea"
)

// Question is one entry in a scan's ordered question list.
type Question struct {
	UUID         string       `json:"uuid"`
	Selector     string       `json:"selector"`
	Label        string       `json:"label"`
	Type         QuestionType `json:"type"`
	InViewport   bool         `json:"in_viewport"`
	CheckedLabel string       `json:"checked_label,omitempty"`
	Value        string       `json:"value,omitempty"`
	Options      []string     `json:"labels,omitempty"`
	X            float64      `json:"x"`
	Y            float64      `json:"y"`
	ViewportTop  float64      `json:"viewport_top"`
}

// ScanResponse is the Probe's response to a scan request.
type ScanResponse struct {
	RequestID string     `json:"request_id"`
	Questions []Question `json:"questions"`
	Total     int        `json:"total"`
	Visible   int        `json:"visible"`

	VPLeft   float64 `json:"vp_left"`
	VPTop    float64 `json:"vp_top"`
	VPRight  float64 `json:"vp_right"`
	VPBottom float64 `json:"vp_bottom"`

	CursorX float64 `json:"cursor_x"`
	CursorY float64 `json:"cursor_y"`
}

// Viewport extracts the ViewportBounds a scan response always carries.
func (s ScanResponse) Viewport() ViewportBounds {
	return ViewportBounds{Left: s.VPLeft, Top: s.VPTop, Right: s.VPRight, Bottom: s.VPBottom}
}

// CursorPositionEvent is the body of POST /cursor-position.
type CursorPositionEvent struct {
	X           float64  `json:"x"`
	Y           float64  `json:"y"`
	HoveredID   string   `json:"hovered_id"`
	HoveredName string   `json:"hovered_name"`
	VPLeft      *float64 `json:"vp_left,omitempty"`
	VPTop       *float64 `json:"vp_top,omitempty"`
	VPRight     *float64 `json:"vp_right,omitempty"`
	VPBottom    *float64 `json:"vp_bottom,omitempty"`
}

// Viewport extracts ViewportBounds if all four bounds fields are present.
func (e CursorPositionEvent) Viewport() (ViewportBounds, bool) {
	if e.VPLeft == nil || e.VPTop == nil || e.VPRight == nil || e.VPBottom == nil {
		return ViewportBounds{}, false
	}
	return ViewportBounds{Left: *e.VPLeft, Top: *e.VPTop, Right: *e.VPRight, Bottom: *e.VPBottom}, true
}

// IsZeroMove reports whether this event carries the degenerate (0,0) reading
// that hover-only code paths sometimes emit: such an
// event must never overwrite a previously valid cursor reading.
func (e CursorPositionEvent) IsZeroMove() bool {
	return e.X == 0 && e.Y == 0
}

// CursorHoverEvent is the body of POST /cursor-hover — hover state only,
// never cursor coordinates.
type CursorHoverEvent struct {
	HoveredID   string `json:"hovered_id"`
	HoveredName string `json:"hovered_name"`
}

// AutomationRequest is the body of POST /automation.
type AutomationRequest struct {
	Commands []string `json:"commands"`
	CursorX  *float64 `json:"cursor_x,omitempty"`
	CursorY  *float64 `json:"cursor_y,omitempty"`
}
