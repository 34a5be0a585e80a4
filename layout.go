package coverpdf

import "sort"

// Page geometry in PDF points (ISO A4).
const (
	PageWidth  = 595.0
	PageHeight = 842.0

	// Uploaded images are fitted within this box and centred on the page.
	MaxImageWidth  = 545.0
	MaxImageHeight = 792.0
)

// Evaluation table grid. Y values are measured from the bottom of the page
// and name the vertical centre of a row.
const (
	tableLeft       = 75.0
	tableWidth      = 445.0
	rowHeight       = 30.0
	tableTopY       = 630.0
	commentsHeight  = 60.0
	totalDividerX   = 475.0
	infoTopY        = 350.0
	infoStep        = 25.0
	infoLeftX       = 75.0
	infoRightX      = 300.0
	cellFontSize    = 8.0
	infoFontSize    = 11.0
	titleFontSize   = 20.0
	subtitleFontSiz = 11.0
	titleY          = 700.0
	subtitleY       = 655.0
)

// columnDividers are the x offsets of the vertical lines inside each
// bordered table row.
var columnDividers = []float64{155, 185, 265, 345, 425, 475}

// Criterion is one graded row of the evaluation table.
// Labels wider than their cell are not wrapped; multi-line labels are
// listed explicitly in Lines.
type Criterion struct {
	Lines []string
	Mark  string
}

// Label joins the criterion lines with a space.
func (c Criterion) Label() string {
	switch len(c.Lines) {
	case 0:
		return ""
	case 1:
		return c.Lines[0]
	}
	s := c.Lines[0]
	for _, l := range c.Lines[1:] {
		s += " " + l
	}
	return s
}

// CoverLayout is the per-type data that drives the cover drawing.
// The grid geometry is shared by every type.
type CoverLayout struct {
	Type          DocumentType
	Title         string
	TitleX        float64
	SubtitleX     float64
	AllocatedMark string // last cell of the percentage row
	MarkX         float64
	Criteria      []Criterion
}

// Color is an RGB triple with components in [0, 1].
type Color struct{ R, G, B float64 }

// HeaderLine is one line of the institution block at the top of the cover.
type HeaderLine struct {
	Text  string
	X, Y  float64
	Size  float64
	Bold  bool
	Color Color
}

// DefaultHeader is the institution block drawn on every cover.
var DefaultHeader = []HeaderLine{
	{Text: "Daffodil", X: 242, Y: 800, Size: 28, Bold: true, Color: Color{0.1, 0.4, 0.8}},
	{Text: "International", X: 255, Y: 785, Size: 12, Color: Color{0.4, 0.4, 0.4}},
	{Text: "University", X: 265, Y: 765, Size: 24, Bold: true, Color: Color{0.2, 0.6, 0.2}},
}

// SubtitleText is drawn under the title on every cover.
const SubtitleText = "Only for course Teacher"

// cellText is a label placed relative to a row centre.
type cellText struct {
	Text string
	X    float64
	DY   float64
}

// tierHeader is the first table row (criterion-tier labels).
var tierHeader = []cellText{
	{"Needs", 205, 5},
	{"Improvement", 200, -5},
	{"Developing", 285, 0},
	{"Sufficient", 365, 0},
	{"Above", 435, 5},
	{"Average", 433, -5},
	{"Total", 485, 5},
	{"Mark", 485, -5},
}

// allocationRow is the percentage row; the allocated mark is appended per type.
var allocationRow = []cellText{
	{"Allocate mark &", 80, 5},
	{"Percentage", 90, -5},
	{"25%", 215, 0},
	{"50%", 295, 0},
	{"75%", 375, 0},
	{"100%", 440, 0},
}

const allocatedMarkX = 495.0

var layouts = map[DocumentType]CoverLayout{
	DocAssignment: {
		Type:          DocAssignment,
		Title:         "Assignment",
		TitleX:        245,
		SubtitleX:     235,
		AllocatedMark: "5",
		MarkX:         168,
		Criteria: []Criterion{
			{Lines: []string{"Clarity"}, Mark: "1"},
			{Lines: []string{"Content Quality"}, Mark: "2"},
			{Lines: []string{"Spelling &", "Grammar"}, Mark: "1"},
			{Lines: []string{"Organization &", "Formatting"}, Mark: "1"},
		},
	},
	DocLabReport: {
		Type:          DocLabReport,
		Title:         "Lab Report",
		TitleX:        255,
		SubtitleX:     245,
		AllocatedMark: "25",
		MarkX:         165,
		Criteria: []Criterion{
			{Lines: []string{"Understanding"}, Mark: "3"},
			{Lines: []string{"Analysis"}, Mark: "4"},
			{Lines: []string{"Implementation"}, Mark: "8"},
			{Lines: []string{"Report Writing"}, Mark: "10"},
		},
	},
}

// LookupLayout returns the cover layout for t.
// The returned layout owns a fresh copy of its criteria.
func LookupLayout(t DocumentType) (CoverLayout, bool) {
	l, ok := layouts[t]
	if !ok {
		return CoverLayout{}, false
	}
	crit := make([]Criterion, len(l.Criteria))
	for i, c := range l.Criteria {
		crit[i] = Criterion{Lines: append([]string(nil), c.Lines...), Mark: c.Mark}
	}
	l.Criteria = crit
	return l, true
}

// SupportedTypes lists the document types that have a cover layout, sorted.
func SupportedTypes() []DocumentType {
	out := make([]DocumentType, 0, len(layouts))
	for t := range layouts {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// IsSupported reports whether t has a cover layout.
func IsSupported(t DocumentType) bool {
	_, ok := layouts[t]
	return ok
}
