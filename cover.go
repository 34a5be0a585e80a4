package coverpdf

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/gofpdi"
)

const (
	fontFamily   = "Helvetica"
	templatePage = 1
	templateBox  = "/MediaBox"
)

// canvas is the drawing surface for a cover. Coordinates are PDF user space:
// origin at the bottom-left corner, y growing upwards, text y on the baseline.
type canvas interface {
	Text(x, y float64, s string, size float64, bold bool, c Color)
	Line(x1, y1, x2, y2 float64)
	Rect(x, y, w, h float64)
}

// coverInfo is the resolved text drawn under the evaluation table.
type coverInfo struct {
	Semester       string
	StudentName    string
	StudentID      string
	Batch          string
	Section        string
	CourseCode     string
	CourseName     string
	TeacherName    string
	Designation    string
	SubmissionDate string
}

func newCoverInfo(f FormFields, date string) coverInfo {
	return coverInfo{
		Semester:       orPlaceholder(f.Semester, PlaceholderText),
		StudentName:    orPlaceholder(f.StudentName, PlaceholderText),
		StudentID:      orPlaceholder(f.StudentID, PlaceholderStudentID),
		Batch:          orPlaceholder(f.Batch, PlaceholderText),
		Section:        orPlaceholder(f.Section, PlaceholderText),
		CourseCode:     orPlaceholder(f.CourseCode, PlaceholderText),
		CourseName:     orPlaceholder(f.CourseName, PlaceholderText),
		TeacherName:    orPlaceholder(f.TeacherName, PlaceholderText),
		Designation:    orPlaceholder(f.Designation, PlaceholderText),
		SubmissionDate: date,
	}
}

var black = Color{}

// drawCover paints the header, title, evaluation table and submitter block.
func drawCover(c canvas, l CoverLayout, header []HeaderLine, info coverInfo) {
	for _, h := range header {
		c.Text(h.X, h.Y, h.Text, h.Size, h.Bold, h.Color)
	}
	c.Text(l.TitleX, titleY, l.Title, titleFontSize, false, black)
	c.Text(l.SubtitleX, subtitleY, SubtitleText, subtitleFontSiz, false, black)

	y := tableTopY
	gridRow(c, y)
	cells(c, y, tierHeader)

	y -= rowHeight
	gridRow(c, y)
	cells(c, y, allocationRow)
	c.Text(allocatedMarkX, y, l.AllocatedMark, cellFontSize, false, black)

	for _, cr := range l.Criteria {
		y -= rowHeight
		gridRow(c, y)
		if len(cr.Lines) > 1 {
			c.Text(80, y+3, cr.Lines[0], cellFontSize, false, black)
			c.Text(80, y-7, cr.Lines[1], cellFontSize, false, black)
		} else {
			c.Text(80, y, cr.Label(), cellFontSize, false, black)
		}
		c.Text(l.MarkX, y, cr.Mark, cellFontSize, false, black)
	}

	y -= rowHeight
	c.Rect(tableLeft, y-rowHeight/2, tableWidth, rowHeight)
	c.Line(totalDividerX, y+rowHeight/2, totalDividerX, y-rowHeight/2)
	c.Text(90, y-2, "Total obtained mark", cellFontSize, false, black)

	y -= commentsHeight
	c.Rect(tableLeft, y-rowHeight/2, tableWidth, commentsHeight)
	c.Text(90, y+30, "Comments", cellFontSize, false, black)

	drawInfo(c, info)
}

// gridRow draws one bordered table row centred on y with its column dividers.
func gridRow(c canvas, y float64) {
	top, bottom := y+rowHeight/2, y-rowHeight/2
	c.Rect(tableLeft, bottom, tableWidth, rowHeight)
	for _, x := range columnDividers {
		c.Line(x, top, x, bottom)
	}
}

func cells(c canvas, y float64, row []cellText) {
	for _, t := range row {
		c.Text(t.X, y+t.DY, t.Text, cellFontSize, false, black)
	}
}

func drawInfo(c canvas, info coverInfo) {
	rows := [][2]string{
		{"Semester: " + info.Semester},
		{"Student Name: " + info.StudentName},
		{"Student ID: " + info.StudentID},
		{"Batch: " + info.Batch, "Section: " + info.Section},
		{"Course Code: " + info.CourseCode, "Course Name: " + info.CourseName},
		{"Course Teacher Name: " + info.TeacherName},
		{"Designation: " + info.Designation},
		{"Submission Date: " + info.SubmissionDate},
	}
	y := infoTopY
	for _, r := range rows {
		c.Text(infoLeftX, y, r[0], infoFontSize, false, black)
		if r[1] != "" {
			c.Text(infoRightX, y, r[1], infoFontSize, false, black)
		}
		y -= infoStep
	}
}

// fpdfCanvas draws on the current page of a gofpdf document, flipping y
// from PDF user space to gofpdf's top-left origin.
type fpdfCanvas struct {
	pdf    *gofpdf.Fpdf
	height float64
	tr     func(string) string
}

func newFpdfCanvas(pdf *gofpdf.Fpdf, pageHeight float64) *fpdfCanvas {
	return &fpdfCanvas{
		pdf:    pdf,
		height: pageHeight,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (f *fpdfCanvas) Text(x, y float64, s string, size float64, bold bool, c Color) {
	style := ""
	if bold {
		style = "B"
	}
	f.pdf.SetFont(fontFamily, style, size)
	f.pdf.SetTextColor(channel(c.R), channel(c.G), channel(c.B))
	f.pdf.Text(x, f.height-y, f.tr(s))
}

func (f *fpdfCanvas) Line(x1, y1, x2, y2 float64) {
	f.pdf.Line(x1, f.height-y1, x2, f.height-y2)
}

func (f *fpdfCanvas) Rect(x, y, w, h float64) {
	f.pdf.Rect(x, f.height-y-h, w, h, "D")
}

func channel(v float64) int {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 255
	}
	return int(v*255 + 0.5)
}

// newDocument returns an A4 point-unit document with page breaks disabled.
func newDocument(created time.Time) *gofpdf.Fpdf {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreator("go-coverpdf", false)
	if !created.IsZero() {
		pdf.SetCreationDate(created)
		pdf.SetModificationDate(created)
	}
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(1)
	return pdf
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderBlankCover draws the cover on a fresh A4 page.
func renderBlankCover(l CoverLayout, header []HeaderLine, info coverInfo, created time.Time) ([]byte, error) {
	pdf := newDocument(created)
	pdf.AddPage()
	drawCover(newFpdfCanvas(pdf, PageHeight), l, header, info)
	return output(pdf)
}

// renderTemplateCover imports the first page of tpl at its own size and
// draws the cover on top of it. The importer panics on malformed input, so
// panics are returned as ErrTemplateImport.
func renderTemplateCover(tpl []byte, l CoverLayout, header []HeaderLine, info coverInfo, created time.Time) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("%w: %v", ErrTemplateImport, r)
		}
	}()

	pdf := newDocument(created)
	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(tpl))
	id := imp.ImportPageFromStream(pdf, &rs, templatePage, templateBox)

	w, h := PageWidth, PageHeight
	if box, ok := imp.GetPageSizes()[templatePage][templateBox]; ok && box["w"] > 0 && box["h"] > 0 {
		w, h = box["w"], box["h"]
	}
	pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
	imp.UseImportedTemplate(pdf, id, 0, 0, w, h)
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrTemplateImport, pdf.Error())
	}

	drawCover(newFpdfCanvas(pdf, h), l, header, info)
	return output(pdf)
}
