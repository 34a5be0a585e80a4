// Package coverpdf assembles academic submissions into a single PDF: a
// generated cover page followed by the uploaded images and PDFs in upload
// order.
//
// # Quick Start
//
//	asm := coverpdf.NewAssembler()
//
//	res, err := asm.Assemble(ctx, files, coverpdf.FormFields{
//	    DocumentType: coverpdf.DocAssignment,
//	    StudentName:  "Rahim Uddin",
//	    StudentID:    "221-15-0001",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(res.Filename, res.PDF, 0o644)
//
// # Assembly
//
//  1. The document type is checked. Unknown types fail with
//     ErrUnsupportedDocType before anything is drawn.
//  2. The cover template for the type is loaded and its first page used as
//     background. Any failure falls back to a blank A4 page.
//  3. The institution header, title, evaluation table and submitter fields
//     are drawn. Empty fields print a placeholder; an empty submission date
//     prints today's date as DD/MM/YY.
//  4. Each upload is appended in order. Images (JPEG, then PNG) get one
//     centred A4 page, scaled down to fit 545×792 pt. PDFs contribute every
//     page. Files that fail are skipped and listed in Result.Files.
//
// Fallbacks are reported as an Outcome so callers can tell which path ran.
//
// # Layouts
//
// Each supported type has a CoverLayout: title, marks and criteria. The
// table grid is shared. See LookupLayout and SupportedTypes.
//
// # Templates
//
// Use WithTemplateSource with OpenTemplateSource to load templates from a
// directory, an http(s) URL, or an s3:// bucket. WithoutTemplates always
// draws on a blank page.
package coverpdf
