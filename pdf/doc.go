// Package pdf builds paginated PDF reports through a small stateful API.
//
// A [Document] is driven through an ordered sequence of calls: open a page,
// add paragraphs and images, open a table, add cells row by row, close the
// table, and finally call [Document.ToData]. Content is kept as a tree of
// nodes until then and laid out in one pass with gofpdf.
//
//	doc, err := pdf.New(kinet.Portrait, "grades")
//	if err != nil {
//	    return err
//	}
//	doc.AddPage(2, 2)
//	doc.SetBold()
//	doc.AddParagraph("Grades", pdf.Left)
//	doc.SetNormal()
//	doc.BeginTable(3, 1)
//	doc.AddCell("Muster Anna", pdf.Left, pdf.BorderBottom)
//	doc.AddCell("5.5", pdf.Right, pdf.BorderBottom)
//	doc.EndTable()
//	p, err := doc.ToData()
//
// Page margins and fixed positions are given in centimeters; font sizes,
// border widths and image boxes in points.
//
// Calls that do not fit the current [State] fail with a [*StateError] and
// leave the document unchanged. A Document is not safe for concurrent use.
package pdf
