// Package mdw renders in-memory document trees to CommonMark, optionally
// extended with GitHub Flavored Markdown, or to HTML.
//
// Output is built for machines first: every string is escaped for the
// position it lands in, fences and code spans grow to fit their content,
// adjacent lists and emphasis spans never merge, and a render either
// succeeds completely or returns one structured *Error and no output.
//
// Core properties:
//   - A tree of Node values in, one string out
//   - Context-aware escaping behind one Escaper interface
//   - GFM tables, task lists, strikethrough and autolinks behind flags
//   - Tables with block content fall back to HTML when allowed
//   - Caller-defined nodes through the Extension interface
//
// Example:
//
//	doc := mdw.NewDocument(
//		mdw.NewHeading(1, mdw.Text("Hello")),
//		mdw.NewParagraph(mdw.Text("Tree in, "), mdw.NewStrong(mdw.Text("markdown")), mdw.Text(" out.")),
//	)
//	out, err := mdw.RenderCommonMark(doc, mdw.DefaultOptions())
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Print(out)
//
// Render writes the result to an io.Writer using pooled renderers, and
// RenderOptions such as WithLogger and WithMaxDepth tune renderer behavior.
package mdw
