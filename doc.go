// Package mdx compiles documents that mix Markdown, JSX-style elements,
// `{}` expressions and import/export statements into a JavaScript module
// exporting a component.
//
// Compile runs the whole pipeline on one document:
//
//	result, err := mdx.Compile(ctx, source, mdx.WithFilePath("docs/intro.mdx"))
//	if err != nil {
//		if d, ok := mdx.SyntaxError(err); ok {
//			fmt.Printf("%d:%d: %s\n", d.Line, d.Column, d.Message)
//		}
//		return err
//	}
//	fmt.Print(result.Code)
//
// Syntax errors abort compilation and carry a source location. Recoverable
// problems, such as names that had to be sanitised, are reported in
// Result.Warnings.
//
// Module wires the compiler to a configuration file, a logger provider and
// the file-based build adapter used by cmd/mdx.
package mdx
