// Package field resolves fields: maximal runs of text over which an
// externally supplied per-position annotation is constant.
//
// The annotation system itself is an external collaborator; this package
// consults it only through the Source interface and derives fields on
// demand, never storing them.
//
// A position exactly where the annotation changes is ambiguous between "end
// of the previous field" and "start of the next field". Callers choose the
// interpretation with the escapeFromEdge flag. When escaping, a run
// annotated with the Boundary sentinel is transparent: the fields on either
// side of it are treated as logically adjacent. One empirical special case
// is preserved deliberately: a would-be empty field whose neighbors carry a
// nil annotation is never reported as a zero-length field, which avoids
// false positives in prompt-like text where the prompt is the only
// annotated run.
package field
