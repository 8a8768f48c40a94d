// Package normalisers turns fetched page content (HTML, markdown) into plain
// text before it reaches a language model prompt.
package normalisers
