// Package generator turns a succeeded media job into a learning document.
//
// It fills the prompt template, calls the configured Model and applies the
// safety gate: finish reasons that indicate a block, any safety rating at or
// above the configured threshold, and responses too short to be useful all
// produce an empty Result with a Reason instead of text.
package generator
