// Package docs turns a folder of Markdown pages into the HTML documentation shipped in the
// release package.
//
// Generation is two-pass: every page is converted first, then every generated file has its
// bare intra-suite links (href="usage") rewritten to the static file name (href="usage.html").
// Branding assets are copied last.
package docs
