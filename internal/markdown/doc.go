// Package markdown implements the lesson ingestion pipeline: frontmatter
// extraction, goldmark rendering, filesystem discovery, and synchronisation
// of Markdown lesson files into the lesson index.
package markdown
