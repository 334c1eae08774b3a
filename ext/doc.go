// Package ext provides ready-made mdw extension nodes: front matter,
// GitHub alerts, highlighted text and keyboard shortcuts.
package ext
