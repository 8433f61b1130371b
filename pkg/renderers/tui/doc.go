// Package tui renders text fields for terminals. Renderer draws a lipgloss
// styled view. Session prompts each input through a PromptDriver (survey by
// default) and Editor is a bubbletea model editing all inputs in place; both
// drive the field's focus and dirty state through the derived children.
package tui
