// Package markup translates extended Markdown to HTML.
//
// The baseline grammar is goldmark with GFM. On top of it, an ordered list of
// extensions adds:
//   - alert blocks (> [!NOTE], > [!WARNING], ...)
//   - footnote references ([^label]) and definitions ([^label]: text)
//   - stable heading identifiers recorded for the table of contents
//   - inline and display math ($...$, $$...$$), typeset later by KaTeX
//
// Identifiers (heading slugs, footnote ordinals) live in a Registry that is
// created for each translation and discarded afterwards, so one Pipeline can
// serve any number of documents, concurrently or not.
package markup
