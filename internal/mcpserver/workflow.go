package mcpserver

// WorkflowGuide describes the collector workflow for LLM consumers
// driving the tools.
const WorkflowGuide = `# Collector Workflow

The collector is a single Markdown note (default ` + "`" + `trash.md` + "`" + `) that gathers
quick snippets so other notes stay clean. Entries accumulate at the end of the
note until the whole thing is archived in one go.

## Appending

` + "`" + `append_to_collector` + "`" + ` adds one entry to the end of the note:

` + "```" + `markdown

2025-01-20 14:32
the appended content
` + "```" + `

- Every entry starts with a blank separator line; you never add it yourself.
- The timestamp line only appears when the ` + "`" + `add_timestamp` + "`" + ` setting is on.
- Appends are queued and executed strictly in order. A failed append is
  reported but does not block later appends.

## Archiving

` + "`" + `archive_collector` + "`" + ` snapshots the collector into a new note and empties
the collector afterwards:

- The title becomes the filename: unsafe characters (` + "`" + `\ / : * ? " < > |` + "`" + `)
  are replaced with ` + "`" + `-` + "`" + ` and surrounding whitespace is trimmed.
- An empty title falls back to a date placeholder (e.g. ` + "`" + `2025-01-20 14-32` + "`" + `).
- The archive lands in the configured destination folder and never
  overwrites an existing note; pick a different title on conflict.

## Rules

1. Read before you archive: archiving empties the collector.
2. Do not re-append content that ` + "`" + `collector_history` + "`" + ` already shows as
   archived; open the archive note instead.
3. Keep entries self-contained. The collector has no structure beyond the
   blank-line separators, so an entry should make sense on its own.
`
