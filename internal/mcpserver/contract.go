package mcpserver

// LinkSyntaxContract describes the note markup roamshare understands and how
// each construct is published.
const LinkSyntaxContract = `# roamshare Link Syntax

roamshare follows wikilinks outward from a seed note and can rewrite the
exported copies for the web. Only the four constructs below are recognized;
anything else passes through unchanged.

| Markup | Meaning | Published as |
|---|---|---|
| ` + "`[[Name]]`" + ` | link to the note ` + "`Name.md`" + ` | ` + "`[Name](prefix/name)`" + ` if exported, else ` + "`Name`" + ` |
| ` + "`[Label]([[Name]])`" + ` | aliased link | ` + "`[Label](prefix/name)`" + ` if exported, else ` + "`Label`" + ` |
| ` + "`__text__`" + ` | italics | ` + "`_text_`" + ` |
| ` + "`^^text^^`" + ` | highlight | ` + "`<mark>text</mark>`" + ` |

## Rules

1. Note names are case- and whitespace-sensitive. ` + "`[[My Note]]`" + ` refers to
   ` + "`My Note.md`" + ` in the input directory.
2. Link paths are the prefix, a slash, and the urlized name: lower-case with
   spaces replaced by hyphens (` + "`My Note`" + ` becomes ` + "`my-note`" + `).
3. Labels are kept verbatim; only targets are urlized.
4. A target that is not part of the export degrades to plain text so the
   published set never contains dangling links.
5. Without a prefix no rewriting happens at all.
`
