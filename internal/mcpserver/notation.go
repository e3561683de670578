package mcpserver

const notationURI = "swara://notation"

// NotationGuide explains the sargam notation used in raga sheets.
const NotationGuide = `# Sargam Notation

Aaroh (ascent), avaroh (descent) and pakad (signature phrase) are written as
space-separated swaras.

| Swara | Name      |
|-------|-----------|
| S     | Shadja    |
| R     | Rishabh   |
| G     | Gandhar   |
| M     | Madhyam   |
| P     | Pancham   |
| D     | Dhaivat   |
| N     | Nishad    |

## Modifiers

- Uppercase is the natural (shuddha) swara.
- Lowercase marks the altered form: komal for ` + "`r g d n`" + `, the other
  madhyam for ` + "`m`" + `.
- A trailing apostrophe marks the upper octave: ` + "`S'`" + `.
- Commas separate the phrases of a pakad.
`
