package rendering

import "strings"

// latexEscaper covers the LaTeX special characters and the separators layouts put
// between fields. Replacements are not rescanned, so the braces they add stay intact.
var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`{`, `\{`,
	`}`, `\}`,
	`$`, `\$`,
	`&`, `\&`,
	`%`, `\%`,
	`#`, `\#`,
	`^`, `\textasciicircum{}`,
	`_`, `\_`,
	`~`, `\textasciitilde{}`,
	`•`, `\textbullet{}`,
	`·`, `\textperiodcentered{}`,
)

// EscapeLaTeX makes text safe to place in a LaTeX document body
func EscapeLaTeX(text string) string {
	return latexEscaper.Replace(text)
}
