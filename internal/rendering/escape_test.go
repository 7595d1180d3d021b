package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "plain", in: "Senior Engineer, Acme", want: "Senior Engineer, Acme"},
		{name: "backslash", in: `C:\work`, want: `C:\textbackslash{}work`},
		{name: "braces", in: "{braces}", want: `\{braces\}`},
		{name: "dollar and percent", in: "Cut $2M in cost by 15%", want: `Cut \$2M in cost by 15\%`},
		{name: "ampersand", in: "R&D", want: `R\&D`},
		{name: "hash", in: "C#", want: `C\#`},
		{name: "caret and tilde", in: "x^2 ~ y", want: `x\textasciicircum{}2 \textasciitilde{} y`},
		{name: "underscore", in: "snake_case", want: `snake\_case`},
		{name: "skill bullet", in: "Go • SQL", want: `Go \textbullet{} SQL`},
		{name: "middle dot", in: "a · b", want: `a \textperiodcentered{} b`},
		{name: "unicode passes through", in: "Zoë Müller, São Paulo", want: "Zoë Müller, São Paulo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}
