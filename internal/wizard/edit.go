package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
	"github.com/jonathan/resume-builder/internal/types"
)

// Edit operations accepted by ParseEdit and the preview server
const (
	OpSet      = "set"
	OpAdd      = "add"
	OpRemove   = "remove"
	OpMove     = "move"
	OpSkill    = "skill"
	OpUnskill  = "unskill"
	OpTemplate = "template"
)

// Edit is the wire form of one document mutation
type Edit struct {
	Op       string `json:"op"`
	Section  string `json:"section,omitempty"`
	Path     string `json:"path,omitempty"`
	Value    string `json:"value,omitempty"`
	Index    int    `json:"index,omitempty"`
	From     int    `json:"from,omitempty"`
	To       int    `json:"to,omitempty"`
	Token    string `json:"token,omitempty"`
	Template string `json:"template,omitempty"`
}

// Mutation converts the edit into a document mutation
func (e Edit) Mutation() (document.Mutation, error) {
	switch strings.ToLower(e.Op) {
	case OpSet:
		if e.Section == "" || e.Path == "" {
			return document.Mutation{}, fmt.Errorf("set needs a section and a path")
		}
		return document.SetFieldOp(e.Section, e.Path, e.Value), nil
	case OpAdd:
		return document.AddEntryOp(e.Section), nil
	case OpRemove:
		return document.RemoveEntryOp(e.Section, e.Index), nil
	case OpMove:
		return document.ReorderEntryOp(e.Section, e.From, e.To), nil
	case OpSkill:
		return document.AddSkillOp(e.Token), nil
	case OpUnskill:
		return document.RemoveSkillOp(e.Token), nil
	case OpTemplate:
		return document.SelectTemplateOp(types.TemplateID(e.Template)), nil
	default:
		return document.Mutation{}, fmt.Errorf("unknown edit %q", e.Op)
	}
}

// ParseEdit reads the shell form of an edit:
//
//	set <section> <path> <value...>
//	add <section>
//	rm <section> <index>
//	mv <section> <from> <to>
//	skill <token...>
//	unskill <token...>
//	template <id>
//
// Everything after the path of a set, and after skill/unskill, is taken verbatim so
// values may contain spaces.
func ParseEdit(line string) (Edit, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Edit{}, fmt.Errorf("empty edit")
	}
	verb := strings.ToLower(fields[0])
	args := fields[1:]
	rest := func(n int) string {
		// the text after the first n+1 words, spacing inside the value preserved
		s := strings.TrimSpace(line)
		for range n + 1 {
			s = strings.TrimLeft(s, " \t")
			if i := strings.IndexAny(s, " \t"); i >= 0 {
				s = s[i:]
			} else {
				return ""
			}
		}
		return strings.TrimSpace(s)
	}

	switch verb {
	case OpSet:
		if len(args) < 2 {
			return Edit{}, fmt.Errorf("usage: set <section> <path> <value>")
		}
		return Edit{Op: OpSet, Section: args[0], Path: args[1], Value: rest(2)}, nil
	case OpAdd:
		if len(args) != 1 {
			return Edit{}, fmt.Errorf("usage: add <section>")
		}
		return Edit{Op: OpAdd, Section: args[0]}, nil
	case "rm", OpRemove:
		if len(args) != 2 {
			return Edit{}, fmt.Errorf("usage: rm <section> <index>")
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return Edit{}, fmt.Errorf("invalid index %q", args[1])
		}
		return Edit{Op: OpRemove, Section: args[0], Index: index}, nil
	case "mv", OpMove:
		if len(args) != 3 {
			return Edit{}, fmt.Errorf("usage: mv <section> <from> <to>")
		}
		from, err := strconv.Atoi(args[1])
		if err != nil {
			return Edit{}, fmt.Errorf("invalid index %q", args[1])
		}
		to, err := strconv.Atoi(args[2])
		if err != nil {
			return Edit{}, fmt.Errorf("invalid index %q", args[2])
		}
		return Edit{Op: OpMove, Section: args[0], From: from, To: to}, nil
	case OpSkill, OpUnskill:
		if len(args) == 0 {
			return Edit{}, fmt.Errorf("usage: %s <name>", verb)
		}
		return Edit{Op: verb, Token: rest(0)}, nil
	case OpTemplate:
		if len(args) != 1 {
			return Edit{}, fmt.Errorf("usage: template <%s>", joinTemplates())
		}
		return Edit{Op: OpTemplate, Template: args[0]}, nil
	default:
		return Edit{}, fmt.Errorf("unknown edit %q", verb)
	}
}

func joinTemplates() string {
	ids := types.TemplateIDs()
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = string(id)
	}
	return strings.Join(names, "|")
}
