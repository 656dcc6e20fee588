package serialize

import (
	"sort"
	"strings"

	"github.com/lex00/wetwire-mkdocs-go/intrinsics"
)

// Reference is a logical name used by a property tree, through Ref,
// Fn::GetAtt or an Fn::Sub placeholder. Attribute is empty for Ref.
type Reference struct {
	Name      string
	Attribute string
}

// References walks a serialized property tree and returns every logical
// name it refers to, in first-seen order without duplicates.
// Pseudo-parameters (AWS::Region, ...) are not references, and neither
// are ${!Literal} escapes or the local variables of an Fn::Sub map.
func References(tree any) []Reference {
	w := &walker{seen: make(map[Reference]bool)}
	w.walk(tree)
	return w.refs
}

type walker struct {
	refs []Reference
	seen map[Reference]bool
}

func (w *walker) add(name, attr string) {
	if name == "" || intrinsics.IsPseudoParameter(name) {
		return
	}
	ref := Reference{Name: name, Attribute: attr}
	if w.seen[ref] {
		return
	}
	w.seen[ref] = true
	w.refs = append(w.refs, ref)
}

func (w *walker) walk(node any) {
	switch v := node.(type) {
	case map[string]any:
		if len(v) == 1 && w.intrinsic(v) {
			return
		}
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			w.walk(v[k])
		}
	case []any:
		for _, item := range v {
			w.walk(item)
		}
	}
}

// intrinsic handles a single-key map that is a reference-carrying
// intrinsic. It reports false for anything else.
func (w *walker) intrinsic(m map[string]any) bool {
	if ref, ok := m["Ref"]; ok {
		if name, ok := ref.(string); ok {
			w.add(name, "")
			return true
		}
		return false
	}

	if att, ok := m["Fn::GetAtt"]; ok {
		switch v := att.(type) {
		case []any:
			if len(v) == 2 {
				name, _ := v[0].(string)
				attr, _ := v[1].(string)
				w.add(name, attr)
				return true
			}
		case string:
			name, attr, _ := strings.Cut(v, ".")
			w.add(name, attr)
			return true
		}
		return false
	}

	if sub, ok := m["Fn::Sub"]; ok {
		switch v := sub.(type) {
		case string:
			for _, p := range Placeholders(v) {
				w.add(p.Name, p.Attribute)
			}
			return true
		case []any:
			if len(v) == 0 {
				return false
			}
			body, _ := v[0].(string)
			locals := map[string]any{}
			if len(v) > 1 {
				if vars, ok := v[1].(map[string]any); ok {
					locals = vars
				}
			}
			for _, p := range Placeholders(body) {
				if _, local := locals[p.Name]; local && p.Attribute == "" {
					continue
				}
				w.add(p.Name, p.Attribute)
			}
			w.walk(locals)
			return true
		}
		return false
	}

	return false
}

// Placeholders parses the ${Name} and ${Name.Attribute} variables of an
// Fn::Sub string. ${!Literal} escapes are skipped.
func Placeholders(s string) []Reference {
	var out []Reference
	for {
		start := strings.Index(s, "${")
		if start < 0 {
			return out
		}
		s = s[start+2:]
		end := strings.Index(s, "}")
		if end < 0 {
			return out
		}
		body := s[:end]
		s = s[end+1:]
		if body == "" || strings.HasPrefix(body, "!") {
			continue
		}
		name, attr, _ := strings.Cut(body, ".")
		out = append(out, Reference{Name: name, Attribute: attr})
	}
}
