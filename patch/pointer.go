package patch

import (
	"fmt"
	"strconv"
	"strings"
)

// parsePointer splits a JSON Pointer into its unescaped tokens. The
// empty string names the document root and parses to a nil slice.
func parsePointer(p string) ([]string, error) {
	if p == "" {
		return nil, nil
	}
	if !strings.HasPrefix(p, "/") {
		return nil, fmt.Errorf("pointer %q must start with '/'", p)
	}
	raw := strings.Split(p[1:], "/")
	tokens := make([]string, len(raw))
	for i, t := range raw {
		t = strings.ReplaceAll(t, "~1", "/")
		t = strings.ReplaceAll(t, "~0", "~")
		tokens[i] = t
	}
	return tokens, nil
}

// arrayIndex resolves a pointer token against an array of length n. The
// "-" token names one past the end, valid only for insertion.
func arrayIndex(tok string, n int, forInsert bool) (int, error) {
	if tok == "-" {
		if !forInsert {
			return 0, fmt.Errorf("index '-' is only valid for add")
		}
		return n, nil
	}
	idx, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("invalid array index %q", tok)
	}
	max := n - 1
	if forInsert {
		max = n
	}
	if idx < 0 || idx > max {
		return 0, fmt.Errorf("array index %d out of range (length %d)", idx, n)
	}
	return idx, nil
}

// getAt resolves tokens against root and returns the value found there.
func getAt(root interface{}, tokens []string) (interface{}, error) {
	if len(tokens) == 0 {
		return root, nil
	}
	tok, rest := tokens[0], tokens[1:]
	switch n := root.(type) {
	case map[string]interface{}:
		child, ok := n[tok]
		if !ok {
			return nil, fmt.Errorf("member %q not found", tok)
		}
		return getAt(child, rest)
	case []interface{}:
		idx, err := arrayIndex(tok, len(n), false)
		if err != nil {
			return nil, err
		}
		return getAt(n[idx], rest)
	default:
		return nil, fmt.Errorf("cannot descend into scalar at %q", tok)
	}
}

// replaceAt sets the value already present at tokens, erroring if the
// target member or index does not already exist. Used by "replace" and
// "test".
func replaceAt(root interface{}, tokens []string, value interface{}) (interface{}, error) {
	if len(tokens) == 0 {
		return value, nil
	}
	return mutateLast(root, tokens, func(container interface{}, tok string) (interface{}, error) {
		switch c := container.(type) {
		case map[string]interface{}:
			if _, ok := c[tok]; !ok {
				return nil, fmt.Errorf("member %q not found", tok)
			}
			c[tok] = value
			return c, nil
		case []interface{}:
			idx, err := arrayIndex(tok, len(c), false)
			if err != nil {
				return nil, err
			}
			c[idx] = value
			return c, nil
		default:
			return nil, fmt.Errorf("cannot descend into scalar at %q", tok)
		}
	})
}

// insertAt inserts value at tokens: sets a new object member, or inserts
// (shifting) into an array, supporting the "-" append marker.
func insertAt(root interface{}, tokens []string, value interface{}) (interface{}, error) {
	if len(tokens) == 0 {
		return value, nil
	}
	return mutateLast(root, tokens, func(container interface{}, tok string) (interface{}, error) {
		switch c := container.(type) {
		case map[string]interface{}:
			c[tok] = value
			return c, nil
		case []interface{}:
			idx, err := arrayIndex(tok, len(c), true)
			if err != nil {
				return nil, err
			}
			out := make([]interface{}, 0, len(c)+1)
			out = append(out, c[:idx]...)
			out = append(out, value)
			out = append(out, c[idx:]...)
			return out, nil
		default:
			return nil, fmt.Errorf("cannot descend into scalar at %q", tok)
		}
	})
}

// removeAt removes the value at tokens and returns the new root plus the
// removed value.
func removeAt(root interface{}, tokens []string) (interface{}, interface{}, error) {
	if len(tokens) == 0 {
		return nil, root, nil
	}
	var removed interface{}
	newRoot, err := mutateLast(root, tokens, func(container interface{}, tok string) (interface{}, error) {
		switch c := container.(type) {
		case map[string]interface{}:
			v, ok := c[tok]
			if !ok {
				return nil, fmt.Errorf("member %q not found", tok)
			}
			removed = v
			delete(c, tok)
			return c, nil
		case []interface{}:
			idx, err := arrayIndex(tok, len(c), false)
			if err != nil {
				return nil, err
			}
			removed = c[idx]
			out := make([]interface{}, 0, len(c)-1)
			out = append(out, c[:idx]...)
			out = append(out, c[idx+1:]...)
			return out, nil
		default:
			return nil, fmt.Errorf("cannot descend into scalar at %q", tok)
		}
	})
	return newRoot, removed, err
}

// mutateLast walks tokens[:len-1] down from root, applies fn to the
// parent container holding tokens[last], and splices the (possibly
// reallocated, for arrays) result back up through every ancestor.
func mutateLast(root interface{}, tokens []string, fn func(container interface{}, lastTok string) (interface{}, error)) (interface{}, error) {
	if len(tokens) == 1 {
		return fn(root, tokens[0])
	}
	tok, rest := tokens[0], tokens[1:]
	switch n := root.(type) {
	case map[string]interface{}:
		child, ok := n[tok]
		if !ok {
			return nil, fmt.Errorf("member %q not found", tok)
		}
		newChild, err := mutateLast(child, rest, fn)
		if err != nil {
			return nil, err
		}
		n[tok] = newChild
		return n, nil
	case []interface{}:
		idx, err := arrayIndex(tok, len(n), false)
		if err != nil {
			return nil, err
		}
		newChild, err := mutateLast(n[idx], rest, fn)
		if err != nil {
			return nil, err
		}
		n[idx] = newChild
		return n, nil
	default:
		return nil, fmt.Errorf("cannot descend into scalar at %q", tok)
	}
}
