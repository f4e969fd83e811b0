package sqlgen

// StringLiterals returns the unescaped contents of every single-quoted
// literal in stmt, in order of appearance. Unterminated trailing literals
// are ignored.
func StringLiterals(stmt string) []string {
	var out []string
	for i := 0; i < len(stmt); i++ {
		if stmt[i] != '\'' {
			continue
		}
		end := -1
		for j := i + 1; j < len(stmt); j++ {
			if stmt[j] != '\'' {
				continue
			}
			if j+1 < len(stmt) && stmt[j+1] == '\'' {
				j++
				continue
			}
			end = j
			break
		}
		if end < 0 {
			break
		}
		// bounds come from the scan above, so Unquote cannot fail
		s, _ := Unquote(stmt[i : end+1])
		out = append(out, s)
		i = end
	}
	return out
}
