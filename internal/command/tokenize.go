package command

import (
	"strings"
	"unicode"
)

// Tokenize делит строку по пробельным символам. Двойные кавычки группируют
// пробелы в один токен и удаляются; экранирования нет. Кавычки внутри слова
// склеиваются с ним: --author="Ann Lee" -> `--author=Ann Lee`.
// Незакрытая кавычка тянется до конца строки.
func Tokenize(s string) []string {
	var (
		out     []string
		cur     strings.Builder
		inQuote bool
		started bool
	)

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case unicode.IsSpace(r) && !inQuote:
			if started {
				out = append(out, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}

	if started {
		out = append(out, cur.String())
	}

	return out
}
