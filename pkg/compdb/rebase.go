package compdb

import (
	"path/filepath"
	"strings"
)

// pathFlags take a path operand, either as the next argument or joined
// to the flag. Longer spellings come first so prefix matching picks them.
var pathFlags = []string{
	"-include-pch",
	"-include",
	"-imacros",
	"-isystem",
	"-isysroot",
	"-idirafter",
	"-iquote",
	"--sysroot",
	"-I",
	"-F",
}

// rebase rewrites the relative path operands of pathFlags against dir, so
// the arguments mean the same thing from any working directory. Arguments
// after Separator are left alone.
func rebase(args []string, dir string) []string {
	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == Separator {
			return append(out, args[i:]...)
		}

		flag, operand, joined := splitPathFlag(a)
		switch {
		case flag == "":
			out = append(out, a)
		case joined:
			out = append(out, joinOperand(a, flag, absUnder(dir, operand)))
		case i+1 < len(args):
			out = append(out, a, absUnder(dir, args[i+1]))
			i++
		default:
			out = append(out, a)
		}
	}
	return out
}

// splitPathFlag reports which path flag a starts with and its joined
// operand, if any.
func splitPathFlag(a string) (flag, operand string, joined bool) {
	for _, f := range pathFlags {
		if a == f {
			return f, "", false
		}
		if strings.HasPrefix(a, f) {
			rest := strings.TrimPrefix(a, f)
			if strings.HasPrefix(f, "--") {
				if !strings.HasPrefix(rest, "=") {
					continue
				}
				rest = rest[1:]
			}
			if rest == "" {
				continue
			}
			return f, rest, true
		}
	}
	return "", "", false
}

func joinOperand(original, flag, operand string) string {
	if strings.HasPrefix(original, flag+"=") {
		return flag + "=" + operand
	}
	return flag + operand
}

// absUnder joins a relative path onto dir. "-" and sysroot-relative
// ("=...") operands are kept as written.
func absUnder(dir, path string) string {
	if dir == "" || path == "-" || strings.HasPrefix(path, "=") || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}
