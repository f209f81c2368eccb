package compdb

// Separator ends the flag portion of a recorded command line.
const Separator = "--"

// Resolver derives front-end arguments per file. A Resolver without a
// database resolves every file to no arguments.
type Resolver struct {
	db     *Database
	rebase bool
}

// NewResolver returns a Resolver backed by db, which may be nil.
func NewResolver(db *Database) *Resolver {
	return &Resolver{db: db}
}

// RebasePaths returns a Resolver that also rewrites relative include and
// sysroot operands against each command's recorded directory. Without it
// they resolve against the working directory clang runs in.
func (r *Resolver) RebasePaths() *Resolver {
	if r == nil {
		return nil
	}
	return &Resolver{db: r.db, rebase: true}
}

// ArgumentsFor concatenates the arguments of every command recorded for
// path, drops the leading compiler token and truncates at Separator.
// It never fails; unknown files resolve to an empty list.
func (r *Resolver) ArgumentsFor(path string) []string {
	if r == nil || r.db == nil {
		return []string{}
	}

	var all []string
	for _, cmd := range r.db.Commands(path) {
		if r.rebase {
			all = append(all, rebase(cmd.Arguments, cmd.Directory)...)
			continue
		}
		all = append(all, cmd.Arguments...)
	}
	if len(all) == 0 {
		return []string{}
	}

	args := all[1:]
	for i, a := range args {
		if a == Separator {
			args = args[:i]
			break
		}
	}
	out := make([]string, len(args))
	copy(out, args)
	return out
}
