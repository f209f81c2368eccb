package commands

import (
	"fmt"
	"io"

	"github.com/leapstack-labs/cncc/pkg/core"
)

// ListKinds prints every declaration kind a rule may name, one per line,
// in sorted order.
func ListKinds(w io.Writer) error {
	for _, name := range core.KindNames() {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}
