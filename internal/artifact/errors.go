package artifact

import (
	"errors"
	"fmt"
	"strings"
)

// ErrState is returned when an Assembler step is called out of order.
var ErrState = errors.New("assembler step called out of order")

// AmbiguityError reports an artifact matched by more than one module.
type AmbiguityError struct {
	Artifact string
	Modules  []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("artifact %s matches several modules: %s", e.Artifact, strings.Join(e.Modules, ", "))
}
