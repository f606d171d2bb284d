package parse

import (
	"errors"
	"fmt"
)

var (
	ErrParse = errors.New("parse error")
	ErrYAML  = fmt.Errorf("%w: yaml", ErrParse)
)
