package store

import (
	"bytes"
	"io"

	"github.com/charmbracelet/log"
)

func quietLogger() *log.Logger { return log.New(&bytes.Buffer{}) }

func newBufferLogger(w io.Writer) *log.Logger { return log.New(w) }
