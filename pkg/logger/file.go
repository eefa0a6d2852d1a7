package logger

import (
	"io"
	"math"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// NewFile returns a logger that appends to path. The file is never rotated:
// a new file only appears when the caller computes a different path, which
// happens once per process start.
func NewFile(level, path string, mirrorStdout bool) (*Logger, io.Closer) {
	sink := &lumberjack.Logger{
		Filename:  path,
		MaxSize:   math.MaxInt32,
		LocalTime: true,
	}

	var w io.Writer = sink
	if mirrorStdout {
		w = io.MultiWriter(sink, os.Stdout)
	}

	return NewWithWriter(level, w), sink
}
