package logging

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	log "github.com/sirupsen/logrus"
)

// CommandLineFormatter prints bare messages for info and debug entries and prefixes warnings and errors with their
// level. Fields are appended as key=value, except the stacktrace which is only printed at debug level.
type CommandLineFormatter struct{}

func (f *CommandLineFormatter) Format(entry *log.Entry) ([]byte, error) {
	b := &bytes.Buffer{}
	if entry.Level <= log.WarnLevel {
		b.WriteString(strings.ToUpper(entry.Level.String()))
		b.WriteString(": ")
	}
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k == Stacktrace {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')

	if stack, ok := entry.Data[Stacktrace]; ok && entry.Logger != nil && entry.Logger.IsLevelEnabled(log.DebugLevel) {
		fmt.Fprintf(b, "%+v\n", stack)
	}
	return b.Bytes(), nil
}
