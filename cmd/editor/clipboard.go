package main

import (
	"github.com/sirupsen/logrus"
	"golang.design/x/clipboard"
)

// clipboardSink wraps the system clipboard. When the platform clipboard is
// unavailable it keeps the last copy in memory instead.
type clipboardSink struct {
	system bool
	local  []byte
}

func newClipboardSink(log logrus.FieldLogger) *clipboardSink {
	if err := clipboard.Init(); err != nil {
		log.WithError(err).Warn("system clipboard unavailable, copy/paste stays inside the editor")
		return &clipboardSink{}
	}
	return &clipboardSink{system: true}
}

func (c *clipboardSink) Write(data []byte) {
	c.local = append(c.local[:0], data...)
	if c.system {
		clipboard.Write(clipboard.FmtText, data)
	}
}

func (c *clipboardSink) Read() []byte {
	if c.system {
		if data := clipboard.Read(clipboard.FmtText); len(data) > 0 {
			return data
		}
	}
	return c.local
}
