// Package testutil holds helpers shared by tests of several packages.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/session"
)

// Entry is one message recorded by Logger.
type Entry struct {
	Level string
	Msg   string
	Args  []interface{}
}

// Logger records messages instead of printing them.
type Logger struct {
	mu      sync.Mutex
	entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) log(level, msg string, args []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, Entry{Level: level, Msg: msg, Args: args})
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("debug", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("info", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("warn", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("error", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) { l.log("fatal", msg, args) }

// Entries returns the messages logged at level, or all of them when level is empty.
func (l *Logger) Entries(level string) []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, 0, len(l.entries))
	for _, e := range l.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Login stores a session for a user of role and returns it.
func Login(t *testing.T, prov *session.Provider, role session.Role, name ...string) session.Session {
	fullName := "Test " + role.String()
	if len(name) > 0 {
		fullName = name[0]
	}
	ident := session.Identity{
		UserID:   fmt.Sprintf("%d", time.Now().UnixNano()),
		FullName: fullName,
		Role:     role.String(),
	}
	sess, err := prov.Login(context.Background(), ident, "token-"+role.String())
	if err != nil {
		t.Fatalf("Login() failed: %v", err)
	}
	return sess
}
