package logsvc

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/session"
)

func TestRollbarLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewRollbarLogger(log.New(&buf, "", 0), core.NewTestConfig())

	sess := session.Session{ID: "s1", UserID: "7", FullName: "Jane Doe", Role: session.RoleAccountant, Token: "secret-token"}
	logger.Error("adding payment", assert.AnError, sess)

	out := buf.String()
	assert.Contains(t, out, "ERROR: adding payment")
	assert.Contains(t, out, assert.AnError.Error())
	assert.NotContains(t, out, "secret-token")
}

func TestRollbarLogger_prepare(t *testing.T) {
	logger := RollbarLogger{std: log.New(&bytes.Buffer{}, "", 0)}
	sess := session.Session{ID: "s1", UserID: "7", Role: session.RoleAdmin, Token: "tok"}
	extra := map[string]interface{}{"record": 3}

	tests := []struct {
		name string
		args []interface{}
		want []interface{}
	}{
		{name: "no args", want: []interface{}{"msg"}},
		{name: "error and data", args: []interface{}{assert.AnError, extra}, want: []interface{}{"msg", assert.AnError, extra}},
		{
			name: "session is replaced by its role",
			args: []interface{}{&sess, assert.AnError, sess},
			want: []interface{}{"msg", map[string]interface{}{"role": "admin"}, assert.AnError},
		},
		{name: "nil session is dropped", args: []interface{}{(*session.Session)(nil)}, want: []interface{}{"msg"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logger.prepare("msg", tt.args))
		})
	}
}
