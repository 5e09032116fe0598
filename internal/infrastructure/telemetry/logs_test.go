package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestMinLevelCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &minLevelCore{Core: inner, floor: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))

	for _, lvl := range []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel, zapcore.WarnLevel, zapcore.ErrorLevel} {
		entry := zapcore.Entry{Level: lvl, Message: lvl.String()}
		if ce := core.Check(entry, nil); ce != nil {
			ce.Write()
		}
	}
	assert.Equal(t, 2, logs.Len())

	child := core.With([]zapcore.Field{{Key: "tenant_id", Type: zapcore.StringType, String: "t1"}})
	_, ok := child.(*minLevelCore)
	assert.True(t, ok, "With must keep the level floor")
	assert.False(t, child.Enabled(zapcore.InfoLevel))
}

