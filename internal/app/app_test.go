package app

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, NewLogger("debug").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("").GetLevel())
	assert.Equal(t, logrus.InfoLevel, NewLogger("loud").GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, NewLogger("warn").Formatter)
}

func TestNewRNGs_Deterministic(t *testing.T) {
	e1, t1 := newRNGs(42)
	e2, t2 := newRNGs(42)

	assert.Equal(t, e1.Int63(), e2.Int63())
	assert.Equal(t, t1.Int63(), t2.Int63())

	e3, t3 := newRNGs(42)
	assert.NotEqual(t, e3.Int63(), t3.Int63())
}
