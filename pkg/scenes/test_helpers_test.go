package scenes

import (
	"bytes"
	"log"
	"os"
	"strings"
	"testing"
)

// sceneLog 测试期间捕获的日志
type sceneLog struct {
	buf bytes.Buffer
}

// captureSceneLog 在测试期间捕获日志，结束时恢复
func captureSceneLog(t *testing.T) *sceneLog {
	t.Helper()
	l := &sceneLog{}
	log.SetOutput(&l.buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return l
}

func (l *sceneLog) contains(substr string) bool {
	return strings.Contains(l.buf.String(), substr)
}
