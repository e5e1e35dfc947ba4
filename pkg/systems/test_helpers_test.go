package systems

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/gonewx/trolley/pkg/components"
	"github.com/gonewx/trolley/pkg/config"
)

// errTestAttach 测试用的挂载失败错误
var errTestAttach = errors.New("test attach failure")

// recordingScene 记录 Attach/Detach 调用的测试场景
// failAfter > 0 时第 failAfter 次 Attach 返回 errTestAttach
type recordingScene struct {
	attached  map[*components.SceneObject]bool
	attaches  int
	detaches  int
	failAfter int
}

func newRecordingScene() *recordingScene {
	return &recordingScene{attached: make(map[*components.SceneObject]bool)}
}

func (r *recordingScene) Attach(obj *components.SceneObject) error {
	r.attaches++
	if r.failAfter > 0 && r.attaches >= r.failAfter {
		return errTestAttach
	}
	r.attached[obj] = true
	return nil
}

func (r *recordingScene) Detach(obj *components.SceneObject) {
	r.detaches++
	delete(r.attached, obj)
}

// live 返回当前挂载中的对象数量
func (r *recordingScene) live() int {
	return len(r.attached)
}

// newTestConfig 返回测试用的默认配置（固定种子）
func newTestConfig() *config.TrolleyConfig {
	cfg := config.DefaultConfig()
	cfg.RandomSeed = 42
	return cfg
}

// logCapture 捕获日志输出
type logCapture struct {
	buf bytes.Buffer
}

// captureLog 在测试期间捕获日志，结束时恢复
func captureLog(t *testing.T) *logCapture {
	t.Helper()
	lc := &logCapture{}
	log.SetOutput(&lc.buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })
	return lc
}

// count 返回包含子串的日志行数
func (lc *logCapture) count(substr string) int {
	n := 0
	for _, line := range strings.Split(lc.buf.String(), "\n") {
		if strings.Contains(line, substr) {
			n++
		}
	}
	return n
}
