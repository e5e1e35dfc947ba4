package game

import (
	"bytes"
	"errors"
	"fmt"
	"log"

	"github.com/gonewx/trolley/pkg/utils"
	"github.com/google/uuid"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// ErrMalformedState 持久化状态损坏或不完整
var ErrMalformedState = errors.New("malformed persisted state")

// PersistedRecord 持久化的扁平进度记录（纯键值数据）
type PersistedRecord struct {
	RunID                string `yaml:"runId"`
	Score                int    `yaml:"score"`
	PeopleHit            int    `yaml:"peopleHit"`
	PeopleAvoided        int    `yaml:"peopleAvoided"`
	CurrentSegment       int    `yaml:"currentSegment"`
	CurrentTrackPosition int    `yaml:"currentTrackPosition"`
	IsGameOver           bool   `yaml:"isGameOver"`
	IsPaused             bool   `yaml:"isPaused"`
	HitBarrier           bool   `yaml:"hitBarrier"`
}

// requiredRecordKeys 反序列化时必须出现的键（runId 可选）
var requiredRecordKeys = []string{
	"score",
	"peopleHit",
	"peopleAvoided",
	"currentSegment",
	"currentTrackPosition",
	"isGameOver",
	"isPaused",
	"hitBarrier",
}

// 存储路径常量
const (
	progressObject   = "progress"
	lastRunProperty  = "last"
	bestRunProperty  = "best"
	defaultStoreName = "trolley_runner"
)

// EncodeProgression 将记录序列化为 YAML
func EncodeProgression(rec PersistedRecord) ([]byte, error) {
	data, err := yaml.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal progression: %w", err)
	}
	return data, nil
}

// DecodeProgression 从 YAML 反序列化记录
//
// 以下情况返回 ErrMalformedState：
//   - YAML 无法解析或不是键值映射
//   - 缺少必需的键或出现未知的键
//   - 计数为负数、轨道编号小于 1、runId 不是合法 UUID
func DecodeProgression(data []byte) (PersistedRecord, error) {
	var rec PersistedRecord

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return rec, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}
	if raw == nil {
		return rec, fmt.Errorf("%w: empty document", ErrMalformedState)
	}
	for _, key := range requiredRecordKeys {
		if _, ok := raw[key]; !ok {
			return rec, fmt.Errorf("%w: missing key %q", ErrMalformedState, key)
		}
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&rec); err != nil {
		return PersistedRecord{}, fmt.Errorf("%w: %v", ErrMalformedState, err)
	}

	if rec.PeopleHit < 0 || rec.PeopleAvoided < 0 || rec.CurrentSegment < 0 {
		return PersistedRecord{}, fmt.Errorf("%w: negative counter", ErrMalformedState)
	}
	if rec.CurrentTrackPosition < 1 {
		return PersistedRecord{}, fmt.Errorf("%w: currentTrackPosition must be >= 1, got %d",
			ErrMalformedState, rec.CurrentTrackPosition)
	}
	if rec.RunID != "" {
		if _, err := uuid.Parse(rec.RunID); err != nil {
			return PersistedRecord{}, fmt.Errorf("%w: invalid runId: %v", ErrMalformedState, err)
		}
	}

	return rec, nil
}

// bestRecord 最佳成绩记录
type bestRecord struct {
	BestScore int    `yaml:"bestScore"`
	RunID     string `yaml:"runId"`
}

// OpenStorage 打开 gdata 跨平台存储
//
// 失败时返回 nil（降级模式，仅内存状态），游戏仍可运行。
func OpenStorage(appName string) *gdata.Manager {
	if appName == "" {
		appName = defaultStoreName
	}
	if err := utils.EnsureStorageDir(); err != nil {
		log.Printf("[StateStore] Warning: %v", err)
	}
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		log.Printf("[StateStore] Warning: Failed to open gdata storage: %v (running without persistence)", err)
		return nil
	}
	return manager
}

// StateStore 进度存储
//
// 职责：
//   - 保存/加载最近一局的进度记录
//   - 维护最佳成绩
//
// gdataManager 为 nil 时进入降级模式：保存为空操作，加载返回默认记录。
type StateStore struct {
	gdataManager *gdata.Manager
	defaults     PersistedRecord
	best         bestRecord
}

// NewStateStore 创建进度存储
//
// 参数：
//   - gdataManager: gdata 存储管理器，可为 nil（降级模式）
//   - defaults: 加载失败时回退使用的默认记录
func NewStateStore(gdataManager *gdata.Manager, defaults PersistedRecord) *StateStore {
	ss := &StateStore{
		gdataManager: gdataManager,
		defaults:     defaults,
	}
	ss.loadBest()
	return ss
}

// Save 保存进度记录
func (ss *StateStore) Save(rec PersistedRecord) error {
	if ss.gdataManager == nil {
		return nil
	}

	data, err := EncodeProgression(rec)
	if err != nil {
		return err
	}
	if err := ss.gdataManager.SaveObjectProp(progressObject, lastRunProperty, data); err != nil {
		return fmt.Errorf("failed to save progression: %w", err)
	}

	log.Printf("[StateStore] Saved run %s: score=%d, segment=%d", rec.RunID, rec.Score, rec.CurrentSegment)
	return nil
}

// Load 加载最近一局的进度记录
//
// 从不返回错误：文件不存在时使用默认记录；
// 记录损坏时记录错误日志并回退到默认记录。
func (ss *StateStore) Load() PersistedRecord {
	if ss.gdataManager == nil {
		return ss.defaults
	}
	if !ss.gdataManager.ObjectPropExists(progressObject, lastRunProperty) {
		return ss.defaults
	}

	data, err := ss.gdataManager.LoadObjectProp(progressObject, lastRunProperty)
	if err != nil {
		log.Printf("[StateStore] ERROR: failed to load progression: %v (using defaults)", err)
		return ss.defaults
	}

	return ss.decodeOrDefault(data)
}

// decodeOrDefault 反序列化记录，失败时回退到默认记录
func (ss *StateStore) decodeOrDefault(data []byte) PersistedRecord {
	rec, err := DecodeProgression(data)
	if err != nil {
		log.Printf("[StateStore] ERROR: %v (using defaults)", err)
		return ss.defaults
	}
	return rec
}

// BestScore 返回最佳成绩
func (ss *StateStore) BestScore() int {
	return ss.best.BestScore
}

// RecordBest 提交一局成绩，超过最佳成绩时保存
//
// 返回：
//   - bool: 是否刷新了最佳成绩
//   - error: 保存失败时返回错误
func (ss *StateStore) RecordBest(rec PersistedRecord) (bool, error) {
	if rec.Score <= ss.best.BestScore && ss.best.RunID != "" {
		return false, nil
	}
	ss.best = bestRecord{BestScore: rec.Score, RunID: rec.RunID}

	if ss.gdataManager == nil {
		return true, nil
	}
	data, err := yaml.Marshal(ss.best)
	if err != nil {
		return true, fmt.Errorf("failed to marshal best score: %w", err)
	}
	if err := ss.gdataManager.SaveObjectProp(progressObject, bestRunProperty, data); err != nil {
		return true, fmt.Errorf("failed to save best score: %w", err)
	}
	log.Printf("[StateStore] New best score %d (run %s)", rec.Score, rec.RunID)
	return true, nil
}

// loadBest 加载最佳成绩（失败时保持为 0）
func (ss *StateStore) loadBest() {
	if ss.gdataManager == nil || !ss.gdataManager.ObjectPropExists(progressObject, bestRunProperty) {
		return
	}
	data, err := ss.gdataManager.LoadObjectProp(progressObject, bestRunProperty)
	if err != nil {
		log.Printf("[StateStore] Warning: failed to load best score: %v", err)
		return
	}
	var best bestRecord
	if err := yaml.Unmarshal(data, &best); err != nil {
		log.Printf("[StateStore] ERROR: best score record malformed: %v", err)
		return
	}
	ss.best = best
}
