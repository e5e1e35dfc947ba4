package scenes

import (
	"testing"
)

func TestApplyCommands(t *testing.T) {
	s := newTestScene(t, noBarrierConfig(), Options{})
	runUntil(t, s, 65, 10000)

	// 向左两次：计划轨道 3 -> 2 -> 1
	for i := 0; i < 2; i++ {
		if err := s.Apply(Command{Kind: CommandShiftLeft}); err != nil {
			t.Fatalf("Apply(ShiftLeft) error: %v", err)
		}
	}
	if got := s.PlannedTrack(); got != 1 {
		t.Errorf("PlannedTrack() = %d, want 1", got)
	}

	// 已在最左侧，继续向左被忽略
	s.Apply(Command{Kind: CommandShiftLeft})
	if got := s.PlannedTrack(); got != 1 {
		t.Errorf("PlannedTrack() after extra shift = %d, want 1", got)
	}

	s.Apply(Command{Kind: CommandSelectTrack, Track: 5})
	s.Apply(Command{Kind: CommandShiftRight})
	if got := s.PlannedTrack(); got != 5 {
		t.Errorf("PlannedTrack() = %d, want 5", got)
	}
	if pending := s.Pending(); len(pending) != 1 {
		t.Errorf("later requests should replace earlier ones, got %+v", pending)
	}

	s.Apply(Command{Kind: CommandTogglePause})
	if !s.Progression().IsPaused {
		t.Error("TogglePause command should pause")
	}

	if err := s.Apply(Command{Kind: CommandRestart}); err != nil {
		t.Fatalf("Apply(Restart) error: %v", err)
	}
	if s.Progression().IsPaused || s.Trolley().Position.Z != 0 {
		t.Error("Restart command should start a fresh run")
	}

	if err := s.Apply(Command{Kind: CommandQuit}); err != ErrQuit {
		t.Errorf("Apply(Quit) = %v, want ErrQuit", err)
	}
}
