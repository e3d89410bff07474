package memory

import (
	"context"
	"testing"
	"time"

	"designrage/internal/game"
	"designrage/internal/profile"
)

func TestStore_StateRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	st := game.NewState()
	st.Phase = game.PhasePlaying
	st.Score = 12
	blob, err := game.MarshalState(st)
	if err != nil {
		t.Fatalf("MarshalState: %v", err)
	}
	if err := s.SaveState(ctx, "k", blob); err != nil {
		t.Fatalf("SaveState: %v", err)
	}
	blob[0] = 'X' // caller mutation must not leak into the store

	got, ok, err := s.LoadState(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("LoadState: ok=%v err=%v", ok, err)
	}
	loaded, err := game.UnmarshalState(got)
	if err != nil {
		t.Fatalf("UnmarshalState: %v", err)
	}
	if loaded.Score != 12 || loaded.Phase != game.PhasePlaying {
		t.Errorf("Unexpected state: %+v", loaded)
	}

	if err := s.DeleteState(ctx, "k"); err != nil {
		t.Fatalf("DeleteState: %v", err)
	}
	if _, ok, _ := s.LoadState(ctx, "k"); ok {
		t.Error("Expected state gone after delete")
	}
}

func TestStore_Profiles(t *testing.T) {
	s := New()
	ctx := context.Background()
	if _, ok, _ := s.LoadProfile(ctx, "u"); ok {
		t.Error("Expected no profile yet")
	}
	p := profile.New("sam", time.Now())
	if err := s.SaveProfile(ctx, "u", p); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}
	got, ok, err := s.LoadProfile(ctx, "u")
	if err != nil || !ok || got.Username != "sam" {
		t.Errorf("Unexpected profile: %+v ok=%v err=%v", got, ok, err)
	}
}
