package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-2048/internal/core"
)

type fakeGame struct {
	id  string
	env Env
}

func (f *fakeGame) ID() string                           { return f.id }
func (f *fakeGame) Title() string                        { return "Fake " + f.id }
func (f *fakeGame) Reset(core.RuntimeConfig)             {}
func (f *fakeGame) Resize(int, int)                      {}
func (f *fakeGame) Step(core.InputFrame) core.StepResult { return core.StepResult{} }
func (f *fakeGame) Render(*core.Screen)                  {}
func (f *fakeGame) State() core.GameState                { return core.GameState{} }

func registerFake(id string) {
	Register(id, "Fake "+id, func(env Env) Game { return &fakeGame{id: id, env: env} })
}

func TestRegisterAndCreate(t *testing.T) {
	registerFake("test_fake_a")

	if !Exists("test_fake_a") {
		t.Fatal("registered game does not exist")
	}

	env := Env{Owner: "alice", StartLevel: 2}
	g, err := Create("test_fake_a", env)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	fg := g.(*fakeGame)
	if fg.env.Owner != "alice" || fg.env.StartLevel != 2 {
		t.Errorf("env not passed to factory: %+v", fg.env)
	}

	found := false
	for _, info := range List() {
		if info.ID == "test_fake_a" {
			found = true
			if info.Title != "Fake test_fake_a" {
				t.Errorf("title = %q", info.Title)
			}
		}
	}
	if !found {
		t.Error("List does not include the registered game")
	}
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("no_such_game", Env{}); !errors.Is(err, ErrUnknownGame) {
		t.Errorf("Create error = %v, want ErrUnknownGame", err)
	}
	if Exists("no_such_game") {
		t.Error("unknown id reported as existing")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	registerFake("test_fake_dup")

	defer func() {
		if recover() == nil {
			t.Error("duplicate registration should panic")
		}
	}()
	registerFake("test_fake_dup")
}

func TestListSorted(t *testing.T) {
	registerFake("test_fake_z")
	registerFake("test_fake_m")

	list := List()
	for i := 1; i < len(list); i++ {
		if list[i-1].ID > list[i].ID {
			t.Fatalf("List not sorted: %s before %s", list[i-1].ID, list[i].ID)
		}
	}
}

func TestKeyPrefix(t *testing.T) {
	tests := []struct {
		owner string
		want  string
	}{
		{"", "2048"},
		{"alice", "alice/2048"},
	}
	for _, tt := range tests {
		if got := (Env{Owner: tt.owner}).KeyPrefix("2048"); got != tt.want {
			t.Errorf("KeyPrefix(owner=%q) = %q, want %q", tt.owner, got, tt.want)
		}
	}
}
