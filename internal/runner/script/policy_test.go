package script

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var testBase = Base{Interval: 1200 * time.Millisecond, Speed: 600}

func TestDefaultScript(t *testing.T) {
	p, err := Load("", testBase, nil)
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	defer p.Close()

	if got := p.Interval(0); got != testBase.Interval {
		t.Errorf("Interval(0) = %v, want %v", got, testBase.Interval)
	}
	if got := p.Speed(0); got != 600 {
		t.Errorf("Speed(0) = %v, want 600", got)
	}
	if got := p.Speed(10 * time.Second); got != 700 {
		t.Errorf("Speed(10s) = %v, want 700", got)
	}
	if got := p.Speed(time.Hour); got != 1200 {
		t.Errorf("Speed(1h) = %v, want cap 1200", got)
	}
	floor := time.Duration(0.6 * float64(testBase.Interval))
	if got := p.Interval(time.Hour); got < floor-time.Millisecond || got > floor+time.Millisecond {
		t.Errorf("Interval(1h) = %v, want about %v", got, floor)
	}
}

func TestScriptFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fast.lua")
	src := `
function interval(elapsed, base) return 0.25 end
function speed(elapsed, base) return base + elapsed end
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path, testBase, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer p.Close()

	if got := p.Interval(3 * time.Second); got != 250*time.Millisecond {
		t.Errorf("Interval = %v, want 250ms", got)
	}
	if got := p.Speed(2 * time.Second); got != 602 {
		t.Errorf("Speed = %v, want 602", got)
	}
	if p.Name() != "script" {
		t.Errorf("Name = %q", p.Name())
	}
}

func TestScriptMissingFunction(t *testing.T) {
	_, err := New(`function interval(e, b) return b end`, testBase, nil)
	if !errors.Is(err, ErrMissingFunction) {
		t.Fatalf("err = %v, want ErrMissingFunction", err)
	}
}

func TestScriptSyntaxError(t *testing.T) {
	if _, err := New(`function interval(`, testBase, nil); err == nil {
		t.Fatal("expected syntax error")
	}
}

func TestScriptMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.lua"), testBase, nil); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestScriptFallsBackOnBadValues(t *testing.T) {
	src := `
function interval(elapsed, base) error("boom") end
function speed(elapsed, base) return "fast" end
`
	p, err := New(src, testBase, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if got := p.Interval(time.Second); got != testBase.Interval {
		t.Errorf("Interval = %v, want base %v", got, testBase.Interval)
	}
	if got := p.Speed(time.Second); got != testBase.Speed {
		t.Errorf("Speed = %v, want base %v", got, testBase.Speed)
	}
	if p.Errors() != 2 {
		t.Errorf("Errors = %d, want 2", p.Errors())
	}
}

func TestScriptRejectsNonFiniteValues(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"nan", "0/0"},
		{"inf", "math.huge"},
		{"negative inf", "-math.huge"},
		{"zero", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := "function interval(elapsed, base) return " + tt.expr + " end\n" +
				"function speed(elapsed, base) return " + tt.expr + " end\n"
			p, err := New(src, testBase, nil)
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer p.Close()

			if got := p.Interval(time.Second); got != testBase.Interval {
				t.Errorf("Interval = %v, want base %v", got, testBase.Interval)
			}
			if got := p.Speed(time.Second); got != testBase.Speed {
				t.Errorf("Speed = %v, want base %v", got, testBase.Speed)
			}
			if p.Errors() != 2 {
				t.Errorf("Errors = %d, want 2", p.Errors())
			}
		})
	}
}

func TestScriptNoIOLibrary(t *testing.T) {
	src := `
function interval(elapsed, base) return base end
function speed(elapsed, base) io.write("x") return base end
`
	p, err := New(src, testBase, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer p.Close()

	if got := p.Speed(0); got != testBase.Speed {
		t.Errorf("Speed = %v, want fallback %v", got, testBase.Speed)
	}
	if p.Errors() != 1 {
		t.Errorf("Errors = %d, want 1", p.Errors())
	}
}
